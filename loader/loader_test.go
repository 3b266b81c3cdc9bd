package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mem [1 << 16]uint8
}

func (f *fakeBus) Read(addr uint16) uint8       { return f.mem[addr] }
func (f *fakeBus) Write(addr uint16, val uint8) { f.mem[addr] = val }

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoad(t *testing.T) {
	data := []byte{0xA9, 0x01, 0x8D, 0x00, 0x02}
	path := writeTempFile(t, data)

	bus := &fakeBus{}
	n, err := Load(bus, path, 0xC000)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	for i, v := range data {
		assert.Equal(t, v, bus.Read(0xC000+uint16(i)))
	}
}

func TestLoadRejectsOverflow(t *testing.T) {
	data := make([]byte, 0x100)
	path := writeTempFile(t, data)

	bus := &fakeBus{}
	_, err := Load(bus, path, 0xFF80)
	assert.Error(t, err)
}

func TestLoadPRG(t *testing.T) {
	// Load address 0x0801 little endian, followed by 3 data bytes.
	data := []byte{0x01, 0x08, 0xAA, 0xBB, 0xCC}
	path := writeTempFile(t, data)

	bus := &fakeBus{}
	addr, n, err := LoadPRG(bus, path)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0801), addr)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint8(0xAA), bus.Read(0x0801))
	assert.Equal(t, uint8(0xBB), bus.Read(0x0802))
	assert.Equal(t, uint8(0xCC), bus.Read(0x0803))
}

func TestLoadPRGTooShort(t *testing.T) {
	path := writeTempFile(t, []byte{0x01})
	bus := &fakeBus{}
	_, _, err := LoadPRG(bus, path)
	assert.Error(t, err)
}
