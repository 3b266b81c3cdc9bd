package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixfiveoh/nmos65/cpu"
)

type fakeBus struct {
	mem [1 << 16]uint8
}

func (f *fakeBus) Read(addr uint16) uint8       { return f.mem[addr] }
func (f *fakeBus) Write(addr uint16, val uint8) { f.mem[addr] = val }

func newTestModel(t *testing.T) (Model, *fakeBus) {
	t.Helper()
	bus := &fakeBus{}
	bus.mem[cpu.ResetVector] = 0x00
	bus.mem[cpu.ResetVector+1] = 0xC0
	bus.mem[0xC000] = 0xA9 // LDA #$42
	bus.mem[0xC001] = 0x42
	bus.mem[0xC002] = 0xEA // NOP
	c, err := cpu.New(cpu.Config{Bus: bus})
	require.NoError(t, err)
	c.Reset()
	m := New(c, bus)
	return m, bus
}

func TestExecuteStep(t *testing.T) {
	m, _ := newTestModel(t)
	out, err := m.execute("step")
	require.NoError(t, err)
	assert.Contains(t, out, "stepped")
	assert.Equal(t, uint8(0x42), m.cpu.A)
	assert.Equal(t, uint16(0xC002), m.cpu.PC)
}

func TestExecuteReg(t *testing.T) {
	m, _ := newTestModel(t)
	out, err := m.execute("reg")
	require.NoError(t, err)
	assert.Contains(t, out, "PC: C000")
}

func TestExecuteSetAndReg(t *testing.T) {
	m, _ := newTestModel(t)
	_, err := m.execute("set A 7F")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), m.cpu.A)
}

func TestExecuteBreakAndRun(t *testing.T) {
	m, _ := newTestModel(t)
	_, err := m.execute("break C002")
	require.NoError(t, err)
	out, err := m.execute("run 10")
	require.NoError(t, err)
	assert.Equal(t, "ran 1 instructions", out)
	assert.Equal(t, uint16(0xC002), m.cpu.PC)
}

func TestExecuteMem(t *testing.T) {
	m, _ := newTestModel(t)
	out, err := m.execute("mem C000 3")
	require.NoError(t, err)
	assert.Contains(t, out, "A9 42 EA")
}

func TestExecuteUnknownCommand(t *testing.T) {
	m, _ := newTestModel(t)
	_, err := m.execute("frobnicate")
	assert.Error(t, err)
}

func TestExecuteReset(t *testing.T) {
	m, _ := newTestModel(t)
	_, err := m.execute("step")
	require.NoError(t, err)
	_, err = m.execute("reset")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC000), m.cpu.PC)
}
