package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockPeriod(t *testing.T) {
	assert.Equal(t, uint64(1_000_000), uint64(clockPeriod(1_000).Nanoseconds()))
}

func TestPRGToCart(t *testing.T) {
	// Load address 0x0801, two data bytes.
	prg := []byte{0x01, 0x08, 0xAA, 0xBB}
	out := prgToCart(prg, 0x0801)

	if len(out) != 65536 {
		t.Fatalf("expected 64k image, got %d bytes", len(out))
	}
	assert.Equal(t, byte(0xAA), out[0x0801])
	assert.Equal(t, byte(0xBB), out[0x0802])

	assert.Equal(t, byte(0x4C), out[0xC000])
	assert.Equal(t, byte(0x20), out[0xD000])
	assert.Equal(t, byte(0x01), out[0xD001])
	assert.Equal(t, byte(0x08), out[0xD002])

	assert.Equal(t, byte(0x00), out[0xFFFC])
	assert.Equal(t, byte(0xC0), out[0xFFFD])
}

func TestAssembleListing(t *testing.T) {
	listing := "0801 A9 00\t; LDA #$00\n" +
		"0803 8D 00 20(*)comment\n" +
		"not a listing line\n" +
		"\n"
	dir := t.TempDir()
	fn := filepath.Join(dir, "listing.txt")
	require.NoError(t, os.WriteFile(fn, []byte(listing), 0644))

	out, err := assembleListing(fn, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA9, 0x00, 0x8D, 0x00, 0x20}, out)
}

func TestAssembleListingZeroFillsOffset(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "listing.txt")
	require.NoError(t, os.WriteFile(fn, []byte("0801 FF 00\n"), 0644))

	out, err := assembleListing(fn, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0x00}, out)
}

func TestAssembleListingRejectsTooManyTokens(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "listing.txt")
	require.NoError(t, os.WriteFile(fn, []byte("0801 AB CD 01 02 03\n"), 0644))

	_, err := assembleListing(fn, 0)
	assert.Error(t, err)
}
