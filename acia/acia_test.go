package acia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedSetsRXFullAndReadDataConsumes(t *testing.T) {
	c := New()
	assert.Zero(t, c.statusValue()&StatusRXFull)

	c.Feed(0xAA, 0xBB)
	assert.NotZero(t, c.statusValue()&StatusRXFull)

	assert.Equal(t, uint8(0xAA), c.Read(RegData))
	assert.NotZero(t, c.statusValue()&StatusRXFull, "one byte still queued")
	assert.Equal(t, uint8(0xBB), c.Read(RegData))
	assert.Zero(t, c.statusValue()&StatusRXFull, "queue now empty")
}

func TestReadDataOnEmptyQueueReturnsZero(t *testing.T) {
	c := New()
	assert.Equal(t, uint8(0), c.Read(RegData))
}

func TestWriteDataAppendsToTXAndClearsEmpty(t *testing.T) {
	c := New()
	require.NotZero(t, c.Read(RegStatus)&StatusTXEmpty, "TX starts empty")

	c.Write(RegData, 0x41)
	assert.Zero(t, c.Read(RegStatus)&StatusTXEmpty)
}

func TestDrainReturnsQueuedBytesAndResetsEmpty(t *testing.T) {
	c := New()
	c.Write(RegData, 0x41)
	c.Write(RegData, 0x42)

	out, ok := c.Drain()
	require.True(t, ok)
	assert.Equal(t, []uint8{0x41, 0x42}, out)
	assert.NotZero(t, c.Read(RegStatus)&StatusTXEmpty)

	_, ok = c.Drain()
	assert.False(t, ok, "nothing queued, Drain should report ok=false")
}

func TestIRQPendingOnRXByDefault(t *testing.T) {
	c := New()
	c.Feed(0x01)
	assert.True(t, c.Raised())

	c.Write(RegCommand, commandRXIRQDisable)
	assert.False(t, c.Raised(), "masked by command register")
}

func TestIRQPendingOnTXWhenEnabled(t *testing.T) {
	c := New()
	// TX starts empty; with the right command encoding that alone
	// should assert the interrupt line.
	c.Write(RegCommand, commandTXIRQEnabled)
	assert.True(t, c.Raised())

	c.Write(RegData, 0x41)
	assert.False(t, c.Raised(), "TX no longer empty")
}

func TestWriteStatusTriggersReset(t *testing.T) {
	c := New()
	c.Feed(0xAA)
	c.Write(RegData, 0x41)
	require.NotZero(t, c.Read(RegStatus)&StatusRXFull)

	c.Write(RegStatus, 0xFF) // value is ignored, any write resets

	assert.Zero(t, c.Read(RegStatus)&StatusRXFull)
	assert.NotZero(t, c.Read(RegStatus)&StatusTXEmpty)
	_, ok := c.Drain()
	assert.False(t, ok, "reset should have cleared the TX queue")
}
