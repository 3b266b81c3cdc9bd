package via

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePort struct {
	v uint8
}

func (p *fakePort) Input() uint8 { return p.v }

func TestPortReadReflectsDDRMux(t *testing.T) {
	tests := []struct {
		name string
		ddr  uint8
		out  uint8
		in   uint8
		want uint8
	}{
		{name: "all input", ddr: 0x00, out: 0xFF, in: 0x3C, want: 0x3C},
		{name: "all output", ddr: 0xFF, out: 0x3C, in: 0xFF, want: 0x3C},
		{name: "mixed", ddr: 0x0F, out: 0x0A, in: 0xF0, want: 0xFA},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			port := &fakePort{v: test.in}
			c := New(Config{PortA: port})
			c.ddra = test.ddr
			c.ora = test.out
			assert.Equal(t, test.want, c.Read(RegORA))
		})
	}
}

func TestWritesAreShadowedUntilTickDone(t *testing.T) {
	c := New(Config{})
	c.ddra = 0xFF
	c.Write(RegORA, 0x42)

	// Not visible yet: the write is still shadowed.
	assert.Equal(t, uint8(0x00), c.ora)

	c.TickDone()
	assert.Equal(t, uint8(0x42), c.ora)
	assert.Equal(t, uint8(0x42), c.Read(RegORA))
}

func TestTimer1OneShotFiresOnUnderflowThenFreeRuns(t *testing.T) {
	c := New(Config{})
	c.t1Counter = 0
	c.t1Latch = 0x1234
	c.acr = 0x00 // one-shot

	c.Tick()
	c.TickDone()
	assert.False(t, c.Raised(), "IFRT1 alone isn't Raised() without IER enabling it")
	assert.NotZero(t, c.ifr&IFRT1)
	assert.Equal(t, uint16(0xFFFF), c.t1Counter, "one-shot decrements through zero instead of reloading")

	// Clear the flag and tick again: one-shot mode doesn't reload from
	// the latch, so it free-runs down from 0xFFFF without re-firing.
	c.ifr &^= IFRT1
	before := c.t1Counter
	c.Tick()
	c.TickDone()
	assert.Equal(t, before-1, c.t1Counter)
	assert.Zero(t, c.ifr&IFRT1)
}

func TestTimer1ContinuousReloadsFromLatch(t *testing.T) {
	c := New(Config{})
	c.t1Counter = 0
	c.t1Latch = 0x0055
	c.acr = acrT1Continuous

	c.Tick()
	c.TickDone()
	assert.Equal(t, uint16(0x0055), c.t1Counter)
	assert.NotZero(t, c.ifr&IFRT1)
}

func TestRaisedRequiresEnableBit(t *testing.T) {
	c := New(Config{})
	c.ifr = IFRT1
	c.ier = 0x00
	assert.False(t, c.Raised())

	c.ier = IFRT1
	assert.True(t, c.Raised())
}

func TestIFRReadSetsAnyBitWhenEnabledFlagPending(t *testing.T) {
	c := New(Config{})
	c.ifr = IFRCA1
	c.ier = IFRCA1
	got := c.Read(RegIFR)
	assert.NotZero(t, got&IFRAny)
	assert.NotZero(t, got&IFRCA1)
}

func TestReadingCounterLowClearsInterruptFlag(t *testing.T) {
	c := New(Config{})
	c.ifr = IFRT1 | IFRT2
	c.Read(RegT1CL)
	assert.Zero(t, c.ifr&IFRT1)
	assert.NotZero(t, c.ifr&IFRT2)
	c.Read(RegT2CL)
	assert.Zero(t, c.ifr&IFRT2)
}

func TestWriteIER(t *testing.T) {
	c := New(Config{})
	c.Write(RegIER, 0x80|IFRT1|IFRCA1)
	require.NotZero(t, c.ier&IFRT1)
	require.NotZero(t, c.ier&IFRCA1)

	c.Write(RegIER, IFRT1) // clear bit, high bit not set
	assert.Zero(t, c.ier&IFRT1)
	assert.NotZero(t, c.ier&IFRCA1)
}

func TestPowerOnClearsRegisters(t *testing.T) {
	c := New(Config{})
	c.ora, c.orb = 0x11, 0x22
	c.ifr, c.ier = 0xFF, 0xFF
	c.PowerOn()
	assert.Equal(t, uint8(0), c.ora)
	assert.Equal(t, uint8(0), c.orb)
	assert.Equal(t, uint8(0), c.ifr)
	assert.Equal(t, uint8(0), c.ier)
}
