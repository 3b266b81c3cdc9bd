package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixfiveoh/nmos65/via"
)

type fakeTIA struct {
	reads  []uint16
	writes map[uint16]uint8
}

func (f *fakeTIA) Read(addr uint16) uint8 {
	f.reads = append(f.reads, addr)
	return 0xAA
}

func (f *fakeTIA) Write(addr uint16, val uint8) {
	if f.writes == nil {
		f.writes = map[uint16]uint8{}
	}
	f.writes[addr] = val
}

func TestBusFallsBackToRAMOutsidePeripheralWindows(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	b.Write(0x2000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x2000))
}

func TestBusDispatchesTIAWindowWithLocalOffset(t *testing.T) {
	tia := &fakeTIA{}
	b, err := New(Config{TIA: tia})
	require.NoError(t, err)

	b.Write(TIABase+0x05, 0x10)
	assert.Equal(t, uint8(0x10), tia.writes[0x05])

	assert.Equal(t, uint8(0xAA), b.Read(TIABase+0x05))
	assert.Equal(t, uint16(0x05), tia.reads[len(tia.reads)-1])
}

func TestBusDispatchesVIAWindow(t *testing.T) {
	v := via.New(via.Config{})
	b, err := New(Config{VIA: v})
	require.NoError(t, err)

	b.Write(VIABase+uint16(via.RegDDRA), 0xFF)
	assert.Equal(t, uint8(0xFF), b.Read(VIABase+uint16(via.RegDDRA)))
}

func TestBusNilPeripheralsFallThroughToRAM(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	// Addresses that would belong to TIA/VIA/ACIA windows if those
	// peripherals were mounted instead just hit RAM when they're nil.
	b.Write(VIABase, 0x37)
	assert.Equal(t, uint8(0x37), b.Read(VIABase))
}

func TestRAMExposesUnderlyingBank(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	b.RAM().Write(0x1234, 0x9B)
	assert.Equal(t, uint8(0x9B), b.Read(0x1234))
}

func TestTickAdvancesVIAButLeavesTIAAlone(t *testing.T) {
	v := via.New(via.Config{})
	tia := &fakeTIA{}
	b, err := New(Config{VIA: v, TIA: tia})
	require.NoError(t, err)

	// Set the timer latch/counter to a known value; Bus.Tick's single
	// VIA Tick()+TickDone() pair both commits this write and ticks.
	b.Write(VIABase+uint16(via.RegT1CL), 0x05)
	b.Write(VIABase+uint16(via.RegT1CH), 0x00)
	b.Tick()
	committed := b.Read(VIABase + uint16(via.RegT1CL))
	require.Equal(t, uint8(0x05), committed, "write should be committed by TickDone")

	b.Tick()
	after := b.Read(VIABase + uint16(via.RegT1CL))
	assert.Equal(t, uint8(0x04), after, "VIA timer should have ticked down by one")
}
