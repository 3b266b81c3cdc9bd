package atari2600

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBasicCart(t *testing.T) {
	assert.True(t, IsBasicCart(make([]uint8, 2048)))
	assert.True(t, IsBasicCart(make([]uint8, 4096)))
	assert.False(t, IsBasicCart(make([]uint8, 8192)))
}

func TestNewStandardCartMirrors2k(t *testing.T) {
	rom := make([]uint8, 2048)
	rom[0] = 0xAA
	c, err := NewStandardCart(rom, nil)
	require.NoError(t, err)

	// kROM_MASK must be set for the cart to treat the address as in range.
	assert.Equal(t, uint8(0xAA), c.Read(kROM_MASK|0x0000))
	assert.Equal(t, uint8(0xAA), c.Read(kROM_MASK|0x0800), "2k rom should mirror into the upper half of the 4k window")
}

func TestNewStandardCartRejectsOddOrOversizedRoms(t *testing.T) {
	_, err := NewStandardCart(make([]uint8, 4097), nil)
	assert.Error(t, err)
	_, err = NewStandardCart(make([]uint8, 2047), nil)
	assert.Error(t, err)
}

func TestF8BankSwitchCartSwitchesOnSentinelAddresses(t *testing.T) {
	rom := make([]uint8, 8192)
	rom[0x0000] = 0x11       // low bank, offset 0
	rom[4096+0x0000] = 0x22  // high bank, offset 0
	c, err := NewF8BankSwitchCart(rom, nil)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x11), c.Read(kROM_MASK|0x0000), "defaults to the low bank")

	c.Read(kROM_MASK | 0x1FF9) // switch to high bank
	assert.Equal(t, uint8(0x22), c.Read(kROM_MASK|0x0000))

	c.Read(kROM_MASK | 0x1FF8) // switch back to low bank
	assert.Equal(t, uint8(0x11), c.Read(kROM_MASK|0x0000))
}

func TestF6BankSwitchCartSelectsAmongFourBanks(t *testing.T) {
	rom := make([]uint8, 16384)
	for bank := 0; bank < 4; bank++ {
		rom[bank*4096] = byte(0x10 + bank)
	}
	c, err := NewF6BankSwitchCart(rom, nil)
	require.NoError(t, err)

	for bank, sentinel := range map[uint16]byte{0x1FF6: 0x10, 0x1FF7: 0x11, 0x1FF8: 0x12, 0x1FF9: 0x13} {
		c.Read(kROM_MASK | bank)
		assert.Equal(t, sentinel, c.Read(kROM_MASK|0x0000))
	}
}

func TestF6SCBankSwitchCartReadWritesOnboardRAM(t *testing.T) {
	rom := make([]uint8, 16384)
	c, err := NewF6SCBankSwitchCart(rom, nil)
	require.NoError(t, err)

	// Writing to the 0x1000-0x107F window stores into RAM; reading back
	// from the mirrored 0x1080-0x10FF window returns it.
	c.Write(kROM_MASK|0x1000, 0x5A)
	got := c.Read(kROM_MASK | 0x1080)
	assert.Equal(t, uint8(0x5A), got)
}

func TestNewCartSelectsBySize(t *testing.T) {
	basic, err := newCart(make([]uint8, 4096), nil)
	require.NoError(t, err)
	if _, ok := basic.(*basicCart); !ok {
		t.Errorf("4k rom should select basicCart, got %T", basic)
	}

	// LDA 0x1FF9 in bank 0, LDA 0x1FF8 in bank 1: the signature
	// IsF8BankSwitch scans for.
	rom := make([]uint8, 8192)
	rom[10], rom[11], rom[12] = 0xAD, 0xF9, 0x1F
	rom[4106], rom[4107], rom[4108] = 0xAD, 0xF8, 0x1F

	eightK, err := newCart(rom, nil)
	require.NoError(t, err)
	if _, ok := eightK.(*f8BankSwitchCart); !ok {
		t.Errorf("8k rom with an F8 signature should select f8BankSwitchCart, got %T", eightK)
	}
}

func TestNewCartRejectsUnrecognizedSize(t *testing.T) {
	_, err := newCart(make([]uint8, 3000), nil)
	assert.Error(t, err)
}
