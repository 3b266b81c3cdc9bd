// Package bus implements the address-range decoder tying RAM and the
// mapped peripherals together into the single cpu.Bus the core talks
// to. The range-dispatch shape is grounded on this module's atari2600
// package, which does the same kind of fixed address-range switch for
// its (much smaller) PIA/TIA/ROM map.
package bus

import (
	"github.com/sixfiveoh/nmos65/acia"
	"github.com/sixfiveoh/nmos65/memory"
	"github.com/sixfiveoh/nmos65/via"
)

// Fixed address windows. TIA/VIA/ACIA each decode a small register
// window; everything else in the 64k space is flat RAM (ROM images are
// loaded into it by the loader package rather than modeled as a
// distinct read-only region, matching spec's "RAM-backed store, no ROM
// protection" data model).
const (
	TIABase, TIASize = uint16(0x0000), uint16(0x0040)
	VIABase, VIASize = uint16(0x6000), uint16(0x0010)
	ACIABase         = uint16(0xD000)
	ACIASize         = uint16(0x0010)
)

// tiaPeripheral is the minimal surface bus needs from a TIA
// implementation; kept local so bus doesn't need to import the tia
// package's fuller ChipDef/Init surface just to plug one in.
type tiaPeripheral interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Bus wires one flat 64k RAM bank together with an optional TIA, VIA
// and ACIA, each mounted at a fixed address window. Any of the three
// peripherals may be left nil, in which case reads from its window
// return 0 and writes are dropped - useful for cpu package tests that
// want a bare memory map.
type Bus struct {
	ram  memory.Bank
	tia  tiaPeripheral
	via  *via.Chip
	acia *acia.Chip
}

// Config supplies the peripherals to mount. RAM is always present and
// covers the full 64k space minus whatever the peripherals claim.
type Config struct {
	TIA  tiaPeripheral
	VIA  *via.Chip
	ACIA *acia.Chip
}

// New returns a powered-on Bus.
func New(cfg Config) (*Bus, error) {
	ram, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		return nil, err
	}
	ram.PowerOn()
	return &Bus{ram: ram, tia: cfg.TIA, via: cfg.VIA, acia: cfg.ACIA}, nil
}

// Read implements cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case b.tia != nil && addr < TIABase+TIASize:
		return b.tia.Read(addr - TIABase)
	case b.via != nil && addr >= VIABase && addr < VIABase+VIASize:
		return b.via.Read(addr - VIABase)
	case b.acia != nil && addr >= ACIABase && addr < ACIABase+ACIASize:
		return b.acia.Read(addr - ACIABase)
	}
	return b.ram.Read(addr)
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case b.tia != nil && addr < TIABase+TIASize:
		b.tia.Write(addr-TIABase, val)
		return
	case b.via != nil && addr >= VIABase && addr < VIABase+VIASize:
		b.via.Write(addr-VIABase, val)
		return
	case b.acia != nil && addr >= ACIABase && addr < ACIABase+ACIASize:
		b.acia.Write(addr-ACIABase, val)
		return
	}
	b.ram.Write(addr, val)
}

// RAM exposes the underlying flat memory bank directly, for loaders
// that need to place a program image without going through the
// peripheral-aware Read/Write dispatch (and for tests that want to
// seed memory directly).
func (b *Bus) RAM() memory.Bank {
	return b.ram
}

// Tick advances the VIA by one clock cycle (Tick then TickDone), and
// should be called cycles times after every cpu.Step() call that
// returns cycles > 0. The ACIA has no per-cycle state and isn't ticked.
// TIA is intentionally not ticked here: video/audio timing
// runs on its own (much faster) clock, driven by the system package
// that owns the CPU/TIA ratio.
func (b *Bus) Tick() {
	if b.via != nil {
		b.via.Tick()
		b.via.TickDone()
	}
}
