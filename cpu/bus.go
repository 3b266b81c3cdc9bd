// Package cpu implements the NMOS 6502 instruction set, including the
// documented and undocumented ("illegal") opcodes, BCD arithmetic and
// the RESET/IRQ/NMI/BRK interrupt sequences.
package cpu

// Bus is the memory contract the CPU depends on. Implementations decode
// 16 bit addresses into whatever backs them (RAM, mapped peripherals,
// ROM); the CPU performs no aliasing or address decoding of its own.
type Bus interface {
	// Read returns the byte stored at addr. May have side effects
	// (e.g. a peripheral register that clears a status bit on read).
	Read(addr uint16) uint8
	// Write stores val at addr. May have side effects.
	Write(addr uint16, val uint8)
}

// Pacer lets the CPU cooperatively pace real time against the
// emulated clock rate. It's wired in separately from Bus (Config.Pacer)
// since plenty of callers - tests especially - want a Bus without
// paced execution. If Config.Pacer is nil, Step never blocks.
type Pacer interface {
	// WaitNextCycle blocks (or spins) long enough to approximate one
	// clock cycle at whatever rate the Pacer was configured for.
	WaitNextCycle()
}

// Vector addresses fixed by the 6502 architecture.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// Status register bit masks.
const (
	flagNegative = uint8(0x80)
	flagOverflow = uint8(0x40)
	flagUnused   = uint8(0x20) // Always reads as 1, never stored.
	flagBreak    = uint8(0x10) // Synthesized on push, never stored.
	flagDecimal  = uint8(0x08)
	flagIRQ      = uint8(0x04)
	flagZero     = uint8(0x02)
	flagCarry    = uint8(0x01)
)

// Variant selects an NMOS 6502 family member. The arithmetic core is
// identical across all of them except for the details called out per
// constant below.
type Variant int

const (
	// NMOS is the stock NMOS 6502 including all 105 illegal opcodes.
	NMOS Variant = iota
	// NMOSRicoh is the Ricoh 2A03/2A07 used in the NES: identical to
	// NMOS except BCD mode is wired off in silicon, so ADC/SBC never
	// do decimal adjustment regardless of the D flag.
	NMOSRicoh
	// NMOS6510 is the 6510 variant (C64), identical to NMOS for every
	// instruction and timing purpose modeled here; the 6510's extra
	// I/O port at 0x0000/0x0001 is a memory-map concern handled by the
	// Bus, not the CPU.
	NMOS6510
)
