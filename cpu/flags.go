package cpu

// Flags holds the six independent status bits the 6502 stores. Bits 4
// (Break) and 5 (Unused) are not state at all: they're synthesized
// whenever the status byte is packed (Status) and discarded whenever
// it's unpacked (SetStatus), per the hardware behavior of PHP/BRK vs.
// PLP/RTI.
type Flags struct {
	Carry     bool
	Zero      bool
	Interrupt bool // Interrupt-disable.
	Decimal   bool
	Overflow  bool
	Negative  bool
}

// Status packs the six flags into a byte with bit 5 always 1 and bit 4
// always 0 (the form the processor keeps internally; BRK/PHP push a
// variant with bit 4 set, computed separately in interrupt.go).
func (f Flags) Status() uint8 {
	var p uint8 = flagUnused
	if f.Carry {
		p |= flagCarry
	}
	if f.Zero {
		p |= flagZero
	}
	if f.Interrupt {
		p |= flagIRQ
	}
	if f.Decimal {
		p |= flagDecimal
	}
	if f.Overflow {
		p |= flagOverflow
	}
	if f.Negative {
		p |= flagNegative
	}
	return p
}

// SetStatus unpacks a status byte into the six flags, ignoring bits 4
// and 5 entirely (whatever PLP/RTI pulled off the stack for those bits
// is discarded, matching real hardware which has no storage for them).
func (f *Flags) SetStatus(p uint8) {
	f.Carry = p&flagCarry != 0
	f.Zero = p&flagZero != 0
	f.Interrupt = p&flagIRQ != 0
	f.Decimal = p&flagDecimal != 0
	f.Overflow = p&flagOverflow != 0
	f.Negative = p&flagNegative != 0
}

// setNZ sets Zero/Negative from an 8 bit result, the common tail of
// nearly every load/transfer/logic/shift instruction.
func (f *Flags) setNZ(v uint8) {
	f.Zero = v == 0
	f.Negative = v&flagNegative != 0
}

// setCZN sets Carry from a 9+ bit intermediate result then Zero/Negative
// from its low byte. Used by the binary ALU paths (ADC, shifts).
func (f *Flags) setCZN(v uint16) {
	f.Carry = v > 0xFF
	f.setNZ(uint8(v))
}

// setOverflowAdd sets Overflow for an additive operation (ADC and the
// RRA/ISC illegal combos that end in an ADC/SBC) per the standard
// two's-complement sign-change test.
func (f *Flags) setOverflowAdd(a, operand, result uint8) {
	f.Overflow = (^(a^operand))&(a^result)&flagNegative != 0
}

// compare implements CMP/CPX/CPY: Carry set when reg >= operand, then
// Zero/Negative from the (possibly wrapping) subtraction.
func (f *Flags) compare(reg, operand uint8) {
	f.Carry = reg >= operand
	f.setNZ(reg - operand)
}
