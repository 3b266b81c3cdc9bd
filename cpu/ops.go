package cpu

// opFunc is the shape every table-dispatched operation implements. op
// has already been resolved by resolveOperand per the opcode's
// addrMode/opClass; the function's only job is the instruction's own
// semantics (registers, flags, and any bus write for store/RMW shapes).
type opFunc func(c *CPU, op operand)

// --- stack plumbing -------------------------------------------------

// push writes v to the address the stack pointer currently names, then
// decrements it. The stack lives fixed at page one (0x0100-0x01FF);
// SP wraps within that page with no protection against overrun, same
// as real hardware.
func (c *CPU) push(v uint8) {
	c.bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

// pop increments the stack pointer then reads the byte it now names.
func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(0x0100 | uint16(c.SP))
}

func (c *CPU) pushAddr(addr uint16) {
	c.push(uint8(addr >> 8))
	c.push(uint8(addr))
}

func (c *CPU) popAddr() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// --- loads / stores --------------------------------------------------

func (c *CPU) lda(op operand) { c.A = op.value; c.setNZ(c.A) }
func (c *CPU) ldx(op operand) { c.X = op.value; c.setNZ(c.X) }
func (c *CPU) ldy(op operand) { c.Y = op.value; c.setNZ(c.Y) }

func (c *CPU) sta(op operand) { c.bus.Write(op.addr, c.A) }
func (c *CPU) stx(op operand) { c.bus.Write(op.addr, c.X) }
func (c *CPU) sty(op operand) { c.bus.Write(op.addr, c.Y) }

// --- register transfers ----------------------------------------------

func (c *CPU) tax(operand) { c.X = c.A; c.setNZ(c.X) }
func (c *CPU) tay(operand) { c.Y = c.A; c.setNZ(c.Y) }
func (c *CPU) txa(operand) { c.A = c.X; c.setNZ(c.A) }
func (c *CPU) tya(operand) { c.A = c.Y; c.setNZ(c.A) }
func (c *CPU) tsx(operand) { c.X = c.SP; c.setNZ(c.X) }
func (c *CPU) txs(operand) { c.SP = c.X } // TXS alone never touches N/Z.

// --- stack instructions ------------------------------------------------

func (c *CPU) pha(operand) { c.push(c.A) }
func (c *CPU) php(operand) { c.push(c.Status() | flagBreak) }
func (c *CPU) pla(operand) { c.A = c.pop(); c.setNZ(c.A) }
func (c *CPU) plp(operand) { c.SetStatus(c.pop()) }

// --- increments / decrements -------------------------------------------

func (c *CPU) inx(operand) { c.X++; c.setNZ(c.X) }
func (c *CPU) iny(operand) { c.Y++; c.setNZ(c.Y) }
func (c *CPU) dex(operand) { c.X--; c.setNZ(c.X) }
func (c *CPU) dey(operand) { c.Y--; c.setNZ(c.Y) }

func (c *CPU) inc(op operand) {
	v := op.value + 1
	c.bus.Write(op.addr, v)
	c.setNZ(v)
}

func (c *CPU) dec(op operand) {
	v := op.value - 1
	c.bus.Write(op.addr, v)
	c.setNZ(v)
}

// --- shifts / rotates ---------------------------------------------------

func (c *CPU) writeBack(op operand, v uint8) {
	if op.accumulator {
		c.A = v
		return
	}
	c.bus.Write(op.addr, v)
}

func (c *CPU) asl(op operand) {
	c.Carry = op.value&0x80 != 0
	v := op.value << 1
	c.writeBack(op, v)
	c.setNZ(v)
}

func (c *CPU) lsr(op operand) {
	c.Carry = op.value&0x01 != 0
	v := op.value >> 1
	c.writeBack(op, v)
	c.setNZ(v)
}

func (c *CPU) rol(op operand) {
	carryIn := uint8(0)
	if c.Carry {
		carryIn = 0x01
	}
	c.Carry = op.value&0x80 != 0
	v := op.value<<1 | carryIn
	c.writeBack(op, v)
	c.setNZ(v)
}

func (c *CPU) ror(op operand) {
	carryIn := uint8(0)
	if c.Carry {
		carryIn = 0x80
	}
	c.Carry = op.value&0x01 != 0
	v := op.value>>1 | carryIn
	c.writeBack(op, v)
	c.setNZ(v)
}

// --- logic --------------------------------------------------------------

func (c *CPU) and(op operand) { c.A &= op.value; c.setNZ(c.A) }
func (c *CPU) ora(op operand) { c.A |= op.value; c.setNZ(c.A) }
func (c *CPU) eor(op operand) { c.A ^= op.value; c.setNZ(c.A) }

func (c *CPU) bit(op operand) {
	c.Zero = c.A&op.value == 0
	c.Negative = op.value&flagNegative != 0
	c.Overflow = op.value&flagOverflow != 0
}

// --- compare --------------------------------------------------------------

func (c *CPU) cmp(op operand) { c.compare(c.A, op.value) }
func (c *CPU) cpx(op operand) { c.compare(c.X, op.value) }
func (c *CPU) cpy(op operand) { c.compare(c.Y, op.value) }

// --- flag instructions ------------------------------------------------------

func (c *CPU) clc(operand) { c.Carry = false }
func (c *CPU) sec(operand) { c.Carry = true }
func (c *CPU) cli(operand) { c.Interrupt = false }
func (c *CPU) sei(operand) { c.Interrupt = true }
func (c *CPU) cld(operand) { c.Decimal = false }
func (c *CPU) sed(operand) { c.Decimal = true }
func (c *CPU) clv(operand) { c.Overflow = false }

func (c *CPU) nop(operand) {}

// --- arithmetic (ADC/SBC, binary and BCD) -----------------------------------

// adc implements ADC for all three NMOS/Ricoh/6510 variants. Decimal
// mode is wired off entirely for NMOSRicoh, matching the 2A03/2A07
// silicon used in the NES.
func (c *CPU) adc(op operand) {
	if c.Decimal && c.variant != NMOSRicoh {
		c.adcDecimal(op.value)
		c.extraBCDCycle = true
		return
	}
	c.adcBinary(op.value)
}

func (c *CPU) adcBinary(value uint8) {
	carry := uint16(0)
	if c.Carry {
		carry = 1
	}
	sum := uint16(c.A) + uint16(value) + carry
	c.setOverflowAdd(c.A, value, uint8(sum))
	c.setCZN(sum)
	c.A = uint8(sum)
}

// adcDecimal follows the canonical NMOS decimal-mode ADC algorithm: the
// low nibble is computed and fixed up first, carrying into a high-nibble
// sum that may itself need a +0x60 fixup. N and V are read off the sum
// *before* that final fixup; Z is read off the plain binary sum instead
// of the decimal one. Both asymmetries are real NMOS behavior, not bugs.
func (c *CPU) adcDecimal(value uint8) {
	carry := uint16(0)
	if c.Carry {
		carry = 1
	}
	al := (uint16(c.A) & 0x0F) + (uint16(value) & 0x0F) + carry
	if al >= 0x0A {
		al = ((al + 0x06) & 0x0F) + 0x10
	}
	interim := (uint16(c.A) & 0xF0) + (uint16(value) & 0xF0) + al
	c.Negative = interim&0x80 != 0
	c.setOverflowAdd(c.A, value, uint8(interim))

	binSum := uint16(c.A) + uint16(value) + carry
	c.Zero = uint8(binSum) == 0

	if interim >= 0xA0 {
		interim += 0x60
	}
	c.Carry = interim >= 0x100
	c.A = uint8(interim)
}

// sbc implements SBC. Unlike ADC, decimal mode only changes which value
// ends up in A: carry/zero/negative/overflow are always taken from the
// binary (ones'-complement) subtraction, per documented NMOS behavior.
func (c *CPU) sbc(op operand) {
	value := op.value
	carry := uint16(0)
	if c.Carry {
		carry = 1
	}
	binResult := uint16(c.A) + uint16(^value) + carry
	c.setOverflowAdd(c.A, ^value, uint8(binResult))
	c.setCZN(binResult)

	if c.Decimal && c.variant != NMOSRicoh {
		c.A = c.sbcDecimalValue(value, carry)
		c.extraBCDCycle = true
		return
	}
	c.A = uint8(binResult)
}

// sbcDecimalValue computes the decimal-corrected accumulator value by
// subtracting with borrow nibble-by-nibble, fixing up each nibble that
// goes negative. Flags are never derived from this path (see sbc).
func (c *CPU) sbcDecimalValue(value uint8, carry uint16) uint8 {
	al := int16(c.A&0x0F) - int16(value&0x0F) + int16(carry) - 1
	if al < 0 {
		al = ((al - 0x06) & 0x0F) - 0x10
	}
	a := int16(c.A&0xF0) - int16(value&0xF0) + al
	if a < 0 {
		a -= 0x60
	}
	return uint8(a)
}

// --- branches ------------------------------------------------------------

// branch reads the relative offset following the opcode, always
// advancing PC past it, then jumps only if taken is true. c.branchExtra
// records the timing bonus: 0 cycles if not taken, +1 if taken, +1 more
// if the jump crosses a page boundary (checked against the PC value
// immediately after the offset byte, before applying the jump).
func (c *CPU) branch(taken bool) {
	offset := int8(c.bus.Read(c.PC))
	c.PC++
	c.branchExtra = 0
	if !taken {
		return
	}
	c.branchExtra = 1
	from := c.PC
	target := uint16(int32(from) + int32(offset))
	if target&0xFF00 != from&0xFF00 {
		c.branchExtra = 2
	}
	c.PC = target
}

func (c *CPU) bcc(operand) { c.branch(!c.Carry) }
func (c *CPU) bcs(operand) { c.branch(c.Carry) }
func (c *CPU) beq(operand) { c.branch(c.Zero) }
func (c *CPU) bne(operand) { c.branch(!c.Zero) }
func (c *CPU) bmi(operand) { c.branch(c.Negative) }
func (c *CPU) bpl(operand) { c.branch(!c.Negative) }
func (c *CPU) bvc(operand) { c.branch(!c.Overflow) }
func (c *CPU) bvs(operand) { c.branch(c.Overflow) }

// --- jumps / subroutines ---------------------------------------------------

func (c *CPU) jmp(operand) { c.PC = c.readAbsoluteAddr() }

func (c *CPU) jmpIndirect(operand) {
	ptr := c.readAbsoluteAddr()
	c.PC = c.readIndirectBug(ptr)
}

func (c *CPU) jsr(operand) {
	addr := c.readAbsoluteAddr()
	c.pushAddr(c.PC - 1)
	c.PC = addr
}

func (c *CPU) rts(operand) {
	c.PC = c.popAddr() + 1
}

func (c *CPU) rti(operand) {
	c.SetStatus(c.pop())
	c.PC = c.popAddr()
}

// --- illegal opcode combos --------------------------------------------------

// slo ("ASO") shifts the operand left then ORs it into A, in one RMW
// bus cycle. Never pays the page-cross penalty: it's an RMW shape.
func (c *CPU) slo(op operand) {
	c.Carry = op.value&0x80 != 0
	v := op.value << 1
	c.writeBack(op, v)
	c.A |= v
	c.setNZ(c.A)
}

// rla rotates the operand left through carry then ANDs it into A.
func (c *CPU) rla(op operand) {
	carryIn := uint8(0)
	if c.Carry {
		carryIn = 0x01
	}
	c.Carry = op.value&0x80 != 0
	v := op.value<<1 | carryIn
	c.writeBack(op, v)
	c.A &= v
	c.setNZ(c.A)
}

// sre shifts the operand right then XORs it into A.
func (c *CPU) sre(op operand) {
	c.Carry = op.value&0x01 != 0
	v := op.value >> 1
	c.writeBack(op, v)
	c.A ^= v
	c.setNZ(c.A)
}

// rra rotates the operand right through carry then feeds it through
// ADC (decimal-aware, same as a standalone ADC). Its table entry marks
// bcdAdds false so a BCD trip here never adds the extra cycle that a
// standalone ADC would: the RMW base cycle count already accounts for
// the worst case.
func (c *CPU) rra(op operand) {
	carryIn := uint8(0)
	if c.Carry {
		carryIn = 0x80
	}
	c.Carry = op.value&0x01 != 0
	v := op.value>>1 | carryIn
	c.writeBack(op, v)
	c.adc(operand{value: v})
}

// dcp decrements the operand then compares it against A, used
// constantly by real NMOS software for loop counters.
func (c *CPU) dcp(op operand) {
	v := op.value - 1
	c.writeBack(op, v)
	c.compare(c.A, v)
}

// isc increments the operand then feeds it through SBC.
func (c *CPU) isc(op operand) {
	v := op.value + 1
	c.writeBack(op, v)
	c.sbc(operand{value: v})
}

func (c *CPU) sax(op operand) { c.bus.Write(op.addr, c.A&c.X) }

func (c *CPU) lax(op operand) {
	c.A = op.value
	c.X = op.value
	c.setNZ(op.value)
}

func (c *CPU) anc(op operand) {
	c.A &= op.value
	c.setNZ(c.A)
	c.Carry = c.Negative
}

func (c *CPU) alr(op operand) {
	c.A &= op.value
	c.Carry = c.A&0x01 != 0
	c.A >>= 1
	c.setNZ(c.A)
}

// arr ANDs then rotates right through carry like a normal ROR, but C
// and V are derived from bits 6 and 5 of the rotated result (C is bit
// 6, V is bit 6 XOR bit 5) instead of the bit rotated out, and in
// decimal mode the low/high nibbles get the same kind of fixup ADC/SBC
// get. This is documented, reproducible NMOS behavior, not a guess.
func (c *CPU) arr(op operand) {
	t := c.A & op.value
	carryIn := uint8(0)
	if c.Carry {
		carryIn = 0x80
	}
	c.A = t>>1 | carryIn
	c.setNZ(c.A)
	c.Overflow = (c.A>>6)&0x01^(c.A>>5)&0x01 != 0
	if c.Decimal && c.variant != NMOSRicoh {
		if (t&0x0F)+(t&0x01) > 5 {
			c.A = (c.A & 0xF0) | ((c.A + 6) & 0x0F)
		}
		if (t&0xF0)+(t&0x10) > 0x50 {
			c.Carry = true
			c.A += 0x60
		} else {
			c.Carry = false
		}
		return
	}
	c.Carry = c.A&0x40 != 0
}

// axs ("SBX") ANDs A and X, subtracts the operand from that with no
// borrow in, and stores the result in X. Never BCD-adjusted.
func (c *CPU) axs(op operand) {
	base := c.A & c.X
	c.Carry = base >= op.value
	c.X = base - op.value
	c.setNZ(c.X)
}

// magicConstant is the documented "unstable" OR mask several illegal
// opcodes apply to A before ANDing with X/the operand. Real silicon's
// actual value depends on temperature, bus capacitance and refresh
// timing; 0xEE is the commonly cited stable simulation value and the
// one used throughout this package.
const magicConstant = uint8(0xEE)

// xaa ("ANE") is one of the unstable illegals: its result depends on
// analog bus behavior on real silicon. This models it with the
// documented magic-constant convention rather than attempting to be
// silicon-accurate.
func (c *CPU) xaa(op operand) {
	c.A = (c.A | magicConstant) & c.X & op.value
	c.setNZ(c.A)
}

// oal ("LXA"/"ANE #i" family, opcode 0xAB) is the immediate-mode
// unstable load that lands in both A and X.
func (c *CPU) oal(op operand) {
	c.A = (c.A | magicConstant) & op.value
	c.X = c.A
	c.setNZ(c.A)
}

// ahx ("SHA"/"AXA") stores A&X&(high byte of the address + 1). Unstable
// on real silicon when the indexed address computation crosses a page;
// modeled deterministically per the documented convention.
func (c *CPU) ahx(op operand) {
	v := c.A & c.X & uint8((op.addr>>8)+1)
	c.bus.Write(op.addr, v)
}

func (c *CPU) shy(op operand) {
	v := c.Y & uint8((op.addr>>8)+1)
	c.bus.Write(op.addr, v)
}

func (c *CPU) shx(op operand) {
	v := c.X & uint8((op.addr>>8)+1)
	c.bus.Write(op.addr, v)
}

// tas ("SHS") stores A&X into SP, then writes SP&(high byte+1) to the
// operand address.
func (c *CPU) tas(op operand) {
	c.SP = c.A & c.X
	v := c.SP & uint8((op.addr>>8)+1)
	c.bus.Write(op.addr, v)
}

// las ("LAR") ANDs the operand with SP and loads the result into A, X
// and SP all at once.
func (c *CPU) las(op operand) {
	v := op.value & c.SP
	c.A = v
	c.X = v
	c.SP = v
	c.setNZ(v)
}
