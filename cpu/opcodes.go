package cpu

// opcodeEntry describes everything Step needs to execute one opcode:
// which addressing mode supplies its operand, what class of access
// that mode performs, the operation itself, the base cycle count, and
// two small timing flags. jam marks the 12 KIL/JAM/HLT opcodes that
// stop the processor instead of running op at all.
type opcodeEntry struct {
	name    string
	mode    addrMode
	class   opClass
	op      opFunc
	cycles  int
	bcdAdds bool // true only for the two opcodes (ADC, SBC) whose own decimal fixup earns the extra cycle.
	jam     bool
}

// opcodeTable is indexed directly by opcode byte. It's built once in
// init rather than hand-written as a 256-element literal so the
// (mostly mechanical) addressing-mode columns read clearly; see the
// entry* helpers below.
var opcodeTable [256]opcodeEntry

// entry is shorthand for the common case: a named operation at a given
// addressing mode/class with a fixed base cycle count.
func entry(name string, mode addrMode, class opClass, op opFunc, cycles int) opcodeEntry {
	return opcodeEntry{name: name, mode: mode, class: class, op: op, cycles: cycles}
}

func jamEntry(name string) opcodeEntry {
	return opcodeEntry{name: name, mode: modeImplied, class: classImplied, jam: true, cycles: 2}
}

func init() {
	t := &opcodeTable

	// --- documented loads -------------------------------------------------
	t[0xA9] = entry("LDA", modeImmediate, classLoad, (*CPU).lda, 2)
	t[0xA5] = entry("LDA", modeZeroPage, classLoad, (*CPU).lda, 3)
	t[0xB5] = entry("LDA", modeZeroPageX, classLoad, (*CPU).lda, 4)
	t[0xAD] = entry("LDA", modeAbsolute, classLoad, (*CPU).lda, 4)
	t[0xBD] = entry("LDA", modeAbsoluteX, classLoad, (*CPU).lda, 4)
	t[0xB9] = entry("LDA", modeAbsoluteY, classLoad, (*CPU).lda, 4)
	t[0xA1] = entry("LDA", modeIndirectX, classLoad, (*CPU).lda, 6)
	t[0xB1] = entry("LDA", modeIndirectY, classLoad, (*CPU).lda, 5)

	t[0xA2] = entry("LDX", modeImmediate, classLoad, (*CPU).ldx, 2)
	t[0xA6] = entry("LDX", modeZeroPage, classLoad, (*CPU).ldx, 3)
	t[0xB6] = entry("LDX", modeZeroPageY, classLoad, (*CPU).ldx, 4)
	t[0xAE] = entry("LDX", modeAbsolute, classLoad, (*CPU).ldx, 4)
	t[0xBE] = entry("LDX", modeAbsoluteY, classLoad, (*CPU).ldx, 4)

	t[0xA0] = entry("LDY", modeImmediate, classLoad, (*CPU).ldy, 2)
	t[0xA4] = entry("LDY", modeZeroPage, classLoad, (*CPU).ldy, 3)
	t[0xB4] = entry("LDY", modeZeroPageX, classLoad, (*CPU).ldy, 4)
	t[0xAC] = entry("LDY", modeAbsolute, classLoad, (*CPU).ldy, 4)
	t[0xBC] = entry("LDY", modeAbsoluteX, classLoad, (*CPU).ldy, 4)

	// --- documented stores -------------------------------------------------
	t[0x85] = entry("STA", modeZeroPage, classStore, (*CPU).sta, 3)
	t[0x95] = entry("STA", modeZeroPageX, classStore, (*CPU).sta, 4)
	t[0x8D] = entry("STA", modeAbsolute, classStore, (*CPU).sta, 4)
	t[0x9D] = entry("STA", modeAbsoluteX, classStore, (*CPU).sta, 5)
	t[0x99] = entry("STA", modeAbsoluteY, classStore, (*CPU).sta, 5)
	t[0x81] = entry("STA", modeIndirectX, classStore, (*CPU).sta, 6)
	t[0x91] = entry("STA", modeIndirectY, classStore, (*CPU).sta, 6)

	t[0x86] = entry("STX", modeZeroPage, classStore, (*CPU).stx, 3)
	t[0x96] = entry("STX", modeZeroPageY, classStore, (*CPU).stx, 4)
	t[0x8E] = entry("STX", modeAbsolute, classStore, (*CPU).stx, 4)

	t[0x84] = entry("STY", modeZeroPage, classStore, (*CPU).sty, 3)
	t[0x94] = entry("STY", modeZeroPageX, classStore, (*CPU).sty, 4)
	t[0x8C] = entry("STY", modeAbsolute, classStore, (*CPU).sty, 4)

	// --- register transfers / stack -------------------------------------------
	t[0xAA] = entry("TAX", modeImplied, classImplied, (*CPU).tax, 2)
	t[0xA8] = entry("TAY", modeImplied, classImplied, (*CPU).tay, 2)
	t[0x8A] = entry("TXA", modeImplied, classImplied, (*CPU).txa, 2)
	t[0x98] = entry("TYA", modeImplied, classImplied, (*CPU).tya, 2)
	t[0xBA] = entry("TSX", modeImplied, classImplied, (*CPU).tsx, 2)
	t[0x9A] = entry("TXS", modeImplied, classImplied, (*CPU).txs, 2)
	t[0x48] = entry("PHA", modeImplied, classImplied, (*CPU).pha, 3)
	t[0x08] = entry("PHP", modeImplied, classImplied, (*CPU).php, 3)
	t[0x68] = entry("PLA", modeImplied, classImplied, (*CPU).pla, 4)
	t[0x28] = entry("PLP", modeImplied, classImplied, (*CPU).plp, 4)

	// --- increments / decrements ------------------------------------------------
	t[0xE8] = entry("INX", modeImplied, classImplied, (*CPU).inx, 2)
	t[0xC8] = entry("INY", modeImplied, classImplied, (*CPU).iny, 2)
	t[0xCA] = entry("DEX", modeImplied, classImplied, (*CPU).dex, 2)
	t[0x88] = entry("DEY", modeImplied, classImplied, (*CPU).dey, 2)

	t[0xE6] = entry("INC", modeZeroPage, classRMW, (*CPU).inc, 5)
	t[0xF6] = entry("INC", modeZeroPageX, classRMW, (*CPU).inc, 6)
	t[0xEE] = entry("INC", modeAbsolute, classRMW, (*CPU).inc, 6)
	t[0xFE] = entry("INC", modeAbsoluteX, classRMW, (*CPU).inc, 7)

	t[0xC6] = entry("DEC", modeZeroPage, classRMW, (*CPU).dec, 5)
	t[0xD6] = entry("DEC", modeZeroPageX, classRMW, (*CPU).dec, 6)
	t[0xCE] = entry("DEC", modeAbsolute, classRMW, (*CPU).dec, 6)
	t[0xDE] = entry("DEC", modeAbsoluteX, classRMW, (*CPU).dec, 7)

	// --- shifts / rotates --------------------------------------------------------
	t[0x0A] = entry("ASL", modeAccumulator, classRMW, (*CPU).asl, 2)
	t[0x06] = entry("ASL", modeZeroPage, classRMW, (*CPU).asl, 5)
	t[0x16] = entry("ASL", modeZeroPageX, classRMW, (*CPU).asl, 6)
	t[0x0E] = entry("ASL", modeAbsolute, classRMW, (*CPU).asl, 6)
	t[0x1E] = entry("ASL", modeAbsoluteX, classRMW, (*CPU).asl, 7)

	t[0x4A] = entry("LSR", modeAccumulator, classRMW, (*CPU).lsr, 2)
	t[0x46] = entry("LSR", modeZeroPage, classRMW, (*CPU).lsr, 5)
	t[0x56] = entry("LSR", modeZeroPageX, classRMW, (*CPU).lsr, 6)
	t[0x4E] = entry("LSR", modeAbsolute, classRMW, (*CPU).lsr, 6)
	t[0x5E] = entry("LSR", modeAbsoluteX, classRMW, (*CPU).lsr, 7)

	t[0x2A] = entry("ROL", modeAccumulator, classRMW, (*CPU).rol, 2)
	t[0x26] = entry("ROL", modeZeroPage, classRMW, (*CPU).rol, 5)
	t[0x36] = entry("ROL", modeZeroPageX, classRMW, (*CPU).rol, 6)
	t[0x2E] = entry("ROL", modeAbsolute, classRMW, (*CPU).rol, 6)
	t[0x3E] = entry("ROL", modeAbsoluteX, classRMW, (*CPU).rol, 7)

	t[0x6A] = entry("ROR", modeAccumulator, classRMW, (*CPU).ror, 2)
	t[0x66] = entry("ROR", modeZeroPage, classRMW, (*CPU).ror, 5)
	t[0x76] = entry("ROR", modeZeroPageX, classRMW, (*CPU).ror, 6)
	t[0x6E] = entry("ROR", modeAbsolute, classRMW, (*CPU).ror, 6)
	t[0x7E] = entry("ROR", modeAbsoluteX, classRMW, (*CPU).ror, 7)

	// --- logic --------------------------------------------------------------------
	t[0x29] = entry("AND", modeImmediate, classLoad, (*CPU).and, 2)
	t[0x25] = entry("AND", modeZeroPage, classLoad, (*CPU).and, 3)
	t[0x35] = entry("AND", modeZeroPageX, classLoad, (*CPU).and, 4)
	t[0x2D] = entry("AND", modeAbsolute, classLoad, (*CPU).and, 4)
	t[0x3D] = entry("AND", modeAbsoluteX, classLoad, (*CPU).and, 4)
	t[0x39] = entry("AND", modeAbsoluteY, classLoad, (*CPU).and, 4)
	t[0x21] = entry("AND", modeIndirectX, classLoad, (*CPU).and, 6)
	t[0x31] = entry("AND", modeIndirectY, classLoad, (*CPU).and, 5)

	t[0x09] = entry("ORA", modeImmediate, classLoad, (*CPU).ora, 2)
	t[0x05] = entry("ORA", modeZeroPage, classLoad, (*CPU).ora, 3)
	t[0x15] = entry("ORA", modeZeroPageX, classLoad, (*CPU).ora, 4)
	t[0x0D] = entry("ORA", modeAbsolute, classLoad, (*CPU).ora, 4)
	t[0x1D] = entry("ORA", modeAbsoluteX, classLoad, (*CPU).ora, 4)
	t[0x19] = entry("ORA", modeAbsoluteY, classLoad, (*CPU).ora, 4)
	t[0x01] = entry("ORA", modeIndirectX, classLoad, (*CPU).ora, 6)
	t[0x11] = entry("ORA", modeIndirectY, classLoad, (*CPU).ora, 5)

	t[0x49] = entry("EOR", modeImmediate, classLoad, (*CPU).eor, 2)
	t[0x45] = entry("EOR", modeZeroPage, classLoad, (*CPU).eor, 3)
	t[0x55] = entry("EOR", modeZeroPageX, classLoad, (*CPU).eor, 4)
	t[0x4D] = entry("EOR", modeAbsolute, classLoad, (*CPU).eor, 4)
	t[0x5D] = entry("EOR", modeAbsoluteX, classLoad, (*CPU).eor, 4)
	t[0x59] = entry("EOR", modeAbsoluteY, classLoad, (*CPU).eor, 4)
	t[0x41] = entry("EOR", modeIndirectX, classLoad, (*CPU).eor, 6)
	t[0x51] = entry("EOR", modeIndirectY, classLoad, (*CPU).eor, 5)

	t[0x24] = entry("BIT", modeZeroPage, classLoad, (*CPU).bit, 3)
	t[0x2C] = entry("BIT", modeAbsolute, classLoad, (*CPU).bit, 4)

	// --- compare --------------------------------------------------------------------
	t[0xC9] = entry("CMP", modeImmediate, classLoad, (*CPU).cmp, 2)
	t[0xC5] = entry("CMP", modeZeroPage, classLoad, (*CPU).cmp, 3)
	t[0xD5] = entry("CMP", modeZeroPageX, classLoad, (*CPU).cmp, 4)
	t[0xCD] = entry("CMP", modeAbsolute, classLoad, (*CPU).cmp, 4)
	t[0xDD] = entry("CMP", modeAbsoluteX, classLoad, (*CPU).cmp, 4)
	t[0xD9] = entry("CMP", modeAbsoluteY, classLoad, (*CPU).cmp, 4)
	t[0xC1] = entry("CMP", modeIndirectX, classLoad, (*CPU).cmp, 6)
	t[0xD1] = entry("CMP", modeIndirectY, classLoad, (*CPU).cmp, 5)

	t[0xE0] = entry("CPX", modeImmediate, classLoad, (*CPU).cpx, 2)
	t[0xE4] = entry("CPX", modeZeroPage, classLoad, (*CPU).cpx, 3)
	t[0xEC] = entry("CPX", modeAbsolute, classLoad, (*CPU).cpx, 4)

	t[0xC0] = entry("CPY", modeImmediate, classLoad, (*CPU).cpy, 2)
	t[0xC4] = entry("CPY", modeZeroPage, classLoad, (*CPU).cpy, 3)
	t[0xCC] = entry("CPY", modeAbsolute, classLoad, (*CPU).cpy, 4)

	// --- flags --------------------------------------------------------------------
	t[0x18] = entry("CLC", modeImplied, classImplied, (*CPU).clc, 2)
	t[0x38] = entry("SEC", modeImplied, classImplied, (*CPU).sec, 2)
	t[0x58] = entry("CLI", modeImplied, classImplied, (*CPU).cli, 2)
	t[0x78] = entry("SEI", modeImplied, classImplied, (*CPU).sei, 2)
	t[0xD8] = entry("CLD", modeImplied, classImplied, (*CPU).cld, 2)
	t[0xF8] = entry("SED", modeImplied, classImplied, (*CPU).sed, 2)
	t[0xB8] = entry("CLV", modeImplied, classImplied, (*CPU).clv, 2)

	// --- arithmetic --------------------------------------------------------------
	adc := entry("ADC", modeImmediate, classLoad, (*CPU).adc, 2)
	adc.bcdAdds = true
	t[0x69] = adc
	t[0x65] = withCyclesMode(adc, modeZeroPage, 3)
	t[0x75] = withCyclesMode(adc, modeZeroPageX, 4)
	t[0x6D] = withCyclesMode(adc, modeAbsolute, 4)
	t[0x7D] = withCyclesMode(adc, modeAbsoluteX, 4)
	t[0x79] = withCyclesMode(adc, modeAbsoluteY, 4)
	t[0x61] = withCyclesMode(adc, modeIndirectX, 6)
	t[0x71] = withCyclesMode(adc, modeIndirectY, 5)

	sbc := entry("SBC", modeImmediate, classLoad, (*CPU).sbc, 2)
	sbc.bcdAdds = true
	t[0xE9] = sbc
	t[0xEB] = sbc // illegal SBC#i duplicate, identical behavior
	t[0xE5] = withCyclesMode(sbc, modeZeroPage, 3)
	t[0xF5] = withCyclesMode(sbc, modeZeroPageX, 4)
	t[0xED] = withCyclesMode(sbc, modeAbsolute, 4)
	t[0xFD] = withCyclesMode(sbc, modeAbsoluteX, 4)
	t[0xF9] = withCyclesMode(sbc, modeAbsoluteY, 4)
	t[0xE1] = withCyclesMode(sbc, modeIndirectX, 6)
	t[0xF1] = withCyclesMode(sbc, modeIndirectY, 5)

	// --- branches --------------------------------------------------------------
	t[0x90] = entry("BCC", modeImplied, classImplied, (*CPU).bcc, 2)
	t[0xB0] = entry("BCS", modeImplied, classImplied, (*CPU).bcs, 2)
	t[0xF0] = entry("BEQ", modeImplied, classImplied, (*CPU).beq, 2)
	t[0xD0] = entry("BNE", modeImplied, classImplied, (*CPU).bne, 2)
	t[0x30] = entry("BMI", modeImplied, classImplied, (*CPU).bmi, 2)
	t[0x10] = entry("BPL", modeImplied, classImplied, (*CPU).bpl, 2)
	t[0x50] = entry("BVC", modeImplied, classImplied, (*CPU).bvc, 2)
	t[0x70] = entry("BVS", modeImplied, classImplied, (*CPU).bvs, 2)

	// --- jumps / calls -----------------------------------------------------------
	t[0x4C] = entry("JMP", modeImplied, classImplied, (*CPU).jmp, 3)
	t[0x6C] = entry("JMP", modeImplied, classImplied, (*CPU).jmpIndirect, 5)
	t[0x20] = entry("JSR", modeImplied, classImplied, (*CPU).jsr, 6)
	t[0x60] = entry("RTS", modeImplied, classImplied, (*CPU).rts, 6)
	t[0x40] = entry("RTI", modeImplied, classImplied, (*CPU).rti, 6)
	t[0x00] = entry("BRK", modeImplied, classImplied, (*CPU).brk, 7)

	// --- documented NOP ----------------------------------------------------------
	t[0xEA] = entry("NOP", modeImplied, classImplied, (*CPU).nop, 2)

	// --- illegal: implied single-byte NOPs ------------------------------------
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		t[op] = entry("NOP", modeImplied, classImplied, (*CPU).nop, 2)
	}
	// --- illegal: immediate NOPs ----------------------------------------------
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		t[op] = entry("NOP", modeImmediate, classLoad, (*CPU).nop, 2)
	}
	// --- illegal: zero page NOPs -----------------------------------------------
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		t[op] = entry("NOP", modeZeroPage, classLoad, (*CPU).nop, 3)
	}
	// --- illegal: zero page,X NOPs ----------------------------------------------
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		t[op] = entry("NOP", modeZeroPageX, classLoad, (*CPU).nop, 4)
	}
	// --- illegal: absolute NOP ----------------------------------------------------
	t[0x0C] = entry("NOP", modeAbsolute, classLoad, (*CPU).nop, 4)
	// --- illegal: absolute,X NOPs (only family that pays the cross penalty) ------
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		t[op] = entry("NOP", modeAbsoluteX, classLoad, (*CPU).nop, 4)
	}

	// --- illegal RMW combos: SLO/RLA/SRE/RRA/DCP/ISC -----------------------------
	// All seven addressing-mode slots repeat for each of these six combos
	// with the same cycle counts, so comboModes lists them once.
	installCombo(t, "SLO", (*CPU).slo, comboModes{0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13})
	installCombo(t, "RLA", (*CPU).rla, comboModes{0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33})
	installCombo(t, "SRE", (*CPU).sre, comboModes{0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53})
	installCombo(t, "RRA", (*CPU).rra, comboModes{0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73})
	installCombo(t, "DCP", (*CPU).dcp, comboModes{0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3})
	installCombo(t, "ISC", (*CPU).isc, comboModes{0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3})

	// --- illegal stores/loads: SAX, LAX -----------------------------------------
	t[0x87] = entry("SAX", modeZeroPage, classStore, (*CPU).sax, 3)
	t[0x97] = entry("SAX", modeZeroPageY, classStore, (*CPU).sax, 4)
	t[0x8F] = entry("SAX", modeAbsolute, classStore, (*CPU).sax, 4)
	t[0x83] = entry("SAX", modeIndirectX, classStore, (*CPU).sax, 6)

	t[0xA7] = entry("LAX", modeZeroPage, classLoad, (*CPU).lax, 3)
	t[0xB7] = entry("LAX", modeZeroPageY, classLoad, (*CPU).lax, 4)
	t[0xAF] = entry("LAX", modeAbsolute, classLoad, (*CPU).lax, 4)
	t[0xBF] = entry("LAX", modeAbsoluteY, classLoad, (*CPU).lax, 4)
	t[0xA3] = entry("LAX", modeIndirectX, classLoad, (*CPU).lax, 6)
	t[0xB3] = entry("LAX", modeIndirectY, classLoad, (*CPU).lax, 5)
	t[0xAB] = entry("LAX", modeImmediate, classLoad, (*CPU).oal, 2) // unstable immediate form ("LXA")

	// --- illegal immediate combos --------------------------------------------------
	t[0x0B] = entry("ANC", modeImmediate, classLoad, (*CPU).anc, 2)
	t[0x2B] = entry("ANC", modeImmediate, classLoad, (*CPU).anc, 2)
	t[0x4B] = entry("ALR", modeImmediate, classLoad, (*CPU).alr, 2)
	t[0x6B] = entry("ARR", modeImmediate, classLoad, (*CPU).arr, 2)
	t[0xCB] = entry("AXS", modeImmediate, classLoad, (*CPU).axs, 2)
	t[0x8B] = entry("XAA", modeImmediate, classLoad, (*CPU).xaa, 2)

	// --- illegal unstable stores --------------------------------------------------
	t[0x93] = entry("AHX", modeIndirectY, classStore, (*CPU).ahx, 6)
	t[0x9F] = entry("AHX", modeAbsoluteY, classStore, (*CPU).ahx, 5)
	t[0x9C] = entry("SHY", modeAbsoluteX, classStore, (*CPU).shy, 5)
	t[0x9E] = entry("SHX", modeAbsoluteY, classStore, (*CPU).shx, 5)
	t[0x9B] = entry("TAS", modeAbsoluteY, classStore, (*CPU).tas, 5)
	t[0xBB] = entry("LAS", modeAbsoluteY, classLoad, (*CPU).las, 4)

	// --- JAM / KIL / HLT -------------------------------------------------------------
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		t[op] = jamEntry("JAM")
	}
}

// withCyclesMode clones e with a different addressing mode and cycle
// count, used for ADC/SBC's eight addressing-mode variants which all
// share the same op and bcdAdds.
func withCyclesMode(e opcodeEntry, mode addrMode, cycles int) opcodeEntry {
	e.mode = mode
	e.cycles = cycles
	return e
}

// comboModes lists the opcode byte for a RMW combo's seven addressing
// modes in the fixed order ZP, ZP,X, Absolute, Absolute,X, Absolute,Y,
// (Indirect,X), (Indirect),Y, the order every SLO/RLA/SRE/RRA/DCP/ISC
// family uses.
type comboModes [7]uint8

var comboModeList = [7]addrMode{
	modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY,
}

var comboCycles = [7]int{5, 6, 6, 7, 7, 8, 8}

// installCombo fills in one illegal RMW combo's addressing-mode family.
// Every one of these combos is classRMW and therefore never eligible
// for the page-cross timing bonus.
func installCombo(t *[256]opcodeEntry, name string, op opFunc, modes comboModes) {
	for i, code := range modes {
		t[code] = entry(name, comboModeList[i], classRMW, op, comboCycles[i])
	}
}
