package cpu

// reset runs the processor's power-on/reset sequence: A, X and Y are
// cleared, SP is set to 0xFD, every flag is cleared, any halt from a
// prior JAM is lifted, and PC loads from the reset vector.
func (c *CPU) reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD
	c.Flags = Flags{}
	c.halted = false
	lo := c.bus.Read(ResetVector)
	hi := c.bus.Read(ResetVector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// enterInterrupt is the shared 7 cycle entry sequence for IRQ, NMI and
// BRK: push PC, push status (with the break bit set only for a
// software BRK), set the interrupt-disable flag, then load PC from
// vector. brk is true only when called from the BRK opcode.
func (c *CPU) enterInterrupt(vector uint16, brk bool) {
	c.pushAddr(c.PC)
	status := c.Status()
	if brk {
		status |= flagBreak
	}
	c.push(status)
	c.Interrupt = true
	lo := c.bus.Read(vector)
	hi := c.bus.Read(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// irq services a maskable interrupt request. Callers are expected to
// have already checked c.Interrupt themselves (Step does, via the
// IRQ/NMI senders supplied through Config); irq never checks it again so
// that NMI's unconditional form can share this body.
func (c *CPU) irq() {
	c.enterInterrupt(IRQVector, false)
}

// nmi services a non-maskable interrupt. Identical cycle shape to IRQ
// but vectors through NMIVector and cannot be masked by the I flag.
func (c *CPU) nmi() {
	c.enterInterrupt(NMIVector, false)
}

// brk implements the BRK opcode: a software interrupt that behaves
// like IRQ except it pushes PC+2 (the address after BRK's padding
// byte) rather than PC+1, and sets the break bit in the pushed status.
// PC has already moved past the opcode byte by the time Step calls
// this; brk only needs to skip the padding byte before pushing.
func (c *CPU) brk(operand) {
	c.PC++
	c.enterInterrupt(IRQVector, true)
}
