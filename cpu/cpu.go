package cpu

import (
	"fmt"

	"github.com/sixfiveoh/nmos65/irq"
)

// HaltedOpcode describes a processor stopped on a JAM/KIL/HLT opcode,
// as an error value. Step itself does not return it: the JAM step
// returns a nil error, every Step after it returns (0, nil), and the
// halt is visible through Halted and HaltOpcode. A real NMOS 6502 needs
// a full reset to recover from this.
type HaltedOpcode struct {
	Opcode uint8
}

func (e *HaltedOpcode) Error() string {
	return fmt.Sprintf("cpu: halted on opcode 0x%02X", e.Opcode)
}

// InvalidOpcode should be unreachable: the opcode table covers all 256
// byte values. It exists as a defensive backstop rather than a panic,
// matching the rest of this package's no-panic error handling.
type InvalidOpcode struct {
	Opcode uint8
}

func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("cpu: no table entry for opcode 0x%02X", e.Opcode)
}

// Config supplies everything New needs to build a CPU. Bus is the
// only required field; Pacer, IRQ and NMI are optional collaborators.
type Config struct {
	Bus     Bus
	Pacer   Pacer
	Variant Variant
	IRQ     irq.Sender // Level-triggered; sampled once per Step.
	NMI     irq.Sender // Edge-triggered; Step fires on a false->true transition.
}

// CPU is an owned value representing one 6502 core: registers, flags,
// and the bookkeeping Step needs between calls. There is no process-wide
// instance; callers construct as many as they need with New.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16
	Flags

	bus     Bus
	pacer   Pacer
	variant Variant

	irqSource irq.Sender
	nmiSource irq.Sender
	prevNMI   bool

	halted     bool
	haltOpcode uint8

	// Transient per-Step bookkeeping. Reset at the top of every Step
	// call; never meaningful between calls.
	penaltyOpcode  bool
	penaltyAddress bool
	extraBCDCycle  bool
	branchExtra    int
}

// New constructs a CPU wired to cfg.Bus. The processor starts with all
// registers zeroed and PC at zero; call Reset before Step to bring PC
// up from the reset vector, the same as power-on hardware would need a
// reset pulse.
func New(cfg Config) (*CPU, error) {
	if cfg.Bus == nil {
		return nil, fmt.Errorf("cpu: Config.Bus is required")
	}
	return &CPU{
		bus:       cfg.Bus,
		pacer:     cfg.Pacer,
		variant:   cfg.Variant,
		irqSource: cfg.IRQ,
		nmiSource: cfg.NMI,
	}, nil
}

// Reset runs the RESET sequence and clears the halted state, exactly
// as pulling the hardware RESET line would.
func (c *CPU) Reset() {
	c.reset()
}

// Halted reports whether the processor is stopped on a JAM opcode.
// Only Reset clears this.
func (c *CPU) Halted() bool {
	return c.halted
}

// HaltOpcode returns the opcode that halted the processor. Only
// meaningful when Halted() is true.
func (c *CPU) HaltOpcode() uint8 {
	return c.haltOpcode
}

// Step executes exactly one instruction (or one interrupt entry
// sequence) and returns the number of clock cycles it took. A halted
// CPU does nothing and returns (0, nil). If a Pacer was configured,
// Step blocks for that many cycles' worth of real time before
// returning.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, nil
	}

	if c.nmiSource != nil {
		raised := c.nmiSource.Raised()
		edge := raised && !c.prevNMI
		c.prevNMI = raised
		if edge {
			c.nmi()
			return c.pace(7)
		}
	}
	if c.irqSource != nil && c.irqSource.Raised() && !c.Interrupt {
		c.irq()
		return c.pace(7)
	}

	opcode := c.bus.Read(c.PC)
	c.PC++

	e := opcodeTable[opcode]
	if e.jam {
		c.halted = true
		c.haltOpcode = opcode
		return c.pace(e.cycles)
	}
	if e.op == nil {
		return 0, &InvalidOpcode{Opcode: opcode}
	}

	c.penaltyOpcode = false
	c.penaltyAddress = false
	c.extraBCDCycle = false
	c.branchExtra = 0

	op := c.resolveOperand(e.mode, e.class)
	c.penaltyAddress = op.crossed
	// Every load-class opcode earns the page-cross bonus; no documented
	// or illegal load-class instruction is exempted from it. Store and
	// RMW shapes already bake the worst case into their base cycle count.
	c.penaltyOpcode = e.class == classLoad

	e.op(c, op)

	cycles := e.cycles + c.branchExtra
	if c.penaltyOpcode && c.penaltyAddress {
		cycles++
	}
	if c.extraBCDCycle && e.bcdAdds {
		cycles++
	}
	return c.pace(cycles)
}

// pace burns cycles worth of real time against the configured Pacer,
// if any, then returns cycles as Step's result.
func (c *CPU) pace(cycles int) (int, error) {
	if c.pacer != nil {
		for i := 0; i < cycles; i++ {
			c.pacer.WaitNextCycle()
		}
	}
	return cycles, nil
}
