// Package via implements the complete register state of a 6522 VIA
// (Versatile Interface Adapter): two 8 bit I/O ports, two 16 bit
// interval timers, a shift register, and the auxiliary/peripheral
// control and interrupt flag/enable registers. Port output and timer
// counter writes are shadowed and committed in TickDone; the register
// semantics are the 6522's.
package via

import (
	"math/rand"

	"github.com/sixfiveoh/nmos65/io"
)

// Register offsets within the VIA's 16 byte window, as wired on real
// hardware (RS3-RS0 address lines).
const (
	RegORB  = uint16(0x0)
	RegORA  = uint16(0x1)
	RegDDRB = uint16(0x2)
	RegDDRA = uint16(0x3)
	RegT1CL = uint16(0x4)
	RegT1CH = uint16(0x5)
	RegT1LL = uint16(0x6)
	RegT1LH = uint16(0x7)
	RegT2CL = uint16(0x8)
	RegT2CH = uint16(0x9)
	RegSR   = uint16(0xA)
	RegACR  = uint16(0xB)
	RegPCR  = uint16(0xC)
	RegIFR  = uint16(0xD)
	RegIER  = uint16(0xE)
	RegORA2 = uint16(0xF) // ORA without handshake side effects.

	regMask = uint16(0xF)
)

// Interrupt flag register bits.
const (
	IFRCA2 = uint8(0x01)
	IFRCA1 = uint8(0x02)
	IFRSR  = uint8(0x04)
	IFRCB2 = uint8(0x08)
	IFRCB1 = uint8(0x10)
	IFRT2  = uint8(0x20)
	IFRT1  = uint8(0x40)
	IFRAny = uint8(0x80)

	// acrT1Continuous set means T1 free-runs, reloading from the latch
	// and re-firing IFRT1 on every underflow instead of just once.
	acrT1Continuous = uint8(0x40)
	// acrT2PulseCount set means T2 counts PB6 pulses instead of phi2;
	// not modeled here, see Chip doc comment.
	acrT2PulseCount = uint8(0x20)
)

// Chip is one 6522 VIA. Port output and timer counter writes are held
// in shadow fields and only committed in TickDone, so a Read earlier
// in the same cycle never observes a write issued later in it.
//
// T2's pulse-counting mode (counting PB6 edges instead of phi2) isn't
// modeled: with the ACR pulse-count bit set Tick leaves T2 unchanged,
// otherwise it decrements T2 as a phi2 timer.
type Chip struct {
	orb, ora   uint8
	ddrb, ddra uint8
	shadowORB  uint8
	shadowORA  uint8
	wroteORB   bool
	wroteORA   bool

	t1Counter uint16
	t1Latch   uint16
	t2Counter uint16
	t2Latch   uint8 // Only the low latch byte is addressable on real hardware.

	shadowT1Counter uint16
	wroteT1         bool
	shadowT2Counter uint16
	wroteT2         bool

	sr  uint8
	acr uint8
	pcr uint8

	ifr uint8
	ier uint8

	portA io.Port8
	portB io.Port8

	tickDone bool
}

// Config supplies the optional input ports a Chip reads through when
// its DDR bits mark those pins as inputs.
type Config struct {
	PortA io.Port8
	PortB io.Port8
}

// New returns a powered-on VIA.
func New(cfg Config) *Chip {
	c := &Chip{portA: cfg.PortA, portB: cfg.PortB}
	c.PowerOn()
	return c
}

// PowerOn resets all registers to their documented reset state. Timers
// start at a random value, matching real hardware's undefined power-on
// counter contents.
func (c *Chip) PowerOn() {
	c.orb, c.ora = 0, 0
	c.ddrb, c.ddra = 0, 0
	c.sr, c.acr, c.pcr = 0, 0, 0
	c.ifr, c.ier = 0, 0
	c.t1Counter = uint16(rand.Intn(1 << 16))
	c.t1Latch = 0xFFFF
	c.t2Counter = uint16(rand.Intn(1 << 16))
	c.t2Latch = 0xFF
	c.tickDone = true
}

// Read implements cpu.Bus-shaped access to the VIA's 16 register
// window. addr is masked to 4 bits, so callers may pass either a raw
// offset or a full bus address; the bus package is responsible for
// deciding a given address belongs to the VIA at all.
func (c *Chip) Read(addr uint16) uint8 {
	switch addr & regMask {
	case RegORB:
		return c.readPort(c.portB, c.orb, c.ddrb)
	case RegORA, RegORA2:
		return c.readPort(c.portA, c.ora, c.ddra)
	case RegDDRB:
		return c.ddrb
	case RegDDRA:
		return c.ddra
	case RegT1CL:
		c.ifr &^= IFRT1
		return uint8(c.t1Counter)
	case RegT1CH:
		return uint8(c.t1Counter >> 8)
	case RegT1LL:
		return uint8(c.t1Latch)
	case RegT1LH:
		return uint8(c.t1Latch >> 8)
	case RegT2CL:
		c.ifr &^= IFRT2
		return uint8(c.t2Counter)
	case RegT2CH:
		return uint8(c.t2Counter >> 8)
	case RegSR:
		return c.sr
	case RegACR:
		return c.acr
	case RegPCR:
		return c.pcr
	case RegIFR:
		return c.ifrReadValue()
	case RegIER:
		return c.ier | 0x80
	}
	return 0
}

// readPort applies the classic VIA input/output mux: output-configured
// bits (ddr=1) show whatever was last written, input-configured bits
// (ddr=0) show the live input pin state.
func (c *Chip) readPort(port io.Port8, out, ddr uint8) uint8 {
	var in uint8
	if port != nil {
		in = port.Input()
	}
	return (out & ddr) | (in &^ ddr)
}

func (c *Chip) ifrReadValue() uint8 {
	v := c.ifr & 0x7F
	if v&c.ier != 0 {
		v |= IFRAny
	}
	return v
}

// Write implements cpu.Bus-shaped access for the VIA's registers.
// Port and timer writes land in shadow fields and take effect on the
// next TickDone.
func (c *Chip) Write(addr uint16, val uint8) {
	switch addr & regMask {
	case RegORB:
		c.shadowORB = val
		c.wroteORB = true
	case RegORA, RegORA2:
		c.shadowORA = val
		c.wroteORA = true
	case RegDDRB:
		c.ddrb = val
	case RegDDRA:
		c.ddra = val
	case RegT1CL:
		c.t1Latch = c.t1Latch&0xFF00 | uint16(val)
	case RegT1CH:
		c.t1Latch = c.t1Latch&0x00FF | uint16(val)<<8
		c.shadowT1Counter = c.t1Latch
		c.wroteT1 = true
		c.ifr &^= IFRT1
	case RegT1LL:
		c.t1Latch = c.t1Latch&0xFF00 | uint16(val)
	case RegT1LH:
		c.t1Latch = c.t1Latch&0x00FF | uint16(val)<<8
		c.ifr &^= IFRT1
	case RegT2CL:
		c.t2Latch = val
	case RegT2CH:
		c.shadowT2Counter = uint16(val)<<8 | uint16(c.t2Latch)
		c.wroteT2 = true
		c.ifr &^= IFRT2
	case RegSR:
		c.sr = val
		c.ifr &^= IFRSR
	case RegACR:
		c.acr = val
	case RegPCR:
		c.pcr = val
	case RegIFR:
		c.ifr &^= val & 0x7F
	case RegIER:
		if val&0x80 != 0 {
			c.ier |= val & 0x7F
		} else {
			c.ier &^= val & 0x7F
		}
	}
}

// Tick decrements both timers by one phi2 cycle (T2 only while the ACR
// pulse-count bit is clear). T1 in one-shot mode
// (the ACR free-run bit clear) fires IFRT1 once on underflow and then
// free-runs without re-firing until rewritten; in continuous mode it
// reloads from the latch and re-fires on every underflow.
func (c *Chip) Tick() {
	if c.t1Counter == 0 {
		c.ifr |= IFRT1
		if c.acr&acrT1Continuous != 0 {
			c.t1Counter = c.t1Latch
		} else {
			c.t1Counter--
		}
	} else {
		c.t1Counter--
	}

	if c.acr&acrT2PulseCount == 0 {
		if c.t2Counter == 0 {
			c.ifr |= IFRT2
			c.t2Counter--
		} else {
			c.t2Counter--
		}
	}
}

// TickDone commits any shadow register writes made during this cycle.
func (c *Chip) TickDone() {
	if c.wroteORB {
		c.orb = c.shadowORB
		c.wroteORB = false
	}
	if c.wroteORA {
		c.ora = c.shadowORA
		c.wroteORA = false
	}
	if c.wroteT1 {
		c.t1Counter = c.shadowT1Counter
		c.wroteT1 = false
	}
	if c.wroteT2 {
		c.t2Counter = c.shadowT2Counter
		c.wroteT2 = false
	}
}

// Raised implements irq.Sender: true whenever any enabled interrupt
// flag is set.
func (c *Chip) Raised() bool {
	return c.ifr&c.ier&0x7F != 0
}
