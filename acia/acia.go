// Package acia implements a 6551 ACIA (Asynchronous Communications
// Interface Adapter): the data/status/command/control register file
// and a pair of byte FIFOs standing in for the UART's serial shift
// registers. Unlike this module's 6522 VIA there is no shadow-commit
// Tick/TickDone split: register accesses take effect immediately, and
// baud-rate timing itself isn't modeled (see Chip's doc comment).
package acia

// Register offsets within the ACIA's 4 byte window.
const (
	RegData    = uint16(0x0)
	RegStatus  = uint16(0x1)
	RegCommand = uint16(0x2)
	RegControl = uint16(0x3)

	regMask = uint16(0x3)
)

// Status register bits.
const (
	StatusParityError  = uint8(0x01)
	StatusFramingError = uint8(0x02)
	StatusOverrun      = uint8(0x04)
	StatusRXFull       = uint8(0x08)
	StatusTXEmpty      = uint8(0x10)
	StatusDCD          = uint8(0x20)
	StatusDSR          = uint8(0x40)
	StatusIRQ          = uint8(0x80)
)

// Command register bits relevant to interrupt gating.
const (
	commandRXIRQDisable = uint8(0x02) // 1 == RX interrupts masked.
	commandTXControl    = uint8(0x0C) // Two bits controlling TX IRQ + RTS.
	commandTXIRQEnabled = uint8(0x04) // One of the four commandTXControl encodings.
)

// Chip is one 6551 ACIA. TX/RX are modeled as byte queues rather than
// a bit-clocked shift register: Feed appends host-supplied bytes to
// the RX queue (as if they'd just arrived over the wire) and Drain
// removes whatever the 6502 program has written to TX so far. Real
// baud-rate pacing between bytes isn't modeled; every byte is
// available to read/drain immediately.
type Chip struct {
	rx []uint8
	tx []uint8

	status  uint8
	command uint8
	control uint8
}

// New returns a powered-on ACIA.
func New() *Chip {
	c := &Chip{}
	c.PowerOn()
	return c
}

// PowerOn clears both queues and resets the register file, matching a
// 6551 RES pulse.
func (c *Chip) PowerOn() {
	c.rx = c.rx[:0]
	c.tx = c.tx[:0]
	c.status = StatusTXEmpty
	c.command = 0
	c.control = 0
}

// Read implements cpu.Bus-shaped access to the ACIA's register window.
func (c *Chip) Read(addr uint16) uint8 {
	switch addr & regMask {
	case RegData:
		return c.readData()
	case RegStatus:
		return c.statusValue()
	case RegCommand:
		return c.command
	case RegControl:
		return c.control
	}
	return 0
}

func (c *Chip) readData() uint8 {
	if len(c.rx) == 0 {
		return 0
	}
	v := c.rx[0]
	c.rx = c.rx[1:]
	c.status &^= StatusRXFull
	return v
}

func (c *Chip) statusValue() uint8 {
	v := c.status
	if len(c.rx) > 0 {
		v |= StatusRXFull
	}
	if c.irqPending() {
		v |= StatusIRQ
	}
	return v
}

// Write implements cpu.Bus-shaped access to the ACIA's register window.
// A write to the status register is the 6551's programmed-reset
// trigger, not a data write (real hardware ignores the value).
func (c *Chip) Write(addr uint16, val uint8) {
	switch addr & regMask {
	case RegData:
		c.tx = append(c.tx, val)
		c.status &^= StatusTXEmpty
	case RegStatus:
		c.PowerOn()
	case RegCommand:
		c.command = val
	case RegControl:
		c.control = val
	}
}

// irqPending reports whether the command register's current IRQ
// masking would let a pending RX-full or TX-empty condition assert
// the interrupt line.
func (c *Chip) irqPending() bool {
	rxIRQ := len(c.rx) > 0 && c.command&commandRXIRQDisable == 0
	txIRQ := len(c.tx) == 0 && c.command&commandTXControl == commandTXIRQEnabled
	return rxIRQ || txIRQ
}

// Raised implements irq.Sender.
func (c *Chip) Raised() bool {
	return c.irqPending()
}

// Feed appends bytes to the receive queue, as if they had just arrived
// over the serial line. Used by a host-side terminal/monitor to type
// input at the emulated machine.
func (c *Chip) Feed(b ...uint8) {
	c.rx = append(c.rx, b...)
	c.status |= StatusRXFull
}

// Drain removes and returns everything the 6502 program has written
// to the transmit queue so far. ok is false when nothing was pending.
func (c *Chip) Drain() ([]uint8, bool) {
	if len(c.tx) == 0 {
		return nil, false
	}
	out := c.tx
	c.tx = nil
	c.status |= StatusTXEmpty
	return out, true
}
