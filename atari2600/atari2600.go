// Package atari2600 is the main logic for pulling together an atari 2600 emulator.
// The actual chips are implemented in other packages and most the logic here is
// simply to pull together the memory mappings for them.
package atari2600

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/sixfiveoh/nmos65/cpu"
	"github.com/sixfiveoh/nmos65/io"
	"github.com/sixfiveoh/nmos65/memory"
	"github.com/sixfiveoh/nmos65/tia"
	"github.com/sixfiveoh/nmos65/via"
)

// Joystick defines a classic 1970's/1980s era digital joystick with 4 directions and a single button.
// For each direction true == pressed.
type Joystick struct {
	Up     io.PortIn1
	Down   io.PortIn1
	Left   io.PortIn1
	Right  io.PortIn1
	Button io.PortIn1
}

// Paddle defines an atari2600 paddle controller where the internal RC circuit is either charged (or not).
// Corresponds to reads on INPT0-3.
// The buttons are routed through portA on the VIA and true == pressed.
type Paddle struct {
	Charged io.PortIn1
	Button  io.PortIn1
}

type portA struct {
	joysticks [2]*Joystick
	paddles   [4]*Paddle
}

type portB struct {
	difficulty [2]io.PortIn1
	colorBW    io.PortIn1
	gameSelect io.PortIn1
	reset      io.PortIn1
}

// Input is used to map portA on the VIA to the Joysticks.
func (p *portA) Input() uint8 {
	out := uint8(0x00)
	// Technically this can cause inputs a physical joystick can't normally
	// do such as Up+Down or Left+Right. We don't worry about that as technically
	// someone disassembling a joystick could do the same back in 1977.

	// NOTE: These are all active low in the real HW (so 0 means pressed).
	if p.joysticks[0] != nil {
		if !p.joysticks[0].Up.Input() {
			out |= 0x10
		}
		if !p.joysticks[0].Down.Input() {
			out |= 0x20
		}
		if !p.joysticks[0].Left.Input() {
			out |= 0x40
		}
		if !p.joysticks[0].Right.Input() {
			out |= 0x80
		}
	}
	if p.joysticks[1] != nil {
		if !p.joysticks[1].Up.Input() {
			out |= 0x01
		}
		if !p.joysticks[1].Down.Input() {
			out |= 0x02
		}
		if !p.joysticks[1].Left.Input() {
			out |= 0x04
		}
		if !p.joysticks[1].Right.Input() {
			out |= 0x08
		}
	}

	// We check in setup and don't allow both to be defined at once.
	// Same thing, buttons are active low.
	if p.paddles[0] != nil {
		if !p.paddles[0].Button.Input() {
			out |= 0x80
		}
	}
	if p.paddles[1] != nil {
		if !p.paddles[1].Button.Input() {
			out |= 0x40
		}
	}
	if p.paddles[2] != nil {
		if !p.paddles[2].Button.Input() {
			out |= 0x08
		}
	}
	if p.paddles[3] != nil {
		if !p.paddles[3].Button.Input() {
			out |= 0x04
		}
	}

	return out
}

// Input is used to map portB on the VIA to the console switches.
func (p *portB) Input() uint8 {
	out := uint8(0x00)

	// NOTE: These 2 are active low in the real HW (so 0 means pressed).
	if !p.reset.Input() {
		out |= 0x01
	}
	if !p.gameSelect.Input() {
		out |= 0x02
	}
	// false == BW, true == Color.
	if p.colorBW.Input() {
		out |= 0x08
	}
	// false == Beginner, true == Advanced.
	if p.difficulty[0].Input() {
		out |= 0x40
	}
	if p.difficulty[1].Input() {
		out |= 0x80
	}
	return out
}

// VCS ties a CPU, VIA and TIA together into a runnable Atari 2600.
//
// The original chip-for-chip design ran every component off a single
// clocked Tick() so the CPU, PIA and TIA advanced one phi2 edge at a
// time in lockstep. This module's cpu package executes one full
// instruction per Step() call and reports how many cycles it took
// instead, so VCS.Tick() drives the TIA and VIA that many cycles at
// once rather than interleaving them cycle-by-cycle mid-instruction.
// Genuinely cycle-exact raster effects (mid-instruction playfield
// writes) aren't reproducible under this model; anything that only
// cares about VSYNC/VBLANK timing and per-instruction register state
// still behaves the same.
type VCS struct {
	portA    *portA
	portB    *portB
	cpuClock int
	c        *cpu.CPU
	via      *via.Chip
	tia      *tia.TIA
	ctrl     *controller
	debug    bool
}

// controller implements cpu.Bus directly and memory.Bank for the benefit
// of the cart it holds, which needs a parent to chain databus lookups
// through (see memory.LatestDatabusVal).
type controller struct {
	via        *via.Chip
	tia        *tia.TIA
	rom        memory.Bank
	databusVal uint8
}

// PowerOn implements the memory.Bank interface for PowerOn.
func (c *controller) PowerOn() {}

// Parent implements the memory.Bank interface; the controller sits at
// the top of the chain so it has none.
func (c *controller) Parent() memory.Bank { return nil }

// DatabusVal returns the last value the controller itself saw: the
// result of its last VIA/TIA read, or the value of its last write
// (cart writes included). Cart reads don't update it.
func (c *controller) DatabusVal() uint8 { return c.databusVal }

// VCSDef defines the pieces needed to setup a basic Atari 2600. Assuming up to 2 joysticks and 4 paddles.
type VCSDef struct {
	Joysticks [2]*Joystick
	Paddles   [4]*Paddle
	// The console switches (except power).

	// Difficulty defines the 2 player difficulty switches.
	// False == Beginner, true == Advanced.
	Difficulty [2]io.PortIn1
	// ColorBW defines color or B/W mode.
	// True == color, false == B/W
	ColorBW io.PortIn1
	// GameSelect is used to progress through options.
	// True == pressed.
	GameSelect io.PortIn1
	// Reset is generally used to start a game.
	// True == pressed.
	Reset io.PortIn1

	// Rom is the data to load for this instance into the ROM space. Plain
	// (unbanked) carts must be a power of 2 in size and at most 4k (2k is
	// mirrored into the upper half); 8k and 16k carts are auto-detected as F8 or
	// F6/F6SC bank-switched carts respectively by scanning for the bank
	// select addresses each scheme pokes.
	Rom []uint8

	// Debug if true logs CPU step errors and VIA interrupt activity from Tick.
	Debug bool
}

// Init returns an initialized and powered on Atari 2600 emulator.
func Init(def *VCSDef) (*VCS, error) {
	// Up front validation.
	if !IsBasicCart(def.Rom) && len(def.Rom) != 8192 && len(def.Rom) != 16384 {
		return nil, errors.New("Rom must be 2k/4k (plain), 8k (F8) or 16k (F6/F6SC) in length")
	}
	if def.Difficulty[0] == nil || def.Difficulty[1] == nil {
		return nil, errors.New("both difficulty switches must be non-nil in def")
	}
	if def.ColorBW == nil {
		return nil, errors.New("ColorBW must be non-nil in def")
	}
	if def.GameSelect == nil {
		return nil, errors.New("GameSelect must be non-nil in def")
	}
	if def.Reset == nil {
		return nil, errors.New("Reset must be non-nil in def")
	}

	var ch [4]io.PortIn1
	var paddles bool
	for i, p := range def.Paddles {
		if p != nil {
			if p.Charged == nil || p.Button == nil {
				return nil, fmt.Errorf("paddle %d cannot be defined with a nil Charged or Button: %#v", i, p)
			}
			ch[i] = p.Charged
			paddles = true
		}
	}

	var b [2]io.PortIn1
	for i, j := range def.Joysticks {
		if j != nil {
			if paddles {
				return nil, errors.New("cannot have paddles and joysticks defined at the same time")
			}
			if j.Up == nil || j.Down == nil || j.Left == nil || j.Right == nil {
				return nil, fmt.Errorf("cannot pass in a Joystick for Joystick[%d] with nil members: %#v", i, j)
			}
			b[i] = j.Button
		}
	}

	t := tia.Init(&tia.TiaDef{
		Port0: ch[0],
		Port1: ch[1],
		Port2: ch[2],
		Port3: ch[3],
		Port4: b[0],
		Port5: b[1],
	})

	a := &VCS{
		portA: &portA{
			joysticks: def.Joysticks,
			paddles:   def.Paddles,
		},
		portB: &portB{
			difficulty: def.Difficulty,
			colorBW:    def.ColorBW,
			gameSelect: def.GameSelect,
			reset:      def.Reset,
		},
		tia:   t,
		debug: def.Debug,
	}

	a.via = via.New(via.Config{PortA: a.portA, PortB: a.portB})

	ctrl := &controller{via: a.via, tia: a.tia}
	rom, err := newCart(def.Rom, ctrl)
	if err != nil {
		return nil, fmt.Errorf("can't initialize cart: %v", err)
	}
	ctrl.rom = rom
	a.ctrl = ctrl

	// No IRQ in the VCS; the 6507 in a real console doesn't even bring
	// the pin out to a pad, so neither IRQ nor NMI are wired up here.
	c, err := cpu.New(cpu.Config{Bus: ctrl})
	if err != nil {
		return nil, fmt.Errorf("can't initialize cpu: %v", err)
	}
	c.Reset()
	a.c = c
	return a, nil
}

const (
	kADDRESS_MASK = uint16(0x1FFF)

	kROM_MASK = uint16(0x1000)

	kVIA_MASK = uint16(0x0080)

	kCpuClockSlowdown = 3
)

// Read implements the cpu.Bus interface for Read.
// On the VCS this is the main logic for tying the various chips together.
func (c *controller) Read(addr uint16) uint8 {
	// We only have 13 address pins so mask for that.
	addr &= kADDRESS_MASK

	switch {
	case (addr & kROM_MASK) == kROM_MASK:
		return c.rom.Read(addr)
	case (addr & kVIA_MASK) == kVIA_MASK:
		c.databusVal = c.via.Read(addr)
		return c.databusVal
	}
	// Anything else is the TIA
	c.databusVal = c.tia.Read(addr)
	return c.databusVal
}

// Write implements the cpu.Bus interface for Write.
// On the VCS this is the main logic for tying the various chips together.
func (c *controller) Write(addr uint16, val uint8) {
	// We only have 13 address pins so mask for that.
	addr &= kADDRESS_MASK

	c.databusVal = val

	switch {
	case (addr & kROM_MASK) == kROM_MASK:
		c.rom.Write(addr, val)
		return
	case (addr & kVIA_MASK) == kVIA_MASK:
		c.via.Write(addr, val)
		return
	}
	// Anything else is the TIA
	c.tia.Write(addr, val)
}

// Tick executes one CPU instruction and advances the TIA and VIA by
// the number of cycles it took, maintaining their nominal 3x/1x ratio
// against the CPU clock. Use Frame to inspect the raster built up
// across repeated Tick calls.
func (a *VCS) Tick() error {
	cycles, err := a.c.Step()
	if err != nil {
		if a.debug {
			log.Printf("CPU step error: %v", err)
		}
		return fmt.Errorf("CPU step error: %v", err)
	}

	for i := 0; i < cycles; i++ {
		for j := 0; j < kCpuClockSlowdown; j++ {
			if err := a.tia.Tick(); err != nil {
				return fmt.Errorf("TIA tick error: %v", err)
			}
		}
		a.via.Tick()
		a.via.TickDone()
		if a.debug && a.via.Raised() {
			log.Printf("VIA interrupt flag set")
		}
	}
	return nil
}

// Frame returns the raster built up by the TIA since its last VSYNC.
func (a *VCS) Frame() *image.Paletted {
	return a.tia.Frame()
}
