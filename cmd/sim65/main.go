// sim65 is a cobra-based CLI unifying program loading, execution,
// interactive monitoring and disassembly into one tool, replacing the
// old per-tool flag-based main()s with a single set of subcommands.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sixfiveoh/nmos65/bus"
	"github.com/sixfiveoh/nmos65/c64basic"
	"github.com/sixfiveoh/nmos65/cpu"
	"github.com/sixfiveoh/nmos65/disassemble"
	"github.com/sixfiveoh/nmos65/loader"
	"github.com/sixfiveoh/nmos65/monitor"
	"github.com/sixfiveoh/nmos65/pacer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sim65",
		Short: "NMOS 6502 emulator: load, run, monitor and disassemble program images",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newMonitorCmd(),
		newDisasmCmd(),
		newConvertPRGCmd(),
		newAsmCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isPRG reports whether path should be treated as a C64 .prg file,
// whose first two bytes are a little endian load address rather than
// the image starting at --start.
func isPRG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".prg")
}

// buildBus loads path into a fresh Bus, returning the address execution
// or disassembly should begin at. For .prg files that's whatever
// address the file itself encodes (start is ignored); otherwise it's
// start itself.
func buildBus(path string, start uint16) (*bus.Bus, uint16, error) {
	b, err := bus.New(bus.Config{})
	if err != nil {
		return nil, 0, fmt.Errorf("can't build bus: %w", err)
	}
	if isPRG(path) {
		addr, _, err := loader.LoadPRG(b, path)
		if err != nil {
			return nil, 0, err
		}
		return b, addr, nil
	}
	if _, err := loader.Load(b, path, start); err != nil {
		return nil, 0, err
	}
	return b, start, nil
}

func buildMachine(path string, start uint16, p cpu.Pacer) (*cpu.CPU, *bus.Bus, error) {
	b, start, err := buildBus(path, start)
	if err != nil {
		return nil, nil, err
	}
	c, err := cpu.New(cpu.Config{Bus: b, Pacer: p})
	if err != nil {
		return nil, nil, fmt.Errorf("can't build cpu: %w", err)
	}
	c.PC = start
	return c, b, nil
}

func newRunCmd() *cobra.Command {
	var start uint16
	var maxInstructions int
	var hz int

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load a raw binary image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p cpu.Pacer
			if hz > 0 {
				clock, err := pacer.NewClock(clockPeriod(hz))
				if err != nil {
					return fmt.Errorf("can't pace clock: %w", err)
				}
				p = clock
			}
			c, _, err := buildMachine(args[0], start, p)
			if err != nil {
				return err
			}
			for i := 0; maxInstructions == 0 || i < maxInstructions; i++ {
				if _, err := c.Step(); err != nil {
					fmt.Printf("stopped after %d instructions: %v\n", i, err)
					return nil
				}
				if c.Halted() {
					fmt.Printf("stopped after %d instructions: %v\n", i+1, &cpu.HaltedOpcode{Opcode: c.HaltOpcode()})
					return nil
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&start, "start", 0xC000, "address to load the image at and begin execution")
	cmd.Flags().IntVar(&maxInstructions, "max-instructions", 0, "stop after this many instructions (0 = run until halted)")
	cmd.Flags().IntVar(&hz, "hz", 0, "pace execution to approximate this clock rate in Hz (0 = run flat out)")
	return cmd
}

func newMonitorCmd() *cobra.Command {
	var start uint16

	cmd := &cobra.Command{
		Use:   "monitor <file>",
		Short: "Load a raw binary image and drop into the interactive monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, b, err := buildMachine(args[0], start, nil)
			if err != nil {
				return err
			}
			return monitor.Run(c, b)
		},
	}
	cmd.Flags().Uint16Var(&start, "start", 0xC000, "address to load the image at and begin execution")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	var start uint16
	var count int
	var listBasic bool

	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a raw binary image, or a .prg with an optional leading BASIC listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, pc, err := buildBus(args[0], start)
			if err != nil {
				return err
			}
			if listBasic && pc == 0x0801 {
				for {
					out, newPC, err := c64basic.List(pc, b.RAM())
					if err == nil && newPC == 0x0000 {
						pc += 2 // account for the program's trailing NUL link
						break
					}
					fmt.Printf("%.4X %s\n", pc, out)
					if err != nil {
						return fmt.Errorf("BASIC listing: %w", err)
					}
					pc = newPC
				}
			}
			for i := 0; i < count; i++ {
				dis, n := disassemble.Step(pc, b)
				fmt.Println(dis)
				pc += uint16(n)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&start, "start", 0xC000, "address disassembly begins at (ignored for .prg files, which encode their own load address)")
	cmd.Flags().IntVar(&count, "count", 32, "number of instructions to disassemble")
	cmd.Flags().BoolVar(&listBasic, "basic", false, "if the load address is 0x0801, list the BASIC program before disassembling the machine code tail")
	return cmd
}

// clockPeriod converts a Hz rate into the per-cycle period pacer.Clock
// expects to wait between cycles.
func clockPeriod(hz int) time.Duration {
	return time.Second / time.Duration(hz)
}

// newConvertPRGCmd adapts the byte-patching logic of the standalone
// PRG-to-cart converter into a subcommand: it builds a 64k image with
// a JSR stub at 0xD000 calling --start-pc, an infinite loop at 0xC000
// that all reset/IRQ/NMI vectors point at, and the handful of C64
// zero page/low RAM presets test programs commonly expect to find.
func newConvertPRGCmd() *cobra.Command {
	var startPC uint16

	cmd := &cobra.Command{
		Use:   "convertprg <file.prg>",
		Short: "Convert a C64 PRG file into a 64k cart image for run/monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := args[0]
			b, err := os.ReadFile(fn)
			if err != nil {
				return fmt.Errorf("can't open %s: %w", fn, err)
			}
			if len(b) < 2 {
				return fmt.Errorf("%s is too short to be a PRG file", fn)
			}

			out := prgToCart(b, startPC)

			outfn := fn + ".bin"
			if err := os.WriteFile(outfn, out, 0644); err != nil {
				return fmt.Errorf("can't write %q: %w", outfn, err)
			}
			fmt.Printf("wrote %s\n", outfn)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&startPC, "start-pc", 0x0000, "PC value the JSR stub at 0xD000 calls")
	return cmd
}

// newAsmCmd assembles a hand-written hex listing (lines of the form
// "XXXX OP A1 A2 A3..." - a four digit address field followed by 1-3
// hex byte tokens, as emitted by a disassembler transcript that's been
// hand-edited) into a flat binary image.
func newAsmCmd() *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "asm <listing> <output.bin>",
		Short: "Assemble a hand-written hex listing into a flat binary image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := assembleListing(args[0], offset)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], out, 0644); err != nil {
				return fmt.Errorf("can't write %q: %w", args[1], err)
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0x0000, "Offset to start writing assembled data; everything prior is zero filled")
	return cmd
}

// isHexListingLine reports whether line begins with a 4 digit hex
// address field, the marker a disassembler transcript uses for lines
// worth assembling (as opposed to header/blank/comment lines).
func isHexListingLine(line string) bool {
	if len(line) < 4 {
		return false
	}
	for _, r := range line[:4] {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return true
}

// assembleListing parses fn's hex listing and returns the assembled
// bytes, zero filled for offset bytes before the parsed data.
func assembleListing(fn string, offset int) ([]byte, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("can't open %q: %w", fn, err)
	}
	defer f.Close()

	output := make([]byte, offset)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		t := scanner.Text()
		if !isHexListingLine(t) {
			continue
		}
		// Address field plus separator, mirroring `cut -c6-`.
		t = t[5:]
		// Drop a trailing tab-delimited comment column...
		if i := strings.Index(t, "\t"); i >= 0 {
			t = t[:i]
		}
		// ...or a trailing "(*)..." annotation.
		if i := strings.Index(t, "(*)"); i >= 0 {
			t = t[:i]
		}
		toks := strings.Split(strings.TrimSpace(t), " ")
		if len(toks) > 3 {
			return nil, fmt.Errorf("invalid line %d - %q", line, t)
		}
		for _, tok := range toks {
			if tok == "" {
				continue
			}
			b, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("can't parse input line %d %q - %w", line, t, err)
			}
			output = append(output, byte(b))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %q: %w", fn, err)
	}
	return output, nil
}

func prgToCart(b []byte, startPC uint16) []byte {
	out := make([]byte, 65536)

	// First 2 bytes are the load address.
	addr := int(b[0]) | int(b[1])<<8
	data := b[2:]

	max := 65536 - addr
	if l := addr + len(data); l >= max {
		data = data[:max]
	}
	copy(out[addr:], data)

	out[0xC000] = 0x4C // JMP 0xC000
	out[0xC001] = 0x00
	out[0xC002] = 0xC0

	out[0xD000] = 0x20 // JSR <startPC>
	out[0xD001] = byte(startPC & 0xFF)
	out[0xD002] = byte(startPC >> 8)
	out[0xD003] = 0x4C // JMP 0xD003
	out[0xD004] = 0x03
	out[0xD005] = 0xD0

	out[0xFFD2] = 0x60 // RTS

	out[0xFFFA] = 0x00
	out[0xFFFB] = 0xC0
	out[0xFFFC] = 0x00
	out[0xFFFD] = 0xC0
	out[0xFFFE] = 0x00
	out[0xFFFF] = 0xC0

	// Based on data in http://sta.c64.org/cbm64mem.html: zero page and
	// a handful of low RAM locations test programs assuming a c64
	// environment may expect to find preset.
	out[0x0000] = 0x37
	out[0x0003] = 0xAA
	out[0x0004] = 0xB1
	out[0x0005] = 0x91
	out[0x0006] = 0xB3
	out[0x0016] = 0x19
	out[0x002B] = 0x01 // pointer to start of BASIC area
	out[0x002C] = 0x08
	out[0x0038] = 0xA0 // pointer to end of BASIC area
	out[0x0053] = 0x03
	out[0x0054] = 0x4C
	out[0x0091] = 0xFF
	out[0x009A] = 0x03
	out[0x00B2] = 0x3C
	out[0x00B3] = 0x03
	out[0x00C8] = 0x27
	out[0x00D5] = 0x27

	out[0x0282] = 0x08
	out[0x0284] = 0xA0
	out[0x0288] = 0x04
	out[0x0300] = 0x8B
	out[0x0301] = 0xE3
	out[0x0302] = 0x83
	out[0x0303] = 0xA4
	out[0x0304] = 0x7C
	out[0x0305] = 0xA5
	out[0x0306] = 0x1A
	out[0x0307] = 0xA7
	out[0x0308] = 0xE4
	out[0x0309] = 0xA7
	out[0x030A] = 0x86
	out[0x030B] = 0xAE
	out[0x0310] = 0x4C
	out[0x0314] = 0x31
	out[0x0315] = 0xEA
	out[0x0316] = 0x66
	out[0x0317] = 0xFE
	out[0x0318] = 0x47
	out[0x0319] = 0xFE
	out[0x031A] = 0x4A
	out[0x031B] = 0xF3
	out[0x031C] = 0x91
	out[0x031D] = 0xF2
	out[0x031E] = 0x0E
	out[0x031F] = 0xF2
	out[0x0320] = 0x50
	out[0x0321] = 0xF2
	out[0x0322] = 0x33
	out[0x0323] = 0xF3
	out[0x0324] = 0x57
	out[0x0325] = 0xF1
	out[0x0326] = 0xCA
	out[0x0327] = 0xF1
	out[0x0328] = 0xED
	out[0x0329] = 0xF6
	out[0x032A] = 0x3E
	out[0x032B] = 0xF1
	out[0x032C] = 0x2F
	out[0x032D] = 0xF3
	out[0x032E] = 0x66
	out[0x032F] = 0xFE
	out[0x0330] = 0xA5
	out[0x0331] = 0xF4
	out[0x0332] = 0xED
	out[0x0333] = 0xF5

	return out
}
