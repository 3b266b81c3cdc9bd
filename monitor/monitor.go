// Package monitor implements an interactive bubbletea REPL for
// stepping and inspecting a running cpu.CPU, in the spirit of the
// teacher's plain fmt.Printf register/page dumps but rendered through
// lipgloss panels and driven by typed commands instead of single
// keystrokes.
package monitor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/sixfiveoh/nmos65/cpu"
	"github.com/sixfiveoh/nmos65/disassemble"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model for the monitor. It owns the CPU being
// inspected and the bus it's wired to, so commands like mem can read
// memory directly without the CPU needing a debug-read path.
type Model struct {
	cpu  *cpu.CPU
	bus  cpu.Bus
	logr *log.Logger

	breakpoints map[uint16]bool

	input   string
	history []string
	lastErr error
	quit    bool
}

// New returns a Model ready to run via tea.NewProgram(m).Run(). Session
// logging goes to monitor.log rather than stderr/stdout, since those
// are owned by the bubbletea screen while the program is running.
func New(c *cpu.CPU, bus cpu.Bus) Model {
	logw, err := os.OpenFile("monitor.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logw = os.Stderr
	}
	return Model{
		cpu:         c,
		bus:         bus,
		logr:        log.NewWithOptions(logw, log.Options{Prefix: "monitor"}),
		breakpoints: map[uint16]bool{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model, handling one typed line of input at a
// time rather than interpreting every keystroke as a command (the
// teacher's debugger does the latter since it only has single-key
// commands; ours needs addresses and counts as arguments).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC:
		m.quit = true
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input)
		m.input = ""
		if line == "" {
			return m, nil
		}
		m.history = append(m.history, "> "+line)
		out, err := m.execute(line)
		m.lastErr = err
		if err != nil {
			m.history = append(m.history, "error: "+err.Error())
		} else if out != "" {
			m.history = append(m.history, out)
		}
		if m.quit {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.input += keyMsg.String()
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.registers()),
		panelStyle.Render(m.disassembly()),
	)
	hist := strings.Join(lastLines(m.history, 12), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		panelStyle.Render(hist),
		promptStyle.Render("> ")+m.input,
	)
}

func lastLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func (m Model) registers() string {
	c := m.cpu
	return fmt.Sprintf(
		"PC: %.4X  A: %.2X  X: %.2X  Y: %.2X  SP: %.2X\nN V - B D I Z C\n%s",
		c.PC, c.A, c.X, c.Y, c.SP, flagBits(c))
}

func flagBits(c *cpu.CPU) string {
	bits := []bool{c.Negative, c.Overflow, true, false, c.Decimal, c.Interrupt, c.Zero, c.Carry}
	var b strings.Builder
	for _, v := range bits {
		if v {
			b.WriteString("1 ")
		} else {
			b.WriteString("0 ")
		}
	}
	return b.String()
}

func (m Model) disassembly() string {
	var b strings.Builder
	pc := m.cpu.PC
	for i := 0; i < 8; i++ {
		dis, count := disassemble.Step(pc, m.bus)
		marker := "  "
		if m.breakpoints[pc] {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, dis)
		pc += uint16(count)
	}
	return b.String()
}

// execute parses and runs one command line, returning text to append
// to the scrollback (empty string for commands with no output) or an
// error describing why the command couldn't run.
func (m *Model) execute(line string) (string, error) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]
	m.logr.Debug("command", "cmd", cmd, "args", args)

	switch cmd {
	case "quit", "exit":
		m.quit = true
		return "", nil
	case "step":
		cycles, err := m.cpu.Step()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("stepped, %d cycles", cycles), nil
	case "run":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return "", fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			n = v
		}
		ran := 0
		for ; ran < n; ran++ {
			if m.breakpoints[m.cpu.PC] && ran > 0 {
				break
			}
			if _, err := m.cpu.Step(); err != nil {
				return fmt.Sprintf("ran %d instructions then halted", ran), err
			}
			if m.cpu.Halted() {
				return fmt.Sprintf("ran %d instructions then halted on opcode 0x%02X", ran+1, m.cpu.HaltOpcode()), nil
			}
		}
		return fmt.Sprintf("ran %d instructions", ran), nil
	case "break":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: break <addr>")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return "", err
		}
		m.breakpoints[addr] = true
		return fmt.Sprintf("breakpoint set at %.4X", addr), nil
	case "reset":
		m.cpu.Reset()
		return "reset", nil
	case "reg":
		return m.registers(), nil
	case "mem":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: mem <addr> <len>")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid length %q: %w", args[1], err)
		}
		return m.dumpMem(addr, n), nil
	case "set":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: set <reg> <val>")
		}
		return "", m.setReg(strings.ToUpper(args[0]), args[1])
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

func (m *Model) dumpMem(addr uint16, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i%16 == 0 {
			if i != 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%.4X: ", addr+uint16(i))
		}
		fmt.Fprintf(&b, "%.2X ", m.bus.Read(addr+uint16(i)))
	}
	return b.String()
}

func (m *Model) setReg(reg, val string) error {
	v, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", val, err)
	}
	switch reg {
	case "A":
		m.cpu.A = uint8(v)
	case "X":
		m.cpu.X = uint8(v)
	case "Y":
		m.cpu.Y = uint8(v)
	case "SP":
		m.cpu.SP = uint8(v)
	case "PC":
		m.cpu.PC = uint16(v)
	default:
		return fmt.Errorf("unknown register %q", reg)
	}
	return nil
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}

// Run starts the interactive monitor, blocking until the user quits.
func Run(c *cpu.CPU, bus cpu.Bus) error {
	_, err := tea.NewProgram(New(c, bus)).Run()
	return err
}
