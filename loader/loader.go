// Package loader reads program images into a cpu.Bus. It's the
// byte-copy loop from convertprg/disassembler factored out as a
// library so both the monitor and cmd/sim65 can share it.
package loader

import (
	"fmt"
	"os"

	"github.com/sixfiveoh/nmos65/cpu"
)

// Load reads the file at path and writes it byte-for-byte through
// bus.Write starting at addr. It returns the number of bytes written.
// An error is returned (with nothing written) if the file's length
// would carry the write past 0xFFFF.
func Load(bus cpu.Bus, path string, addr uint16) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("loader: can't read %s: %w", path, err)
	}
	if int(addr)+len(b) > 1<<16 {
		return 0, fmt.Errorf("loader: %s is %d bytes, too long to load at 0x%.4X without wrapping past 0xFFFF", path, len(b), addr)
	}
	for i, v := range b {
		bus.Write(addr+uint16(i), v)
	}
	return len(b), nil
}

// LoadPRG reads a C64 .prg file, using its first two (little endian)
// bytes as the load address instead of taking one as a parameter. It
// returns the load address actually used and the number of data bytes
// written.
func LoadPRG(bus cpu.Bus, path string) (uint16, int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("loader: can't read %s: %w", path, err)
	}
	if len(b) < 2 {
		return 0, 0, fmt.Errorf("loader: %s is too short to be a PRG file", path)
	}
	addr := uint16(b[0]) | uint16(b[1])<<8
	data := b[2:]
	if int(addr)+len(data) > 1<<16 {
		return 0, 0, fmt.Errorf("loader: %s is %d bytes, too long to load at 0x%.4X without wrapping past 0xFFFF", path, len(data), addr)
	}
	for i, v := range data {
		bus.Write(addr+uint16(i), v)
	}
	return addr, len(data), nil
}
