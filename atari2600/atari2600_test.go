package atari2600

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/sixfiveoh/nmos65/io"
)

var (
	testImageDir = flag.String("test_image_dir", "", "If set will generate images from tests to this directory")
	testDebug    = flag.Bool("test_debug", false, "If true will emit full CPU/TIA/VIA debugging while running")
)

const testDir = "../testdata"

type swtch struct {
	b bool
}

func (s *swtch) Input() bool {
	return s.b
}

type swap struct {
	b     bool
	cnt   int
	reset int
}

func (s *swap) Input() bool {
	s.cnt--
	if s.cnt == 0 {
		s.b = !s.b
		s.cnt = s.reset
	}
	return s.b
}

func TestCarts(t *testing.T) {
	diff := &swtch{false}
	game := &swtch{false}
	color := &swtch{true}

	tests := []struct {
		name     string
		filename string
	}{
		// NOTE: to run these tests one must get legit cart images for the below
		//       and put them in testDir manually (they aren't checked in).
		{
			name:     "Combat",
			filename: "combat.bin",
		},
		{
			name:     "SpaceInvaders",
			filename: "spcinvad.bin",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			file := filepath.Join(testDir, test.filename)
			rom, err := ioutil.ReadFile(file)
			if err != nil {
				t.Fatalf("%s: can't read %s: %v", test.name, file, err)
			}

			a, err := Init(&VCSDef{
				Difficulty: [2]io.PortIn1{diff, diff},
				ColorBW:    color,
				GameSelect: game,
				Reset:      color,
				Rom:        []uint8(rom),
				Debug:      *testDebug,
			})
			if err != nil {
				t.Fatalf("%s: can't init VCS: %v", test.name, err)
			}

			const instructions = 200000
			for i := 0; i < instructions; i++ {
				if err := a.Tick(); err != nil {
					t.Fatalf("Tick error: %v", err)
				}
			}

			if *testImageDir != "" {
				dumpFrame(t, test.name, a)
			}
		})
	}
}

func dumpFrame(t *testing.T, name string, a *VCS) {
	o, err := os.Create(filepath.Join(*testImageDir, fmt.Sprintf("%s.bmp", name)))
	if err != nil {
		t.Fatalf("can't open output file %s.bmp: %v", name, err)
	}
	defer o.Close()
	if err := bmp.Encode(o, a.Frame()); err != nil {
		t.Fatalf("can't BMP encode for file %s.bmp: %v", name, err)
	}
}
