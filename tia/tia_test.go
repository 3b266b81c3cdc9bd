package tia

import "testing"

func TestReadsDriveOnlyD7D6(t *testing.T) {
	ta := Init(&TiaDef{})

	// The TIA has no RAM: across every (aliased) address, a read after a
	// write drives only D7/D6, never the other bits that were written.
	for i := uint16(0x0000); i < 0xFFFF; i++ {
		ta.Write(i, uint8(i))
		if got := ta.Read(i); got&^kMASK_READ != 0 {
			t.Errorf("Bad Write/Read cycle: wrote %.2X to %.4X and read %.2X, want only D7/D6 driven", uint8(i), i, got)
		}
	}
}
