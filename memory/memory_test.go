package memory

import "testing"

func TestReadWriteRoundTrips(t *testing.T) {
	b, err := New8BitRAMBank(256, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x10, 0x42)
	if got, want := b.Read(0x10), uint8(0x42); got != want {
		t.Errorf("Read(0x10) = %.2X, want %.2X", got, want)
	}
}

func TestAliasingWhenSmallerThan64k(t *testing.T) {
	b, err := New8BitRAMBank(256, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x0010, 0x99)
	// 0x1010 aliases onto 0x0010 in a 256 byte bank.
	if got, want := b.Read(0x1010), uint8(0x99); got != want {
		t.Errorf("Read(0x1010) = %.2X, want %.2X (aliased)", got, want)
	}
}

func TestDatabusValTracksLastAccess(t *testing.T) {
	b, err := New8BitRAMBank(256, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x01, 0xAB)
	if got, want := b.DatabusVal(), uint8(0xAB); got != want {
		t.Errorf("DatabusVal() after write = %.2X, want %.2X", got, want)
	}
	b.Read(0x01)
	if got, want := b.DatabusVal(), uint8(0xAB); got != want {
		t.Errorf("DatabusVal() after read = %.2X, want %.2X", got, want)
	}
}

func TestParentChaining(t *testing.T) {
	parent, err := New8BitRAMBank(256, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	child, err := New8BitRAMBank(256, parent)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	if child.Parent() != parent {
		t.Error("child.Parent() should return the parent bank")
	}
	parent.Write(0x05, 0x77)
	if got, want := LatestDatabusVal(child), uint8(0x77); got != want {
		t.Errorf("LatestDatabusVal(child) = %.2X, want %.2X", got, want)
	}
}

func TestBasedRAMBankTranslatesAddresses(t *testing.T) {
	b, err := NewBasedRAMBank(0x8000, 256, nil)
	if err != nil {
		t.Fatalf("NewBasedRAMBank: %v", err)
	}
	b.Write(0x8010, 0x55)
	if got, want := b.Read(0x8010), uint8(0x55); got != want {
		t.Errorf("Read(0x8010) = %.2X, want %.2X", got, want)
	}
}

func TestNew8BitRAMBankRejectsOddSize(t *testing.T) {
	if _, err := New8BitRAMBank(255, nil); err == nil {
		t.Error("expected an error for an odd (non power-of-2-shaped) size")
	}
}

func TestNew8BitRAMBankRejectsOversize(t *testing.T) {
	if _, err := New8BitRAMBank(1<<17, nil); err == nil {
		t.Error("expected an error for a size bigger than 64k")
	}
}
