package cache

import "testing"

func TestParseModeType(t *testing.T) {
	cases := []struct {
		in   string
		want ModeType
	}{
		{"", ModeReadWrite},
		{"ReadWrite", ModeReadWrite},
		{"ReadOnly", ModeReadOnly},
		{"None", ModeNone},
	}
	for _, c := range cases {
		got, err := ParseModeType(c.in)
		if err != nil {
			t.Fatalf("ParseModeType(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseModeType(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseModeType("Bogus"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestModeTypeCapabilities(t *testing.T) {
	if !ModeReadWrite.CanRead() || !ModeReadWrite.CanWrite() || !ModeReadWrite.CanSweep() {
		t.Errorf("ModeReadWrite should allow read, write, and sweep")
	}
	if !ModeReadOnly.CanRead() || ModeReadOnly.CanWrite() || ModeReadOnly.CanSweep() {
		t.Errorf("ModeReadOnly should allow read only")
	}
	if ModeNone.CanRead() || ModeNone.CanWrite() || ModeNone.CanSweep() {
		t.Errorf("ModeNone should allow nothing")
	}
}
