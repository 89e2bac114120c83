package cache

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeEntry_RoundTrip(t *testing.T) {
	entry := Entry{Payloads: map[PayloadTag][]byte{
		PayloadObject: []byte("object bytes go here"),
		PayloadStdout: []byte("compiled ok\n"),
		PayloadStderr: []byte(""),
	}}

	var buf bytes.Buffer
	if err := EncodeEntry(&buf, entry); err != nil {
		t.Fatalf("EncodeEntry() error: %v", err)
	}

	decoded, err := DecodeEntry(&buf)
	if err != nil {
		t.Fatalf("DecodeEntry() error: %v", err)
	}

	for tag, want := range entry.Payloads {
		got, ok := decoded.Payloads[tag]
		if !ok {
			t.Fatalf("missing payload for tag %v", tag)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("payload %v = %q, want %q", tag, got, want)
		}
	}
}

func TestDecodeEntry_BadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	if _, err := DecodeEntry(&buf); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestDecodeEntry_VersionMismatch(t *testing.T) {
	entry := Entry{Payloads: map[PayloadTag][]byte{PayloadObject: []byte("x")}}
	var buf bytes.Buffer
	if err := EncodeEntry(&buf, entry); err != nil {
		t.Fatalf("EncodeEntry() error: %v", err)
	}

	raw := buf.Bytes()
	raw[4] = byte(FormatVersion + 1)

	if _, err := DecodeEntry(bytes.NewReader(raw)); err == nil {
		t.Fatalf("expected error for version mismatch")
	}
}
