package cachekey

import (
	"testing"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/internal/base"
)

func TestCanonicalize_SortsOrderInsensitiveOnly(t *testing.T) {
	args := []argument.Arg{
		{Text: "-Xclang", Category: argument.CategoryCompiler, OrderSensitive: true},
		{Text: "-foo", Category: argument.CategoryCompiler, OrderSensitive: true},
		{Text: "-Db", Category: argument.CategoryPreprocessor},
		{Text: "-Da", Category: argument.CategoryPreprocessor},
	}

	got := Canonicalize(args)
	if len(got) != 4 {
		t.Fatalf("expected 4 args, got %d", len(got))
	}
	// order-sensitive pair keeps its original relative position
	if got[0].Text != "-Xclang" || got[1].Text != "-foo" {
		t.Errorf("order-sensitive args were reordered: %v", got)
	}
	// order-insensitive args got sorted by text within their slots
	if got[2].Text != "-Da" || got[3].Text != "-Db" {
		t.Errorf("order-insensitive args were not sorted: %v", got)
	}
}

func TestCanonicalize_DropsDiscard(t *testing.T) {
	args := []argument.Arg{
		{Text: "/showIncludes", Category: argument.CategoryDiscard},
		{Text: "/O2", Category: argument.CategoryCompiler},
	}
	got := Canonicalize(args)
	if len(got) != 1 || got[0].Text != "/O2" {
		t.Errorf("expected discard dropped, got %v", got)
	}
}

func TestDerive_DeterministicAndSensitiveToInputs(t *testing.T) {
	args := []argument.Arg{{Text: "/O2", Category: argument.CategoryCompiler}}
	preHash := base.StringFingerprint("preprocessed-a")
	pchHash := base.Fingerprint{}

	k1, err := Derive("toolchain-1", args, preHash, pchHash, false)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	k2, err := Derive("toolchain-1", args, preHash, pchHash, false)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	if k1 != k2 {
		t.Errorf("Derive() is not deterministic: %v != %v", k1, k2)
	}

	k3, err := Derive("toolchain-2", args, preHash, pchHash, false)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	if k1 == k3 {
		t.Errorf("Derive() should differ across toolchain identities")
	}

	k4, err := Derive("toolchain-1", args, preHash, pchHash, true)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	if k1 == k4 {
		t.Errorf("Derive() should differ between hasPCH=false (sentinel) and hasPCH=true (zero hash)")
	}
}
