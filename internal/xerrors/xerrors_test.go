package xerrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNew_CarriesStack(t *testing.T) {
	err := New("boom")
	if err == nil {
		t.Fatal("New returned nil")
	}
	if err.Error() != "boom" {
		t.Fatalf("Error() = %q", err.Error())
	}

	type hasStack interface{ StackPCs() []uintptr }
	var hs hasStack
	if !errors.As(err, &hs) {
		t.Fatal("New error has no stack")
	}
	if len(hs.StackPCs()) == 0 {
		t.Fatal("captured stack is empty")
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Fatal("Wrap(nil) != nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Fatal("Wrapf(nil) != nil")
	}
	if WithStack(nil) != nil {
		t.Fatal("WithStack(nil) != nil")
	}
	if EnsureTrace(nil) != nil {
		t.Fatal("EnsureTrace(nil) != nil")
	}
}

func TestWrap_MessageAndUnwrap(t *testing.T) {
	base := fs.ErrNotExist
	err := Wrap(base, "read table")

	if got := err.Error(); got != "read table: file does not exist" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("wrapped error lost Is identity")
	}

	type hasPC interface{ PC() uintptr }
	var hp hasPC
	if !errors.As(err, &hp) || hp.PC() == 0 {
		t.Fatal("Wrap did not record a call-site PC")
	}
}

func TestWrapf_Formats(t *testing.T) {
	err := Wrapf(errors.New("inner"), "scan %s", "assets")
	if err.Error() != "scan assets: inner" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestEnsureTrace_Idempotent(t *testing.T) {
	first := New("boom")
	second := EnsureTrace(first)
	if first != second {
		t.Fatal("EnsureTrace re-wrapped an error that already had a stack")
	}

	plain := fmt.Errorf("plain")
	traced := EnsureTrace(plain)
	if traced == plain {
		t.Fatal("EnsureTrace did not annotate a plain error")
	}
	if !errors.Is(traced, plain) {
		t.Fatal("EnsureTrace broke the unwrap chain")
	}
}
