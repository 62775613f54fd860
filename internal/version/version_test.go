package version_test

import (
	"strings"
	"testing"

	v "github.com/keithlinneman/embeddir/internal/version"
)

func TestVCSDirtyTriState(t *testing.T) {
	v.VCSDirty = nil
	info := v.Get()
	if info.VCSDirty != nil {
		t.Fatalf("VCSDirty = %v, want nil", info.VCSDirty)
	}

	trueVal := true
	v.VCSDirty = &trueVal
	info = v.Get()
	if info.VCSDirty == nil || *info.VCSDirty != true {
		t.Fatalf("VCSDirty = %v, want true", info.VCSDirty)
	}

	falseVal := false
	v.VCSDirty = &falseVal
	info = v.Get()
	if info.VCSDirty == nil || *info.VCSDirty != false {
		t.Fatalf("VCSDirty = %v, want false", info.VCSDirty)
	}
	v.VCSDirty = nil
}

func TestGet_Defaults(t *testing.T) {
	info := v.Get()
	if info.Version == "" {
		t.Fatal("Version is empty")
	}
	if info.Commit == "" {
		t.Fatal("Commit is empty")
	}
}

func TestInfo_String(t *testing.T) {
	dirty := true
	info := v.Info{Version: "1.2.3", Commit: "abc1234", VCSDirty: &dirty, GoVersion: "go1.24"}

	s := info.String()
	if !strings.Contains(s, "1.2.3") || !strings.Contains(s, "abc1234-dirty") || !strings.Contains(s, "go1.24") {
		t.Fatalf("String() = %q", s)
	}
}

func TestInfo_String_Clean(t *testing.T) {
	info := v.Info{Version: "1.0.0", Commit: "def5678"}
	if s := info.String(); strings.Contains(s, "dirty") {
		t.Fatalf("String() = %q, should not contain dirty", s)
	}
}
