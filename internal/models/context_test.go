package models

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContextTrailOrder(t *testing.T) {
	ctx := (*Context)(nil).
		Note("rpm", "foo").
		Note("version", "1.0.0").
		Note("release", 3)

	want := []Note{
		{Label: "rpm", Value: "foo"},
		{Label: "version", Value: "1.0.0"},
		{Label: "release", Value: "3"},
	}
	if diff := cmp.Diff(want, ctx.Trail()); diff != "" {
		t.Errorf("trail mismatch (-want +got):\n%s", diff)
	}
	if ctx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ctx.Len())
	}
}

func TestContextBranchesAreIndependent(t *testing.T) {
	base := (*Context)(nil).Note("rpm", "foo")
	left := base.Note("src", "a.txt")
	right := base.Note("hook", "post_install")

	if got := base.Trail(); len(got) != 1 {
		t.Fatalf("base trail grew to %d notes", len(got))
	}
	if diff := cmp.Diff([]Note{{"rpm", "foo"}, {"src", "a.txt"}}, left.Trail()); diff != "" {
		t.Errorf("left trail mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Note{{"rpm", "foo"}, {"hook", "post_install"}}, right.Trail()); diff != "" {
		t.Errorf("right trail mismatch (-want +got):\n%s", diff)
	}
}

func TestContextLookupReturnsNewest(t *testing.T) {
	ctx := (*Context)(nil).Note("path", "old").Note("other", 1).Note("path", "new")
	v, ok := ctx.Lookup("path")
	if !ok || v != "new" {
		t.Errorf("Lookup(path) = %q, %v; want new, true", v, ok)
	}
	if _, ok := ctx.Lookup("missing"); ok {
		t.Error("Lookup(missing) reported a value")
	}
}

func TestNilContext(t *testing.T) {
	var ctx *Context
	if ctx.Len() != 0 || ctx.Trail() != nil {
		t.Error("nil context is not empty")
	}
	var s *string
	if v := ctx.Note("maybe", s).Trail()[0].Value; v != "<none>" {
		t.Errorf("nil *string rendered as %q", v)
	}
}

func TestBuildErrorFormatting(t *testing.T) {
	ctx := (*Context)(nil).Note("rpm", "foo").Note("src", "/tmp/missing")
	err := NewError(ErrFileAttach, ctx, fs.ErrNotExist)

	msg := err.Error()
	if !strings.HasPrefix(msg, "[FileAttach] file does not exist") {
		t.Errorf("unexpected message: %q", msg)
	}
	if strings.Index(msg, "rpm: foo") > strings.Index(msg, "src: /tmp/missing") {
		t.Errorf("trail printed out of order: %q", msg)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("BuildError does not unwrap to its cause")
	}

	var be *BuildError
	if !errors.As(error(err), &be) || be.Type != ErrFileAttach {
		t.Error("errors.As failed to recover the BuildError")
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrKeyRead.String() != "SigningKeyRead" {
		t.Errorf("ErrKeyRead.String() = %q", ErrKeyRead.String())
	}
	if ErrorType(99).String() != "Unknown" {
		t.Error("unknown error type not reported as Unknown")
	}
}
