package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ralt/rpm-builder/internal/testutil"
)

const fakeLead = "\xED\xAB\xEE\xDBrest of the lead"

func TestDetectRPM(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"real.rpm", fakeLead, true},
		{"no-extension", fakeLead, true},
		{"fake.rpm", "just text", false},
		{"short.rpm", "\xED\xAB", false},
		{"empty.rpm", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.name, tt.content)
			got, err := DetectRPM(path)
			if err != nil {
				t.Fatalf("DetectRPM failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectRPM(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if _, err := DetectRPM(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b.rpm", fakeLead)
	testutil.WriteFile(t, dir, "nested/a.rpm", fakeLead)
	testutil.WriteFile(t, dir, "nested/readme.txt", "hello")
	testutil.WriteFile(t, dir, "c.rpm", "not really")

	packages, err := NewFileSystemScanner().Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	var got []string
	for _, p := range packages {
		rel, _ := filepath.Rel(dir, p.Path)
		got = append(got, rel)
		if p.Size != int64(len(fakeLead)) {
			t.Errorf("Expected size %d for %s, got %d", len(fakeLead), rel, p.Size)
		}
	}
	want := []string{"b.rpm", filepath.Join("nested", "a.rpm")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.rpm", fakeLead)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileSystemScanner().Scan(ctx, dir); err == nil {
		t.Error("Expected error from cancelled scan")
	}
}
