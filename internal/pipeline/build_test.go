package pipeline

import (
	"bytes"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/inspect"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/testutil"
)

var buildTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fullConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	bin := testutil.WriteFile(t, dir, "hello", "#!/bin/sh\necho hello\n")
	conf := testutil.WriteFile(t, dir, "hello.conf", "greeting = hi\n")
	post := testutil.WriteFile(t, dir, "post.sh", "echo installed\n")
	mode := int64(0o755)
	isConfig := true

	cfg := minimalConfig()
	cfg.RPM.Arch = "x86_64"
	cfg.Contents = map[string]config.FileOption{
		bin:  config.Structured(config.StructuredFile{Dst: "/usr/bin/hello", Mode: &mode}),
		conf: config.Structured(config.StructuredFile{Dst: "/etc/hello.conf", Config: &isConfig}),
	}
	cfg.Changelog = config.Changelog{
		"2019-01-01T00:00:00": {Author: "Jane Doe <jane@example.com>", Entry: "- first release"},
	}
	cfg.Requires = map[string]string{"bash": ">= 4.0"}
	cfg.Conflicts = map[string]string{"goodbye": "*"}
	cfg.Scripts = &config.Scripts{PostInstall: &post}
	return cfg
}

func TestBuildReadBack(t *testing.T) {
	pkg, err := Build(fullConfig(t), models.BuildOptions{BuildTime: buildTime})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := pkg.Filename(); got != "hello-1.0.0.x86_64.rpm" {
		t.Errorf("Expected filename hello-1.0.0.x86_64.rpm, got %s", got)
	}

	info, err := inspect.Read(bytes.NewReader(pkg.Bytes()))
	if err != nil {
		t.Fatalf("Failed to read package back: %v", err)
	}

	if info.Name != "hello" || info.Version != "1.0.0" {
		t.Errorf("Expected hello 1.0.0, got %s %s", info.Name, info.Version)
	}
	if info.License != "MIT" {
		t.Errorf("Expected license MIT, got %q", info.License)
	}
	if info.Summary != "says hello" {
		t.Errorf("Expected summary %q, got %q", "says hello", info.Summary)
	}
	if info.BuildTime != buildTime.Unix() {
		t.Errorf("Expected build time %d, got %d", buildTime.Unix(), info.BuildTime)
	}
	if !slices.Contains(info.Requires, "bash >= 4.0") {
		t.Errorf("Expected requires to contain %q, got %v", "bash >= 4.0", info.Requires)
	}
	if !slices.Contains(info.Conflicts, "goodbye") {
		t.Errorf("Expected conflicts to contain goodbye, got %v", info.Conflicts)
	}
	for _, f := range []string{"/usr/bin/hello", "/etc/hello.conf"} {
		if !slices.Contains(info.Files, f) {
			t.Errorf("Expected files to contain %s, got %v", f, info.Files)
		}
	}

	wantLog := []models.ChangelogInfo{{
		Time:   config.Unix32(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)),
		Author: "Jane Doe <jane@example.com>",
		Text:   "- first release",
	}}
	if diff := cmp.Diff(wantLog, info.Changelog); diff != "" {
		t.Errorf("Changelog mismatch (-want +got):\n%s", diff)
	}

	if got := info.Scripts["post_install"]; got != "echo installed\n" {
		t.Errorf("Expected post_install script, got %q", got)
	}
	if _, ok := info.Scripts["pre_install"]; ok {
		t.Error("Expected no pre_install script")
	}
}

func TestBuildIsReproducible(t *testing.T) {
	cfg := fullConfig(t)

	first, err := Build(cfg, models.BuildOptions{BuildTime: buildTime})
	if err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	second, err := Build(cfg, models.BuildOptions{BuildTime: buildTime})
	if err != nil {
		t.Fatalf("Second build failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("Expected identical packages from identical inputs")
	}
}

func TestBuildSignedVerifies(t *testing.T) {
	cfg := fullConfig(t)
	key := testutil.WriteFile(t, t.TempDir(), "key.asc", string(testutil.ArmoredPrivateKey(t, "")))
	cfg.Signature = &config.Signature{RSAKeyPath: key}

	pkg, err := Build(cfg, models.BuildOptions{BuildTime: buildTime})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !pkg.Signed {
		t.Fatal("Expected signed package")
	}

	sigs, err := inspect.Verify(bytes.NewReader(pkg.Bytes()), testutil.Keyring(t))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(sigs) == 0 {
		t.Error("Expected at least one signature")
	}
}

func TestBuildUnsignedFailsVerification(t *testing.T) {
	pkg, err := Build(fullConfig(t), models.BuildOptions{BuildTime: buildTime})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := inspect.Verify(bytes.NewReader(pkg.Bytes()), testutil.Keyring(t)); err == nil {
		t.Error("Expected verification of an unsigned package to fail")
	}
}

func TestBuildDuplicateDestination(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a", "a")
	b := testutil.WriteFile(t, dir, "b", "b")

	cfg := minimalConfig()
	cfg.Contents = map[string]config.FileOption{
		a: config.SimpleFile("/usr/share/hello/file"),
		b: config.SimpleFile("/usr/share/hello/file"),
	}

	_, err := Build(cfg, models.BuildOptions{BuildTime: buildTime})
	be := assertBuildError(t, err, models.ErrFileAttach)
	assertNote(t, be, "src", b)
}
