package test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ralt/rpm-builder/internal/testutil"
)

// TestIntegration builds packages with the rpm-builder binary and installs
// them in a Fedora container
func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	// Check if Docker is available
	if !isDockerAvailable() {
		t.Skip("Docker not available, skipping integration tests")
	}

	// Get project root
	projectRoot, err := getProjectRoot()
	if err != nil {
		t.Fatalf("Failed to find project root: %v", err)
	}

	// Build rpm-builder binary
	t.Log("Building rpm-builder binary...")
	bin := filepath.Join(t.TempDir(), "rpm-builder")
	if err := buildRPMBuilder(projectRoot, bin); err != nil {
		t.Fatalf("Failed to build rpm-builder: %v", err)
	}

	t.Run("Unsigned", func(t *testing.T) {
		testInstall(t, bin, false)
	})

	t.Run("Signed", func(t *testing.T) {
		testInstall(t, bin, true)
	})
}

func testInstall(t *testing.T, bin string, signed bool) {
	workDir := t.TempDir()
	outDir := filepath.Join(workDir, "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	testutil.WriteFile(t, workDir, "files/greet", "#!/bin/sh\necho \"hello from rpm-builder\"\n")
	testutil.WriteFile(t, workDir, "files/greet.conf", "greeting=hello\n")
	testutil.WriteFile(t, workDir, "scripts/post.sh", "touch /var/tmp/greet-installed\n")
	testutil.WriteFile(t, workDir, "scripts/postun.sh", "rm -f /var/tmp/greet-installed\n")

	signature := ""
	if signed {
		testutil.WriteFile(t, workDir, "key.asc", string(testutil.ArmoredPrivateKey(t, "")))
		signature = "\n[signature]\nrsa_key_path = \"key.asc\"\n"
	}

	testutil.WriteFile(t, workDir, "greet.toml", `
[rpm]
name = "greet"
version = "1.0.0"
release = 1
license = "MIT"
arch = "noarch"
desc = "integration test package"

[contents]
"files/greet" = { dst = "/usr/bin/greet", mode = 0o755 }
"files/greet.conf" = { dst = "/etc/greet.conf", config = true }

[changelog."2024-01-01T00:00:00"]
author = "rpm-builder tests <tests@example.com>"
entry = "- initial package"

[requires]
bash = "*"

[scripts]
post_install = "scripts/post.sh"
post_uninstall = "scripts/postun.sh"
`+signature)

	// Config paths are relative to the working directory
	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command(bin, args...)
		cmd.Dir = workDir
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("rpm-builder %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
		}
		return string(output)
	}

	t.Log("Building package...")
	run("validate", "greet.toml")
	run("pkg", "greet.toml", "out")

	rpmFile := "greet-1.0.0-1.noarch.rpm"
	if _, err := os.Stat(filepath.Join(outDir, rpmFile)); os.IsNotExist(err) {
		t.Fatalf("Expected package not found: %s", rpmFile)
	}

	check := fmt.Sprintf("rpm -K --nosignature /out/%s", rpmFile)
	if signed {
		cmd := exec.Command(bin, "pubkey", "greet.toml")
		cmd.Dir = workDir
		pub, err := cmd.Output()
		if err != nil {
			t.Fatalf("rpm-builder pubkey failed: %v", err)
		}
		testutil.WriteFile(t, outDir, "pub.asc", string(pub))
		check = fmt.Sprintf("rpm --import /out/pub.asc && rpm -K /out/%s | grep -i 'signatures ok'", rpmFile)
	}

	t.Log("Testing package in Fedora container...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dockerCmd := exec.CommandContext(ctx, "docker", "run", "--rm",
		"-v", fmt.Sprintf("%s:/out:ro", outDir),
		"fedora:latest",
		"bash", "-c", fmt.Sprintf(`
set -e
%s
rpm -i /out/%s
greet | grep "hello from rpm-builder"
test -f /var/tmp/greet-installed
rpm -qc greet | grep /etc/greet.conf
rpm -q --changelog greet | grep "initial package"
rpm -e greet
test ! -f /var/tmp/greet-installed
`, check, rpmFile),
	)
	dockerCmd.Stdout = os.Stdout
	dockerCmd.Stderr = os.Stderr

	if err := dockerCmd.Run(); err != nil {
		t.Fatalf("Docker test failed: %v", err)
	}

	t.Log("✓ RPM install test passed")
}

func isDockerAvailable() bool {
	cmd := exec.Command("docker", "version")
	return cmd.Run() == nil
}

func getProjectRoot() (string, error) {
	// Try to find go.mod
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod)")
}

func buildRPMBuilder(projectRoot, output string) error {
	cmd := exec.Command("go", "build", "-o", output, "./cmd/rpm-builder")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
