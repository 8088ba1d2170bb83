//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runCLI executes the built binary with stdout/stderr attached.
func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Parse extracts requirements from the ReqIF documents under requirements/.
func Parse() error {
	mg.Deps(Build)
	return runCLI("parse", "requirements")
}

// Export writes the requirement collection to export/requirements.yaml.
func Export() error {
	mg.Deps(Build)
	return runCLI("export", "requirements")
}

// Sync performs a dry-run sync against the configured GitHub repository.
// Run the CLI directly without --dry-run for a real sync.
func Sync() error {
	mg.Deps(Build)
	return runCLI("sync", "requirements", "--dry-run")
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}
