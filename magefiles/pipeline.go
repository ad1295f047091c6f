//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Ingest builds the binary and rebuilds the corpus index from docs/.
func Ingest() error {
	mg.Deps(Build)
	return runBinary("ingest")
}

// Chat builds the binary and starts the interactive answering loop.
func Chat() error {
	mg.Deps(Build)
	return runBinary("chat")
}

// Serve builds the binary and starts the similarity demo service.
func Serve() error {
	mg.Deps(Build)
	return runBinary("serve")
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

func runBinary(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
