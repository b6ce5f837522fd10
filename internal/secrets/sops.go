package secrets

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Encryptor encrypts files in place.
type Encryptor interface {
	// Available returns ErrSOPSNotFound when encryption cannot run.
	Available(ctx context.Context) error
	Encrypt(ctx context.Context, path string) error
}

// runFunc runs a command and returns its combined error output on failure.
type runFunc func(ctx context.Context, name string, args ...string) error

// SOPS encrypts with the sops binary.
type SOPS struct {
	run runFunc
}

// Compile-time interface compliance check.
var _ Encryptor = (*SOPS)(nil)

// NewSOPS creates an Encryptor backed by the sops CLI.
func NewSOPS() *SOPS {
	return &SOPS{run: runCommand}
}

// Available checks that sops can be executed.
func (s *SOPS) Available(ctx context.Context) error {
	if err := s.run(ctx, "sops", "--version"); err != nil {
		return fmt.Errorf("%w: %v", ErrSOPSNotFound, err)
	}
	return nil
}

// Encrypt runs sops --encrypt --in-place on path.
func (s *SOPS) Encrypt(ctx context.Context, path string) error {
	if err := s.run(ctx, "sops", "--encrypt", "--in-place", path); err != nil {
		return fmt.Errorf("encrypt %s: %w", path, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s lookup: %w", name, err)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s: %s: %w", name, msg, err)
	}
	return nil
}
