package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Keys holds the age key pair SOPS encrypts with.
type Keys struct {
	Public  string
	Private string
}

// Present reports whether both halves of the key pair were found.
func (k Keys) Present() bool {
	return k.Public != "" && k.Private != ""
}

// LoadKeys reads the public key file and the second line of the private
// key file (the first is the creation comment). Paths are relative to
// root. Missing files yield empty keys.
func LoadKeys(root, publicFile, privateFile string) (Keys, error) {
	pub, err := readKeyFile(resolve(root, publicFile), -1)
	if err != nil {
		return Keys{}, err
	}
	priv, err := readKeyFile(resolve(root, privateFile), 1)
	if err != nil {
		return Keys{}, err
	}
	return Keys{Public: pub, Private: priv}, nil
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// readKeyFile returns the trimmed file content, or only line n when n >= 0.
func readKeyFile(path string, n int) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}
	if n < 0 {
		return strings.TrimSpace(string(data)), nil
	}
	lines := strings.Split(string(data), "\n")
	if n >= len(lines) {
		return "", nil
	}
	return strings.TrimSpace(lines[n]), nil
}
