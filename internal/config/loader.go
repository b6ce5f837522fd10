package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames lists the configuration files looked up in a project root,
// in priority order.
var FileNames = []string{".relcommit.yaml", ".relcommit.yml", ".relcommit.json"}

// Loader reads configuration from a project's .relcommit file.
// It is thread-safe via sync.RWMutex.
type Loader struct {
	mu     sync.RWMutex
	source string
}

// NewLoader creates a new Loader instance.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration file from projectRoot and layers it on the
// selected built-in profile. profile overrides the file's profile key when
// non-empty. A missing file yields defaults; an unreadable or invalid file
// is skipped with a warning.
func (l *Loader) Load(projectRoot, profile string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.source = ""

	path, data, err := findConfigFile(filepath.Clean(projectRoot))
	if err != nil {
		slog.Warn("failed to read config, using defaults", "path", path, "error", err)
		data = nil
	}

	decode := decoderFor(path)

	name := profile
	if name == "" && data != nil {
		var head struct {
			Profile string `yaml:"profile" json:"profile"`
		}
		if err := decode(data, &head); err != nil {
			slog.Warn("invalid config file, using defaults", "path", path, "error", err)
			data = nil
		} else {
			name = head.Profile
		}
	}
	if name == "" {
		name = DefaultProfile
	}

	cfg, err := profileDefaults(name)
	if err != nil || data == nil {
		return cfg, err
	}

	if err := decode(data, cfg); err != nil {
		slog.Warn("invalid config file, using defaults", "path", path, "error", err)
		// A failed decode may have partially applied; start over.
		return profileDefaults(name)
	}
	cfg.Profile = name
	cfg.Source = path
	l.source = path
	return cfg, nil
}

// profileDefaults returns compiled defaults layered on the named profile.
func profileDefaults(name string) (*Config, error) {
	base, err := BuiltinProfile(name)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := NewDefaultConfig()
	cfg.Profile = name
	cfg.Release = base
	return cfg, nil
}

// Source returns the file used by the last Load, or "" for defaults only.
func (l *Loader) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// findConfigFile returns the first existing configuration file. A root
// without one yields ("", nil, nil).
func findConfigFile(root string) (string, []byte, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return path, nil, fmt.Errorf("read %s: %w", name, err)
		}
		return path, data, nil
	}
	return "", nil, nil
}

// decoderFor picks the decoder matching the file extension.
func decoderFor(path string) func([]byte, any) error {
	if strings.HasSuffix(path, ".json") {
		return decodeJSONC
	}
	return decodeYAML
}

func decodeYAML(data []byte, target any) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return nil
}

// decodeJSONC accepts comments and trailing commas.
func decodeJSONC(data []byte, target any) error {
	if err := json.Unmarshal(jsonc.ToJSON(data), target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}
