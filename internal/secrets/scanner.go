package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Status describes what happened to a scanned file.
type Status string

const (
	// StatusClean means no secret was detected.
	StatusClean Status = "clean"
	// StatusEncrypted means the file already carried SOPS markers.
	StatusEncrypted Status = "encrypted"
	// StatusDetected means a secret was found and left as is (dry run).
	StatusDetected Status = "detected"
	// StatusFixed means a secret was found and the file was encrypted.
	StatusFixed Status = "fixed"
	// StatusFailed means a secret was found but encryption failed.
	StatusFailed Status = "failed"
	// StatusExcluded means the file matched an exclude pattern.
	StatusExcluded Status = "excluded"
	// StatusSkipped means the file could not be read or parsed.
	StatusSkipped Status = "skipped"
)

// FileResult is the outcome for one file.
type FileResult struct {
	File   string
	Status Status
	// Checks lists the check ids that matched.
	Checks []string
	// PublicKeyLeak is set when an encrypted file contains the public key.
	PublicKeyLeak bool
	Err           error
}

// HasSecret reports whether a secret was found in the file.
func (r FileResult) HasSecret() bool {
	return len(r.Checks) > 0
}

// Report aggregates scan results.
type Report struct {
	Check   string
	Results []FileResult
}

// Detected returns the results that contained a secret.
func (r *Report) Detected() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.HasSecret() {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) fixed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFixed {
			n++
		}
	}
	return n
}

// ShouldFail reports whether the commit should be blocked: any secret
// found, even when it was encrypted, needs the encrypted file re-staged.
func (r *Report) ShouldFail() bool {
	return len(r.Detected()) > 0
}

// Options configures a Scanner.
type Options struct {
	// Check is a check id, CheckAll, or CheckKubernetesSecret.
	Check   string
	Exclude []string
	Keys    Keys
	// DryRun reports secrets without encrypting them.
	DryRun bool
	// OnInspect, when set, is called after each file is classified.
	OnInspect func(FileResult)
}

// Scanner detects unencrypted secrets and encrypts offending files.
type Scanner struct {
	checks     []string
	kubernetes bool
	exclude    []*regexp.Regexp
	keys       Keys
	dryRun     bool
	check      string
	encryptor  Encryptor
	onInspect  func(FileResult)
	readFile   func(string) ([]byte, error)
	logger     *slog.Logger
}

// NewScanner validates opts and creates a Scanner.
func NewScanner(opts Options, enc Encryptor) (*Scanner, error) {
	check := opts.Check
	if check == "" {
		check = CheckAll
	}
	checks, err := resolveChecks(check)
	if err != nil {
		return nil, err
	}

	exclude := make([]*regexp.Regexp, 0, len(opts.Exclude))
	for _, p := range opts.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExclude, p, err)
		}
		exclude = append(exclude, re)
	}

	return &Scanner{
		checks:     checks,
		kubernetes: check == CheckKubernetesSecret,
		exclude:    exclude,
		keys:       opts.Keys,
		dryRun:     opts.DryRun,
		check:      check,
		encryptor:  enc,
		onInspect:  opts.OnInspect,
		readFile:   os.ReadFile,
		logger:     slog.Default().With("module", "secrets"),
	}, nil
}

// Scan inspects files and, unless running dry, encrypts every file that
// contains a secret. It fails before touching files when sops or the key
// pair is missing and a secret was found.
func (s *Scanner) Scan(ctx context.Context, files []string) (*Report, error) {
	report := &Report{Check: s.check}
	for _, f := range files {
		res := s.inspect(f)
		if s.onInspect != nil {
			s.onInspect(res)
		}
		report.Results = append(report.Results, res)
	}

	detected := report.Detected()
	if len(detected) == 0 || s.dryRun {
		return report, nil
	}

	if err := s.encryptor.Available(ctx); err != nil {
		return report, err
	}
	if !s.keys.Present() {
		return report, ErrKeysMissing
	}

	for i := range report.Results {
		res := &report.Results[i]
		if !res.HasSecret() {
			continue
		}
		if err := s.encryptor.Encrypt(ctx, res.File); err != nil {
			s.logger.Error("encryption failed", "file", res.File, "error", err)
			res.Status, res.Err = StatusFailed, err
			continue
		}
		res.Status = StatusFixed
	}
	return report, nil
}

// inspect classifies a single file without modifying it.
func (s *Scanner) inspect(file string) FileResult {
	res := FileResult{File: file, Status: StatusClean}
	if s.excluded(file) {
		res.Status = StatusExcluded
		return res
	}

	content, err := s.readFile(file)
	if err != nil {
		s.logger.Warn("cannot read file", "file", file, "error", err)
		res.Status, res.Err = StatusSkipped, err
		return res
	}

	if IsEncrypted(content) {
		res.Status = StatusEncrypted
		if s.keys.Public != "" && strings.Contains(string(content), s.keys.Public) {
			res.PublicKeyLeak = true
		}
		return res
	}

	if s.kubernetes {
		found, err := ContainsKubernetesSecret(content)
		if err != nil {
			s.logger.Warn("cannot parse YAML", "file", file, "error", err)
			res.Status, res.Err = StatusSkipped, err
			return res
		}
		if found {
			res.Checks = []string{CheckKubernetesSecret}
		}
	} else {
		res.Checks = Detect(content, s.checks)
	}

	if res.HasSecret() {
		res.Status = StatusDetected
	}
	return res
}

func (s *Scanner) excluded(file string) bool {
	for _, re := range s.exclude {
		if re.MatchString(file) {
			return true
		}
	}
	return false
}
