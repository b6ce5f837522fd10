// Package cli provides the Cobra command tree and dependency injection
// wiring for relcommit. This file defines the Dependencies struct
// (Composition Root) that wires all domain modules together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/djh00t/relcommit/internal/config"
	"github.com/djh00t/relcommit/internal/git"
	"github.com/djh00t/relcommit/internal/github"
	"github.com/djh00t/relcommit/internal/pipeline"
	"github.com/djh00t/relcommit/internal/prbody"
	"github.com/djh00t/relcommit/internal/secrets"
	"github.com/djh00t/relcommit/internal/ui"
)

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated; commands reach them
// through this struct.
type Dependencies struct {
	Root      string
	Config    *config.ConfigManager
	GitHub    github.GHClient
	Subjects  prbody.SubjectSource
	History   pipeline.History
	Branch    func() (string, error)
	Encryptor secrets.Encryptor
	Theme     *ui.Theme
	Headless  *ui.HeadlessManager
	Progress  ui.Progress
	Prompt    ui.Prompt
	Logger    *slog.Logger
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	dir      string
	profile  string
	logLevel string
	noColor  bool
	yes      bool
}

// deps is the global dependencies instance, initialized by InitDependencies
// unless a test installed one through SetDeps.
var deps *Dependencies

// InitDependencies loads the configuration for the project at flags.dir
// and wires every service from it. Git history is opened lazily by
// EnsureGit because not every command runs inside a repository.
func InitDependencies(flags globalFlags, stderr io.Writer) (*Dependencies, error) {
	root := flags.dir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = cwd
	}

	mgr := config.NewConfigManager(config.WithProfile(flags.profile))
	cfg, err := mgr.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.System.LogLevel = strings.ToLower(flags.logLevel)
	}
	if flags.noColor {
		cfg.System.NoColor = true
	}

	logger, err := newLogger(cfg.System, stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	hm := ui.NewHeadlessManager()
	if cfg.System.NonInteractive {
		hm.ForceHeadless(true)
	}
	if flags.yes {
		hm.ForceHeadless(true)
		hm.SetAnswers(map[string]bool{confirmCreatePR: true})
	}
	theme := ui.NewTheme(ui.ThemeConfig{Mode: "dark", NoColor: cfg.System.NoColor})

	return &Dependencies{
		Root:      root,
		Config:    mgr,
		GitHub:    github.NewGHClient(root),
		Subjects:  git.NewCLI(root),
		Encryptor: secrets.NewSOPS(),
		Theme:     theme,
		Headless:  hm,
		Progress:  ui.NewProgress(theme, hm),
		Prompt:    ui.NewPrompt(theme, hm),
		Logger:    logger.With("module", "cli"),
	}, nil
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// EnsureGit lazily opens the repository history. Subsequent calls are
// no-ops once History is set.
func (d *Dependencies) EnsureGit() error {
	if d.History != nil {
		return nil
	}
	h, err := git.Open(d.Root)
	if err != nil {
		return err
	}
	d.History = h
	if d.Branch == nil {
		d.Branch = h.CurrentBranch
	}
	return nil
}
