package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/djh00t/relcommit/internal/commit"
	"github.com/djh00t/relcommit/internal/release"
)

// Default configuration values.
const (
	DefaultProfile       = "default"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultBaseBranch    = "main"
	DefaultRemote        = "origin"
	DefaultSummaryCmd    = "pr-summary-generate"
	DefaultContextCmd    = "pr-context-generate"
	DefaultAgePublicKey  = ".age.pub"
	DefaultAgePrivateKey = "age.agekey"
	DefaultMaxLength     = 100
	DefaultRepositoryURL = "https://github.com/djh00t/sops-pre-commit.git"
	DefaultTagFormat     = "v${version}"

	// ConventionalCommitsPreset is the preset name carried by profiles that
	// declare their own parser options.
	ConventionalCommitsPreset = "conventionalcommits"
)

// Plugin names, in the order the release pipeline runs them.
const (
	PluginCommitAnalyzer = "@semantic-release/commit-analyzer"
	PluginNotes          = "@semantic-release/release-notes-generator"
	PluginChangelog      = "@semantic-release/changelog"
	PluginGit            = "@semantic-release/git"
	PluginGitHub         = "@semantic-release/github"
	PluginExec           = "@semantic-release/exec"
)

const releaseMessage = "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}"

// profiles holds the built-in release profiles by name.
var profiles = map[string]func() Profile{
	"default":     newDefaultProfile,
	"full":        newFullProfile,
	"pre-release": newPreReleaseProfile,
	"release":     newReleaseProfile,
}

// ProfileNames returns the built-in profile names in sorted order.
func ProfileNames() []string {
	return slices.Sorted(maps.Keys(profiles))
}

// BuiltinProfile returns a fresh copy of the named built-in profile.
func BuiltinProfile(name string) (Profile, error) {
	build, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
	}
	return build(), nil
}

// NewDefaultConfig returns a Config with the default profile and all
// section defaults applied.
func NewDefaultConfig() *Config {
	return &Config{
		Profile: DefaultProfile,
		Release: newDefaultProfile(),
		System:  NewDefaultSystemConfig(),
		Lint:    NewDefaultLintConfig(),
		PRBody:  NewDefaultPRBodyConfig(),
		Secrets: NewDefaultSecretsConfig(),
	}
}

// NewDefaultSystemConfig returns a SystemConfig with default values.
func NewDefaultSystemConfig() SystemConfig {
	return SystemConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// NewDefaultLintConfig returns a LintConfig accepting every known type.
func NewDefaultLintConfig() LintConfig {
	return LintConfig{
		Types:     commit.KnownTypes(),
		MaxLength: DefaultMaxLength,
	}
}

// NewDefaultPRBodyConfig returns a PRBodyConfig with default values.
func NewDefaultPRBodyConfig() PRBodyConfig {
	return PRBodyConfig{
		BaseBranch:     DefaultBaseBranch,
		Remote:         DefaultRemote,
		SummaryCommand: DefaultSummaryCmd,
		ContextCommand: DefaultContextCmd,
	}
}

// NewDefaultSecretsConfig returns a SecretsConfig with default values.
func NewDefaultSecretsConfig() SecretsConfig {
	return SecretsConfig{
		AgePublicKeyFile:  DefaultAgePublicKey,
		AgePrivateKeyFile: DefaultAgePrivateKey,
	}
}

// conventionalParser is the emoji-aware grammar shared by the profiles
// that configure the conventionalcommits preset.
func conventionalParser() ParserOpts {
	return ParserOpts{
		HeaderPattern:        commit.DefaultHeaderPattern,
		HeaderCorrespondence: slices.Clone(commit.DefaultHeaderCorrespondence),
		NoteKeywords:         slices.Clone(commit.DefaultNoteKeywords),
	}
}

// newDefaultProfile builds a release branch per run and opens a pull
// request against main instead of pushing to a protected branch.
func newDefaultProfile() Profile {
	return Profile{
		Name:      "default",
		Branches:  []Branch{{Name: "${process.env.RELEASE_BRANCH || 'release'}"}},
		TagFormat: DefaultTagFormat,
		Plugins: []string{
			PluginCommitAnalyzer,
			PluginNotes,
			PluginChangelog,
			PluginExec,
			PluginGit,
			PluginExec,
			PluginGitHub,
			PluginExec,
		},
		Changelog: ChangelogOpts{File: "CHANGELOG.md"},
		Git: GitOpts{
			Assets:  []string{"CHANGELOG.md", "setup.py", "version.py"},
			Message: releaseMessage,
			Push:    true,
			Branch:  "release-${process.env.EPOCH_TIME || 'default'}",
		},
		GitHub: GitHubOpts{
			Assets:        []GitHubAsset{{Path: "dist/*"}},
			AddReleases:   "bottom",
			CreateRelease: true,
			PRLabels:      []string{"release"},
		},
		Exec: ExecOpts{
			PrepareCmd: []string{
				"python setup.py sdist bdist_wheel",
				"git add CHANGELOG.md setup.py version.py && git commit -m 'chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}' && git push origin release-${process.env.EPOCH_TIME || 'default'}",
			},
			PublishCmd: []string{
				"gh pr create --title 'chore(release): ${nextRelease.version}' --body 'This PR includes the release ${nextRelease.version}.\n\n${nextRelease.notes}' --base main --head release-${process.env.EPOCH_TIME || 'default'}",
			},
		},
	}
}

// newFullProfile releases straight from main with a local release commit.
func newFullProfile() Profile {
	return Profile{
		Name:      "full",
		Branches:  []Branch{{Name: "main"}},
		TagFormat: DefaultTagFormat,
		Plugins: []string{
			PluginCommitAnalyzer,
			PluginNotes,
			PluginChangelog,
			PluginGit,
			PluginGitHub,
		},
		Changelog: ChangelogOpts{File: "CHANGELOG.md"},
		Git: GitOpts{
			Assets:  []string{"CHANGELOG.md", "package.json", "package-lock.json"},
			Message: releaseMessage,
		},
		GitHub: GitHubOpts{
			SuccessComment: true,
			FailComment:    true,
			CreateRelease:  true,
		},
	}
}

// newPreReleaseProfile publishes release candidates from the rc branch to
// TestPyPI.
func newPreReleaseProfile() Profile {
	p := newPublishingProfile("pre-release")
	p.Branches = []Branch{
		{Name: "main"},
		{Name: "rc", Prerelease: true},
	}
	p.Git.Message = "ci(release-candidate): Update version to ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}"
	p.Exec.PublishCmd = []string{`TWINE_USER_AGENT="$TEST_PYPI_USER_AGENT" poetry publish --build -r testpypi`}
	return p
}

// newReleaseProfile publishes stable releases from the release branch to PyPI.
func newReleaseProfile() Profile {
	p := newPublishingProfile("release")
	p.Branches = []Branch{{Name: "release"}}
	p.Git.Message = releaseMessage
	p.Exec.PublishCmd = []string{`TWINE_USER_AGENT="$PYPI_USER_AGENT" poetry publish --build`}
	return p
}

// newPublishingProfile holds what the pre-release and release profiles share.
func newPublishingProfile(name string) Profile {
	return Profile{
		Name:          name,
		RepositoryURL: DefaultRepositoryURL,
		TagFormat:     DefaultTagFormat,
		Plugins: []string{
			PluginCommitAnalyzer,
			PluginNotes,
			PluginChangelog,
			PluginGitHub,
			PluginGit,
			PluginExec,
		},
		Preset:    ConventionalCommitsPreset,
		Changelog: ChangelogOpts{File: "CHANGELOG.md"},
		Git: GitOpts{
			Assets:   []string{"README.md", "pyproject.toml", "CHANGELOG.md"},
			PushRepo: DefaultRepositoryURL,
		},
		GitHub: GitHubOpts{
			Assets:        []GitHubAsset{{Path: "dist/**", Label: "Distribution"}},
			CreateRelease: true,
		},
		ReleaseRules: slices.Clone(release.DefaultRules),
		Parser:       conventionalParser(),
		Writer:       WriterOpts{CommitsSort: slices.Clone(commit.DefaultSortFields)},
	}
}
