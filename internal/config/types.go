package config

import (
	"slices"

	"github.com/djh00t/relcommit/internal/commit"
	"github.com/djh00t/relcommit/internal/release"
)

// Config is the root configuration aggregate containing all sections.
type Config struct {
	// Profile names the built-in release profile the release section
	// is layered on.
	Profile string        `yaml:"profile" json:"profile"`
	Release Profile       `yaml:"release" json:"release"`
	System  SystemConfig  `yaml:"system" json:"system"`
	Lint    LintConfig    `yaml:"lint" json:"lint"`
	PRBody  PRBodyConfig  `yaml:"pr_body" json:"pr_body"`
	Secrets SecretsConfig `yaml:"secrets" json:"secrets"`

	// Source is the file the configuration was read from, empty when
	// only defaults apply.
	Source string `yaml:"-" json:"-"`
}

// SystemConfig represents the system configuration section.
type SystemConfig struct {
	LogLevel       string `yaml:"log_level" json:"log_level"`
	LogFormat      string `yaml:"log_format" json:"log_format"`
	NoColor        bool   `yaml:"no_color" json:"no_color"`
	NonInteractive bool   `yaml:"non_interactive" json:"non_interactive"`
}

// LintConfig configures commit message linting.
type LintConfig struct {
	Types     []string `yaml:"types" json:"types"`
	Scopes    []string `yaml:"scopes" json:"scopes"`
	MaxLength int      `yaml:"max_length" json:"max_length"`
}

// PRBodyConfig configures pull request body generation.
type PRBodyConfig struct {
	// Template is an optional path to a text/template file replacing the
	// built-in body layout.
	Template       string `yaml:"template" json:"template"`
	BaseBranch     string `yaml:"base_branch" json:"base_branch"`
	Remote         string `yaml:"remote" json:"remote"`
	SummaryCommand string `yaml:"summary_command" json:"summary_command"`
	ContextCommand string `yaml:"context_command" json:"context_command"`
}

// SecretsConfig configures the secret scanner.
type SecretsConfig struct {
	Exclude           []string `yaml:"exclude" json:"exclude"`
	AgePublicKeyFile  string   `yaml:"age_public_key_file" json:"age_public_key_file"`
	AgePrivateKeyFile string   `yaml:"age_private_key_file" json:"age_private_key_file"`
}

// Profile mirrors one release configuration: branch strategy, plugin
// order, commit parsing rules and the options handed to each release
// stage. Values containing ${...} tokens are interpolated at use.
type Profile struct {
	Name          string         `yaml:"name" json:"name"`
	Branches      []Branch       `yaml:"branches" json:"branches"`
	RepositoryURL string         `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
	TagFormat     string         `yaml:"tag_format" json:"tag_format"`
	Plugins       []string       `yaml:"plugins" json:"plugins"`
	Preset        string         `yaml:"preset,omitempty" json:"preset,omitempty"`
	Changelog     ChangelogOpts  `yaml:"changelog" json:"changelog"`
	Git           GitOpts        `yaml:"git" json:"git"`
	GitHub        GitHubOpts     `yaml:"github" json:"github"`
	Exec          ExecOpts       `yaml:"exec" json:"exec"`
	ReleaseRules  []release.Rule `yaml:"release_rules,omitempty" json:"release_rules,omitempty"`
	Parser        ParserOpts     `yaml:"parser" json:"parser"`
	Writer        WriterOpts     `yaml:"writer" json:"writer"`
}

// Branch is a release branch. Prerelease branches publish versions with
// a channel suffix, e.g. 1.2.0-rc.1.
type Branch struct {
	Name       string `yaml:"name" json:"name"`
	Prerelease bool   `yaml:"prerelease,omitempty" json:"prerelease,omitempty"`
	// Channel overrides the prerelease identifier; defaults to Name.
	Channel string `yaml:"channel,omitempty" json:"channel,omitempty"`
}

// PrereleaseChannel returns the identifier appended to versions released
// from this branch, or "" for regular branches.
func (b Branch) PrereleaseChannel() string {
	if !b.Prerelease {
		return ""
	}
	if b.Channel != "" {
		return b.Channel
	}
	return b.Name
}

// ChangelogOpts configures the changelog file.
type ChangelogOpts struct {
	File  string `yaml:"file" json:"file"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// GitOpts configures the release commit.
type GitOpts struct {
	Assets   []string `yaml:"assets" json:"assets"`
	Message  string   `yaml:"message" json:"message"`
	Push     bool     `yaml:"push" json:"push"`
	PushRepo string   `yaml:"push_repo,omitempty" json:"push_repo,omitempty"`
	Branch   string   `yaml:"branch,omitempty" json:"branch,omitempty"`
}

// GitHubAsset is a file glob uploaded to a GitHub release.
type GitHubAsset struct {
	Path  string `yaml:"path" json:"path"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// GitHubOpts configures the GitHub release stage.
type GitHubOpts struct {
	Assets         []GitHubAsset `yaml:"assets,omitempty" json:"assets,omitempty"`
	SuccessComment bool          `yaml:"success_comment" json:"success_comment"`
	FailComment    bool          `yaml:"fail_comment" json:"fail_comment"`
	AddReleases    string        `yaml:"add_releases,omitempty" json:"add_releases,omitempty"`
	CreateRelease  bool          `yaml:"create_release" json:"create_release"`
	// PRLabels are applied to release pull requests.
	PRLabels []string `yaml:"pr_labels,omitempty" json:"pr_labels,omitempty"`
}

// ExecOpts holds shell commands run by the exec stage, in plugin order.
// They are carried verbatim and only interpolated.
type ExecOpts struct {
	PrepareCmd []string `yaml:"prepare_cmd,omitempty" json:"prepare_cmd,omitempty"`
	PublishCmd []string `yaml:"publish_cmd,omitempty" json:"publish_cmd,omitempty"`
}

// ParserOpts configures commit header parsing.
type ParserOpts struct {
	HeaderPattern        string   `yaml:"header_pattern,omitempty" json:"header_pattern,omitempty"`
	HeaderCorrespondence []string `yaml:"header_correspondence,omitempty" json:"header_correspondence,omitempty"`
	NoteKeywords         []string `yaml:"note_keywords,omitempty" json:"note_keywords,omitempty"`
}

// WriterOpts configures release-notes rendering.
type WriterOpts struct {
	CommitsSort []string `yaml:"commits_sort,omitempty" json:"commits_sort,omitempty"`
}

// Rules compiles the profile's release rules, falling back to
// release.DefaultRules when the profile declares none.
func (p *Profile) Rules() (*release.Rules, error) {
	if len(p.ReleaseRules) == 0 {
		return release.Default(), nil
	}
	return release.NewRules(p.ReleaseRules)
}

// CommitParser compiles the profile's header grammar.
func (p *Profile) CommitParser() (*commit.Parser, error) {
	return commit.NewParser(commit.Options{
		HeaderPattern:        p.Parser.HeaderPattern,
		HeaderCorrespondence: p.Parser.HeaderCorrespondence,
		NoteKeywords:         p.Parser.NoteKeywords,
	})
}

// SortFields returns the writer's sort order, defaulting to subject, scope.
func (p *Profile) SortFields() []string {
	if len(p.Writer.CommitsSort) == 0 {
		return commit.DefaultSortFields
	}
	return p.Writer.CommitsSort
}

// BranchFor returns the release branch with the given name.
func (p *Profile) BranchFor(name string) (Branch, bool) {
	for _, b := range p.Branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}

// HasPlugin reports whether the named plugin is part of the pipeline.
func (p *Profile) HasPlugin(name string) bool {
	return slices.Contains(p.Plugins, name)
}

// sectionNames lists all valid configuration section names.
var sectionNames = []string{"profile", "release", "system", "lint", "pr_body", "secrets"}

// IsValidSectionName checks if the given name is a valid section name.
func IsValidSectionName(name string) bool {
	return slices.Contains(sectionNames, name)
}

// ValidSectionNames returns all valid section names.
func ValidSectionNames() []string {
	return slices.Clone(sectionNames)
}
