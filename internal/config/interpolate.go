package config

import (
	"os"
	"regexp"
	"slices"
)

// envToken matches ${process.env.NAME} and ${process.env.NAME || 'fallback'}.
var envToken = regexp.MustCompile(`\$\{\s*process\.env\.([A-Za-z_][A-Za-z0-9_]*)\s*(?:\|\|\s*'([^']*)'\s*)?\}`)

// releaseToken matches ${nextRelease.field}.
var releaseToken = regexp.MustCompile(`\$\{\s*nextRelease\.([A-Za-z]+)\s*\}`)

// versionToken matches the ${version} placeholder of tag formats.
var versionToken = regexp.MustCompile(`\$\{\s*version\s*\}`)

// NextRelease describes the release being prepared.
type NextRelease struct {
	Version string
	Notes   string
	GitTag  string
	Channel string
}

// field returns the value for a ${nextRelease.<name>} token.
func (r *NextRelease) field(name string) (string, bool) {
	switch name {
	case "version":
		return r.Version, true
	case "notes":
		return r.Notes, true
	case "gitTag":
		return r.GitTag, true
	case "channel":
		return r.Channel, true
	}
	return "", false
}

// Vars supplies values for interpolation. A nil Getenv reads the process
// environment. A nil Release leaves ${nextRelease.*} tokens in place.
type Vars struct {
	Getenv  func(string) string
	Release *NextRelease
}

// Expand replaces ${process.env.*} and ${nextRelease.*} tokens in s.
// An unset or empty variable takes the fallback, or "" without one.
// Unknown tokens and shell variables such as $HOME are kept verbatim.
func Expand(s string, vars Vars) string {
	getenv := vars.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	s = envToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := envToken.FindStringSubmatch(tok)
		if v := getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})

	if vars.Release == nil {
		return s
	}
	return releaseToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := releaseToken.FindStringSubmatch(tok)
		if v, ok := vars.Release.field(m[1]); ok {
			return v
		}
		return tok
	})
}

// Interpolate returns a copy of p with every string option expanded.
func (p Profile) Interpolate(vars Vars) Profile {
	x := func(s string) string { return Expand(s, vars) }
	xs := func(in []string) []string {
		if in == nil {
			return nil
		}
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = x(s)
		}
		return out
	}

	out := p
	out.Branches = slices.Clone(p.Branches)
	for i := range out.Branches {
		out.Branches[i].Name = x(out.Branches[i].Name)
		out.Branches[i].Channel = x(out.Branches[i].Channel)
	}
	out.RepositoryURL = x(p.RepositoryURL)
	out.Changelog.File = x(p.Changelog.File)
	out.Changelog.Title = x(p.Changelog.Title)
	out.Git.Assets = xs(p.Git.Assets)
	out.Git.Message = x(p.Git.Message)
	out.Git.PushRepo = x(p.Git.PushRepo)
	out.Git.Branch = x(p.Git.Branch)
	out.GitHub.Assets = slices.Clone(p.GitHub.Assets)
	for i := range out.GitHub.Assets {
		out.GitHub.Assets[i].Path = x(out.GitHub.Assets[i].Path)
		out.GitHub.Assets[i].Label = x(out.GitHub.Assets[i].Label)
	}
	out.GitHub.PRLabels = xs(p.GitHub.PRLabels)
	out.Exec.PrepareCmd = xs(p.Exec.PrepareCmd)
	out.Exec.PublishCmd = xs(p.Exec.PublishCmd)
	return out
}

// Tag formats version with the profile's tag format.
func (p *Profile) Tag(version string) string {
	format := p.TagFormat
	if format == "" {
		format = DefaultTagFormat
	}
	return versionToken.ReplaceAllLiteralString(format, version)
}

// TagPrefix returns the literal text before ${version} in the tag format.
func (p *Profile) TagPrefix() string {
	format := p.TagFormat
	if format == "" {
		format = DefaultTagFormat
	}
	if loc := versionToken.FindStringIndex(format); loc != nil {
		return format[:loc[0]]
	}
	return ""
}
