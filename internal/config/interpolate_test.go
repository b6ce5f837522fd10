package config

import (
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestExpand(t *testing.T) {
	t.Parallel()

	next := &NextRelease{Version: "1.2.0", Notes: "notes", GitTag: "v1.2.0"}
	tests := []struct {
		name string
		in   string
		env  map[string]string
		rel  *NextRelease
		want string
	}{
		{"fallback", "${process.env.RELEASE_BRANCH || 'release'}", nil, nil, "release"},
		{"env set", "${process.env.RELEASE_BRANCH || 'release'}", map[string]string{"RELEASE_BRANCH": "hotfix"}, nil, "hotfix"},
		{"no fallback", "x-${process.env.MISSING}-y", nil, nil, "x--y"},
		{"embedded", "release-${process.env.EPOCH_TIME || 'default'}", map[string]string{"EPOCH_TIME": "1700000000"}, nil, "release-1700000000"},
		{"release tokens", "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}", nil, next, "chore(release): 1.2.0 [skip ci]\n\nnotes"},
		{"release kept without values", "${nextRelease.version}", nil, nil, "${nextRelease.version}"},
		{"unknown release field", "${nextRelease.lastCommit}", nil, next, "${nextRelease.lastCommit}"},
		{"shell var untouched", `TWINE_USER_AGENT="$PYPI_USER_AGENT" poetry publish`, nil, next, `TWINE_USER_AGENT="$PYPI_USER_AGENT" poetry publish`},
		{"git tag", "${nextRelease.gitTag}", nil, next, "v1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Expand(tt.in, Vars{Getenv: envMap(tt.env), Release: tt.rel})
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProfileInterpolate(t *testing.T) {
	t.Parallel()

	p, _ := BuiltinProfile("default")
	out := p.Interpolate(Vars{
		Getenv:  envMap(map[string]string{"EPOCH_TIME": "42"}),
		Release: &NextRelease{Version: "2.0.0", Notes: "N"},
	})

	if out.Branches[0].Name != "release" {
		t.Errorf("branch = %q, want release", out.Branches[0].Name)
	}
	if out.Git.Branch != "release-42" {
		t.Errorf("git branch = %q, want release-42", out.Git.Branch)
	}
	want := "gh pr create --title 'chore(release): 2.0.0' --body 'This PR includes the release 2.0.0.\n\nN' --base main --head release-42"
	if out.Exec.PublishCmd[0] != want {
		t.Errorf("publish cmd = %q, want %q", out.Exec.PublishCmd[0], want)
	}
	if len(out.GitHub.PRLabels) != 1 || out.GitHub.PRLabels[0] != "release" {
		t.Errorf("pr labels = %v, want [release]", out.GitHub.PRLabels)
	}
	if p.Branches[0].Name == out.Branches[0].Name {
		t.Error("Interpolate mutated the source profile")
	}
}

func TestProfileTag(t *testing.T) {
	t.Parallel()

	p := Profile{}
	if got := p.Tag("1.0.0"); got != "v1.0.0" {
		t.Errorf("Tag() = %q, want v1.0.0", got)
	}
	if got := p.TagPrefix(); got != "v" {
		t.Errorf("TagPrefix() = %q, want v", got)
	}

	p.TagFormat = "release-${version}"
	if got := p.Tag("1.0.0"); got != "release-1.0.0" {
		t.Errorf("Tag() = %q, want release-1.0.0", got)
	}
	if got := p.TagPrefix(); got != "release-" {
		t.Errorf("TagPrefix() = %q, want release-", got)
	}
}
