package release

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// InitialVersion is the first version released when no prior tag exists.
const InitialVersion = "1.0.0"

// Version is a parsed MAJOR.MINOR.PATCH[-channel.N] version.
type Version struct {
	Major, Minor, Patch int
	Channel             string
	PreNumber           int
}

// ParseVersion parses a semantic version with an optional "v" prefix.
// Build metadata is discarded.
func ParseVersion(s string) (Version, error) {
	canonical := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(canonical) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	canonical = semver.Canonical(canonical)

	core := strings.TrimPrefix(canonical, "v")
	pre := strings.TrimPrefix(semver.Prerelease(canonical), "-")
	core = strings.TrimSuffix(core, semver.Prerelease(canonical))

	parts := strings.SplitN(core, ".", 3)
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
	if pre != "" {
		// The first identifier names the channel and the last numeric
		// one is the counter, so "rc.1.2" is channel rc, number 2.
		ids := strings.Split(pre, ".")
		v.Channel = ids[0]
		for _, id := range slices.Backward(ids[1:]) {
			if n, err := strconv.Atoi(id); err == nil {
				v.PreNumber = n
				break
			}
		}
	}
	return v, nil
}

// String formats the version without a "v" prefix.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Channel != "" {
		s += fmt.Sprintf("-%s.%d", v.Channel, v.PreNumber)
	}
	return s
}

// IsPrerelease reports whether the version carries a prerelease channel.
func (v Version) IsPrerelease() bool {
	return v.Channel != ""
}

// bump increments the core version by t and clears any prerelease.
func (v Version) bump(t Type) Version {
	out := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	switch t {
	case Major:
		out = Version{Major: v.Major + 1}
	case Minor:
		out = Version{Major: v.Major, Minor: v.Minor + 1}
	case Patch:
		out.Patch++
	}
	return out
}

// coversBump reports whether a prerelease core already includes a bump of
// level t, so the prerelease can be continued or promoted without
// incrementing the core again.
func (v Version) coversBump(t Type) bool {
	switch t {
	case Major:
		return v.Minor == 0 && v.Patch == 0
	case Minor:
		return v.Patch == 0
	default:
		return true
	}
}

// Next computes the version that follows last for a bump of type t on the
// given prerelease channel ("" for a regular release). An empty last
// yields InitialVersion. None returns ErrNoRelease.
func Next(last string, t Type, channel string) (string, error) {
	if t == None {
		return "", ErrNoRelease
	}

	if strings.TrimSpace(last) == "" {
		v, _ := ParseVersion(InitialVersion)
		if channel != "" {
			v.Channel, v.PreNumber = channel, 1
		}
		return v.String(), nil
	}

	prev, err := ParseVersion(last)
	if err != nil {
		return "", err
	}

	var next Version
	switch {
	case prev.IsPrerelease() && prev.coversBump(t):
		next = Version{Major: prev.Major, Minor: prev.Minor, Patch: prev.Patch}
		if channel != "" {
			next.Channel = channel
			next.PreNumber = 1
			if channel == prev.Channel {
				next.PreNumber = prev.PreNumber + 1
			}
		}
	default:
		next = prev.bump(t)
		if channel != "" {
			next.Channel, next.PreNumber = channel, 1
		}
	}
	return next.String(), nil
}

// Compare orders two versions; it returns -1, 0 or +1. Invalid versions
// sort before valid ones.
func Compare(a, b string) int {
	return semver.Compare("v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v"))
}
