package bump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a semantic version, tolerating surrounding whitespace and
// a leading "=" or "v" the way package managers do. Partial versions such as
// "1.2" are rejected.
func ParseVersion(s string) (*semver.Version, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "=")
	trimmed = strings.TrimLeft(trimmed, "vV")
	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return nil, &ParseError{Input: s, Err: err}
	}
	return v, nil
}

// IsValidVersion reports whether s parses with ParseVersion.
func IsValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// CleanVersion returns the canonical form of s ("v1.2.3" becomes "1.2.3").
func CleanVersion(s string) (string, error) {
	v, err := ParseVersion(s)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// version is the engine's view of a semver value. pre is never mutated in
// place; every step builds a new slice.
type version struct {
	major, minor, patch uint64
	pre                 []string
}

func fromSemver(v *semver.Version) version {
	var pre []string
	if p := v.Prerelease(); p != "" {
		pre = strings.Split(p, ".")
	}
	return version{major: v.Major(), minor: v.Minor(), patch: v.Patch(), pre: pre}
}

func (v version) String() string {
	return semver.New(v.major, v.minor, v.patch, strings.Join(v.pre, "."), "").String()
}

// NextVersion returns the version that follows current for the release type t.
// preid labels prerelease versions (e.g. "beta" in "1.3.0-beta.1").
//
// Going from a stable version straight to a prerelease starts the counter at 1
// ("1.2.3" premajor beta -> "2.0.0-beta.1"). A version that already carries a
// prerelease keeps the plain increment ("1.2.3-beta.4" premajor -> "2.0.0-beta.0").
func NextVersion(current string, t ReleaseType, preid string) (string, error) {
	parsed, err := ParseVersion(current)
	if err != nil {
		return "", err
	}
	if t == None {
		return current, nil
	}

	old := fromSemver(parsed)
	kind := t
	if kind == Next {
		if len(old.pre) > 0 {
			kind = PreRelease
		} else {
			kind = Patch
		}
	}

	next, err := increment(old, kind, preid)
	if err != nil {
		return "", err
	}

	if IsPrerelease(t) && len(old.pre) == 0 &&
		len(next.pre) == 2 && next.pre[0] == preid && next.pre[1] == "0" {
		next = version{major: next.major, minor: next.minor, patch: next.patch, pre: []string{preid, "1"}}
	}

	return next.String(), nil
}

// NextVersions computes the next version for every entry of ReleaseTypes. When
// current already has a named prerelease ("1.0.0-alpha.3") that name replaces
// preid.
func NextVersions(current, preid string) (map[ReleaseType]string, error) {
	parsed, err := ParseVersion(current)
	if err != nil {
		return nil, err
	}
	if pre := fromSemver(parsed).pre; len(pre) > 0 {
		if _, numeric := numericIdentifier(pre[0]); !numeric && pre[0] != "" {
			preid = pre[0]
		}
	}

	next := make(map[ReleaseType]string, len(ReleaseTypes))
	for _, t := range ReleaseTypes {
		v, err := NextVersion(current, t, preid)
		if err != nil {
			return nil, err
		}
		next[t] = v
	}
	return next, nil
}

func increment(v version, t ReleaseType, preid string) (version, error) {
	switch t {
	case Major:
		if v.minor != 0 || v.patch != 0 || len(v.pre) == 0 {
			v.major++
		}
		return version{major: v.major}, nil
	case Minor:
		if v.patch != 0 || len(v.pre) == 0 {
			v.minor++
		}
		return version{major: v.major, minor: v.minor}, nil
	case Patch:
		if len(v.pre) == 0 {
			v.patch++
		}
		return version{major: v.major, minor: v.minor, patch: v.patch}, nil
	case PreMajor:
		return incrementPre(version{major: v.major + 1}, preid), nil
	case PreMinor:
		return incrementPre(version{major: v.major, minor: v.minor + 1}, preid), nil
	case PrePatch:
		return incrementPre(version{major: v.major, minor: v.minor, patch: v.patch + 1}, preid), nil
	case PreRelease:
		if len(v.pre) == 0 {
			v = version{major: v.major, minor: v.minor, patch: v.patch + 1}
		}
		return incrementPre(v, preid), nil
	default:
		return version{}, fmt.Errorf("unknown release type: %s", t)
	}
}

// incrementPre bumps the right-most numeric prerelease identifier, appending a
// zero when there is none, then relabels the prerelease with preid when its
// label differs.
func incrementPre(v version, preid string) version {
	var pre []string
	if len(v.pre) == 0 {
		pre = []string{"0"}
	} else {
		pre = append([]string(nil), v.pre...)
		bumped := false
		for i := len(pre) - 1; i >= 0; i-- {
			if n, ok := numericIdentifier(pre[i]); ok {
				pre[i] = strconv.FormatUint(n+1, 10)
				bumped = true
				break
			}
		}
		if !bumped {
			pre = append(pre, "0")
		}
	}

	if preid != "" {
		if pre[0] != preid {
			pre = []string{preid, "0"}
		} else if len(pre) < 2 {
			pre = []string{preid, "0"}
		} else if _, ok := numericIdentifier(pre[1]); !ok {
			pre = []string{preid, "0"}
		}
	}

	return version{major: v.major, minor: v.minor, patch: v.patch, pre: pre}
}

func numericIdentifier(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
