package bump

// ReleaseType names a version increment.
type ReleaseType string

// Supported release types.
const (
	Major      ReleaseType = "major"
	Minor      ReleaseType = "minor"
	Patch      ReleaseType = "patch"
	PreMajor   ReleaseType = "premajor"
	PreMinor   ReleaseType = "preminor"
	PrePatch   ReleaseType = "prepatch"
	PreRelease ReleaseType = "prerelease"
	// Next is prerelease when the current version already has a prerelease
	// component and patch otherwise.
	Next ReleaseType = "next"
	// None keeps the current version.
	None ReleaseType = "none"
)

// PrereleaseTypes are the release types that produce a prerelease version.
var PrereleaseTypes = []ReleaseType{PreMajor, PreMinor, PrePatch, PreRelease}

// ReleaseTypes lists every release type offered when prompting, in menu order.
var ReleaseTypes = []ReleaseType{PreMajor, PreMinor, PrePatch, PreRelease, Major, Minor, Patch, Next}

// IsReleaseType reports whether s names one of ReleaseTypes.
func IsReleaseType(s string) bool {
	for _, t := range ReleaseTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// IsPrerelease reports whether t produces a prerelease version.
func IsPrerelease(t ReleaseType) bool {
	for _, p := range PrereleaseTypes {
		if p == t {
			return true
		}
	}
	return false
}

// ReleaseKind selects which field of a Release is meaningful.
type ReleaseKind int

const (
	// ReleaseBump increments the current version by Release.Type.
	ReleaseBump ReleaseKind = iota
	// ReleaseVersion sets Release.Version verbatim.
	ReleaseVersion
	// ReleasePrompt asks the user through the configured Prompter.
	ReleasePrompt
)

func (k ReleaseKind) String() string {
	switch k {
	case ReleaseVersion:
		return "version"
	case ReleasePrompt:
		return "prompt"
	default:
		return "bump"
	}
}

// Release is the strategy used to produce the next version. Exactly one variant
// is active, selected by Kind.
type Release struct {
	Kind    ReleaseKind
	Type    ReleaseType // ReleaseBump
	Version string      // ReleaseVersion
	PreID   string      // ReleaseBump and ReleasePrompt
}

// ParseRelease maps a raw release argument to a Release. An empty argument or
// "prompt" selects the prompt, a release type selects a bump, and anything else
// is treated as an explicit version.
func ParseRelease(raw, preid string) Release {
	switch {
	case raw == "" || raw == "prompt":
		return Release{Kind: ReleasePrompt, PreID: preid}
	case IsReleaseType(raw):
		return Release{Kind: ReleaseBump, Type: ReleaseType(raw), PreID: preid}
	default:
		return Release{Kind: ReleaseVersion, Version: raw}
	}
}
