package datamodel

import "github.com/tidwall/gjson"

// CurrentVersion is the latest schema version this implementation
// understands and produces.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// Version is a semantic version triple identifying the clip schema.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// VersionSupport reports whether a loaded clip used exactly the schema
// this implementation was built against, or a forward-compatible newer
// minor/patch revision.
type VersionSupport int

const (
	// Full means the clip's version matches what this implementation
	// natively produces.
	Full VersionSupport = iota
	// Partial means the clip's minor or patch version is ahead of this
	// implementation; the clip was still loaded and validated, but some
	// newer fields or semantics may not be honored.
	Partial
)

func (s VersionSupport) String() string {
	if s == Partial {
		return "PARTIAL"
	}
	return "FULL"
}

// classifyVersion compares a parsed version against CurrentVersion and decides
// whether to accept it, and with what support level, per §4.1:
// major > current is rejected, major == current with newer minor/patch
// is accepted as PARTIAL, anything else is FULL.
func classifyVersion(v Version) (VersionSupport, error) {
	if v.Major > CurrentVersion.Major {
		return Full, newLoadError(UnsupportedVersion, "version", nil)
	}
	if v.Major == CurrentVersion.Major &&
		(v.Minor > CurrentVersion.Minor ||
			(v.Minor == CurrentVersion.Minor && v.Patch > CurrentVersion.Patch)) {
		return Partial, nil
	}
	return Full, nil
}

// PeekVersion reads just the version.major field from raw clip JSON
// without decoding the rest of the document, so Load can dispatch to the
// right deserializer before paying for a full unmarshal.
func PeekVersion(data []byte) (major int, ok bool) {
	result := gjson.GetBytes(data, "version.major")
	if !result.Exists() {
		return 0, false
	}
	return int(result.Int()), true
}
