package datamodel

import "unicode/utf8"

// LoadResult is the outcome of a successful Load: the validated, latest-
// schema clip, plus whether it used this implementation's exact schema
// version or a forward-compatible newer minor/patch revision.
type LoadResult struct {
	Support VersionSupport
	Clip    *Clip
}

// Load parses, validates, and — for legacy input — upgrades clip bytes
// into the latest schema.
//
// Dispatch follows §4.1: the major version is read first without a full
// decode (PeekVersion); major 0 runs the legacy deserializer, legacy
// validator, and upgrade; major 1 runs the current deserializer and
// validator directly. A major newer than CurrentVersion.Major is
// rejected with UnsupportedVersion. A minor/patch newer than
// CurrentVersion is accepted with VersionSupport Partial.
func Load(data []byte) (LoadResult, error) {
	if !utf8.Valid(data) {
		return LoadResult{}, newLoadError(InvalidEncoding, "", nil)
	}

	major, ok := PeekVersion(data)
	if !ok {
		return LoadResult{}, newLoadError(InvalidSchema, "version.major", nil)
	}

	if major > CurrentVersion.Major {
		return LoadResult{}, newLoadError(UnsupportedVersion, "version.major", nil)
	}

	if major == 0 {
		return loadV0(data)
	}
	return loadV1(data)
}

func loadV0(data []byte) (LoadResult, error) {
	legacy, err := decodeV0(data)
	if err != nil {
		return LoadResult{}, err
	}
	if err := validateV0(legacy); err != nil {
		return LoadResult{}, err
	}
	clip := upgradeV0(legacy)
	if err := validate(clip); err != nil {
		return LoadResult{}, err
	}
	return LoadResult{Support: Full, Clip: clip}, nil
}

func loadV1(data []byte) (LoadResult, error) {
	clip, err := decodeV1(data)
	if err != nil {
		return LoadResult{}, err
	}

	support, err := classifyVersion(clip.Version)
	if err != nil {
		return LoadResult{}, err
	}

	if err := validate(clip); err != nil {
		return LoadResult{}, err
	}

	return LoadResult{Support: support, Clip: clip}, nil
}
