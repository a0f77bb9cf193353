package changelog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the layout used for release dates.
const DateFormat = "2006-01-02"

var versionPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)

// VersionNumber is a major.minor.patch triple. Pre-release and build
// metadata are not supported.
type VersionNumber struct {
	Major int
	Minor int
	Patch int
}

// String formats the version as "major.minor.patch".
func (v VersionNumber) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major.minor.patch". Anything else, including a "v",
// leading zeros or a pre-release suffix, is a VersionFormatError.
func ParseVersion(s string) (VersionNumber, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return VersionNumber{}, &VersionFormatError{Input: s}
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return VersionNumber{}, &VersionFormatError{Input: s}
		}
		parts[i] = n
	}

	return VersionNumber{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// ParseTagVersion strips prefix (e.g. "v") from a tag name and parses the rest.
func ParseTagVersion(tag, prefix string) (VersionNumber, error) {
	v, err := ParseVersion(strings.TrimPrefix(tag, prefix))
	if err != nil {
		return VersionNumber{}, &VersionFormatError{Input: tag}
	}
	return v, nil
}

// BumpLevel is the severity of a version increment.
type BumpLevel int

const (
	Patch BumpLevel = iota + 1
	Minor
	Major
)

// String returns the bump level name.
func (b BumpLevel) String() string {
	switch b {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return fmt.Sprintf("BumpLevel(%d)", int(b))
	}
}

// Labels holds the release type label shown for each bump level.
type Labels struct {
	Major string
	Minor string
	Patch string
}

// DefaultLabels returns the built-in release type labels.
func DefaultLabels() Labels {
	return Labels{Major: "Major", Minor: "Feature", Patch: "Maintenance"}
}

// For returns the label for a bump level.
func (l Labels) For(b BumpLevel) string {
	switch b {
	case Major:
		return l.Major
	case Minor:
		return l.Minor
	default:
		return l.Patch
	}
}

// ReleaseDescriptor is the computed metadata for the next release.
type ReleaseDescriptor struct {
	Version   VersionNumber
	Bump      BumpLevel
	Type      string
	Recommend bool
	Date      time.Time
}

// DateString returns the release date formatted as YYYY-MM-DD.
func (r ReleaseDescriptor) DateString() string {
	return r.Date.Format(DateFormat)
}

// ComputeBump returns the highest bump level the present categories call for.
// Ignored and Unclassified count as Patch, so any non-empty set yields at
// least Patch. Calling it with an empty set is a programming error and panics.
func ComputeBump(set ChangeSet) BumpLevel {
	switch {
	case set.HasAny(Changed, Removed):
		return Major
	case set.HasAny(Added, Deprecated):
		return Minor
	case set.HasAny(Fixed, Security, Unclassified, Ignored):
		return Patch
	default:
		panic(errUnreachableBump)
	}
}

// ComputeVersion increments previous (0.0.0 when nil) by bump, resetting the
// lower fields.
func ComputeVersion(previous *VersionNumber, bump BumpLevel) VersionNumber {
	var v VersionNumber
	if previous != nil {
		v = *previous
	}

	switch bump {
	case Major:
		return VersionNumber{Major: v.Major + 1}
	case Minor:
		return VersionNumber{Major: v.Major, Minor: v.Minor + 1}
	default:
		return VersionNumber{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// Recommend reports whether an upgrade should be recommended, which is the
// case whenever a security change is present regardless of bump level.
func Recommend(set ChangeSet) bool {
	return set.Has(Security)
}

// Describe computes the release descriptor for a non-empty change set.
func Describe(set ChangeSet, previous *VersionNumber, labels Labels, date time.Time) ReleaseDescriptor {
	bump := ComputeBump(set)
	return ReleaseDescriptor{
		Version:   ComputeVersion(previous, bump),
		Bump:      bump,
		Type:      labels.For(bump),
		Recommend: Recommend(set),
		Date:      date,
	}
}
