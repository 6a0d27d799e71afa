/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package version

import (
	"strconv"
	"strings"

	"github.com/semrange/semrange/core/errors"
)

// ComparisonMode selects which fields of a Version participate in
// ordering and equality.
type ComparisonMode uint8

const (
	// ModeVersion compares only the four numeric components.
	ModeVersion ComparisonMode = iota
	// ModeVersionRelease compares numerics, then release labels. This
	// is the default mode for equality and hashing.
	ModeVersionRelease
	// ModeVersionReleaseMetadata compares as ModeVersionRelease, then
	// metadata case-insensitively.
	ModeVersionReleaseMetadata
)

// ModeDefault is an alias for ModeVersionRelease.
const ModeDefault = ModeVersionRelease

// String renders the mode as a kebab-case constant.
func (m ComparisonMode) String() string {
	switch m {
	case ModeVersion:
		return "version"
	case ModeVersionRelease:
		return "version-release"
	case ModeVersionReleaseMetadata:
		return "version-release-metadata"
	default:
		return "unknown"
	}
}

// ParseComparisonMode parses the kebab-case names produced by String.
func ParseComparisonMode(s string) (ComparisonMode, error) {
	switch s {
	case "version":
		return ModeVersion, nil
	case "version-release", "default":
		return ModeVersionRelease, nil
	case "version-release-metadata":
		return ModeVersionReleaseMetadata, nil
	default:
		return 0, &errors.ParseError{Type: "ComparisonMode", Value: s}
	}
}

// Comparer is a pre-built comparer bound to a single ComparisonMode: a
// plain value parameterized by mode rather than mutable shared state.
type Comparer struct {
	Mode ComparisonMode
}

// Compare compares a against b under c.Mode.
func (c Comparer) Compare(a, b Version) int {
	return Compare(a, b, c.Mode)
}

// Equal reports whether a and b compare equal under c.Mode.
func (c Comparer) Equal(a, b Version) bool {
	return Compare(a, b, c.Mode) == 0
}

// Hash returns a hash of v that mirrors exactly the fields c.Mode
// discriminates on, so that Equal(a, b) implies Hash(a) == Hash(b).
func (c Comparer) Hash(v Version) uint64 {
	return hashVersion(v, c.Mode)
}

// Package-level pre-built comparers, one per mode. These are plain
// values, not global mutable state: Comparer holds only a ComparisonMode.
var (
	VersionComparer                 = Comparer{Mode: ModeVersion}
	VersionReleaseComparer          = Comparer{Mode: ModeVersionRelease}
	VersionReleaseMetadataComparer  = Comparer{Mode: ModeVersionReleaseMetadata}
	DefaultComparer                 = VersionReleaseComparer
)

// Compare orders a against b under mode, returning a negative number
// if a < b, zero if equal, and a positive number if a > b.
//
// Algorithm:
//  1. Compare Major, then Minor, then Patch, then Revision numerically.
//  2. If mode is ModeVersion, stop here.
//  3. A prerelease version sorts before a non-prerelease version with
//     identical numerics.
//  4. If both are prerelease, compare label-by-label: a label that
//     parses as a non-negative integer is "numeric"; two numeric
//     labels compare numerically; a numeric label sorts before a
//     non-numeric one; two non-numeric labels compare
//     case-insensitively. A shorter label list sorts before a longer
//     one when every shared label compares equal.
//  5. If mode is ModeVersionReleaseMetadata, finally compare metadata
//     case-insensitively (empty vs empty is equal).
func Compare(a, b Version, mode ComparisonMode) int {
	if d := compareInt(a.Major, b.Major); d != 0 {
		return d
	}
	if d := compareInt(a.Minor, b.Minor); d != 0 {
		return d
	}
	if d := compareInt(a.Patch, b.Patch); d != 0 {
		return d
	}
	if d := compareInt(a.Revision, b.Revision); d != 0 {
		return d
	}
	if mode == ModeVersion {
		return 0
	}

	aPre, bPre := a.IsPrerelease(), b.IsPrerelease()
	if aPre != bPre {
		if aPre {
			return -1
		}
		return 1
	}
	if aPre && bPre {
		if d := compareLabels(a.ReleaseLabels, b.ReleaseLabels); d != 0 {
			return d
		}
	}

	if mode == ModeVersionReleaseMetadata {
		return strings.Compare(strings.ToLower(a.Metadata), strings.ToLower(b.Metadata))
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareLabels implements the label-by-label rule from Compare's
// step 4, including the shorter-sorts-first rule when one list is a
// prefix of the other.
func compareLabels(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if d := compareLabel(a[i], b[i]); d != 0 {
			return d
		}
	}
	return compareInt(len(a), len(b))
}

func compareLabel(a, b string) int {
	aNum, aIsNum := asNumericLabel(a)
	bNum, bIsNum := asNumericLabel(b)
	switch {
	case aIsNum && bIsNum:
		return compareInt(aNum, bNum)
	case aIsNum && !bIsNum:
		return -1
	case !aIsNum && bIsNum:
		return 1
	default:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}

func asNumericLabel(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// hashVersion computes an FNV-1a hash over exactly the fields that
// Compare discriminates on for mode, so that two versions comparing
// equal under mode always hash equal.
func hashVersion(v Version, mode ComparisonMode) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211

	h := uint64(offset64)
	mix := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= prime64
		}
		h ^= 0xff
		h *= prime64
	}

	mix(strconv.Itoa(v.Major))
	mix(strconv.Itoa(v.Minor))
	mix(strconv.Itoa(v.Patch))
	mix(strconv.Itoa(v.Revision))

	if mode == ModeVersion {
		return h
	}

	mix(strconv.FormatBool(v.IsPrerelease()))
	if v.IsPrerelease() {
		for _, label := range v.ReleaseLabels {
			mix(strings.ToLower(label))
		}
	}

	if mode == ModeVersionReleaseMetadata {
		mix(strings.ToLower(v.Metadata))
	}
	return h
}
