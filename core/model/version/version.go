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

// Package version implements semantic-version parsing, canonical
// formatting, ordering, single-comparator matching, and composite
// range matching.
//
// Version extends SemVer 2.0.0 with an optional fourth numeric
// component (revision), to accommodate four-part version schemes
// while remaining interoperable with strict three-part SemVer via
// FromBlang/ToBlang/ValidateStrictSemVer.
package version

import (
	"fmt"
	"strconv"
	"strings"

	bsemver "github.com/blang/semver/v4"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/semrange/semrange/core/errors"
	"github.com/semrange/semrange/core/model"
)

// Version is an immutable semantic version value: a four-part numeric
// core, an ordered list of release (prerelease) labels, and opaque
// build metadata.
//
// Version is constructed either by Parse/TryParse or by struct literal
// (useful for tests and builders); construction never validates, so
// callers assembling a Version by hand SHOULD call Validate before
// relying on it.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Revision int

	// ReleaseLabels holds the dot-separated identifiers following the
	// first '-'. A non-empty slice marks the version as prerelease.
	ReleaseLabels []string

	// Metadata is the raw, dot-delimited text following the first '+'
	// after the release section (or after the core, if there is no
	// release section). Empty means no build metadata.
	Metadata string
}

// TypeName implements model.Identifiable.
func (Version) TypeName() string { return "Version" }

// IsZero reports whether v is 0.0.0 with no release labels and no
// metadata, regardless of Revision's textual presence in the original
// input.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && v.Revision == 0 &&
		len(v.ReleaseLabels) == 0 && v.Metadata == ""
}

// IsPrerelease reports whether v carries at least one release label.
func (v Version) IsPrerelease() bool {
	return len(v.ReleaseLabels) > 0
}

// metadataParts splits Metadata on '.'. Metadata is stored as a raw
// string rather than a slice so that equality and Validate don't have
// to special-case a derived field; this helper recomputes the split
// on demand for Validate. Formatting and VersionReleaseMetadata
// comparison work on the raw Metadata string.
func (v Version) metadataParts() []string {
	if v.Metadata == "" {
		return nil
	}
	return strings.Split(v.Metadata, ".")
}

// Validate implements model.Validatable.
//
// It checks that Major/Minor/Patch/Revision are non-negative, that
// every release label and metadata part is a non-empty identifier
// drawn from [0-9A-Za-z-], and that purely numeric release labels
// carry no leading zero (metadata parts are exempt from the
// leading-zero rule).
func (v Version) Validate() error {
	if v.Major < 0 {
		return &errors.ValidationError{Type: "Version", Field: "Major", Reason: "must be non-negative", Value: v.Major}
	}
	if v.Minor < 0 {
		return &errors.ValidationError{Type: "Version", Field: "Minor", Reason: "must be non-negative", Value: v.Minor}
	}
	if v.Patch < 0 {
		return &errors.ValidationError{Type: "Version", Field: "Patch", Reason: "must be non-negative", Value: v.Patch}
	}
	if v.Revision < 0 {
		return &errors.ValidationError{Type: "Version", Field: "Revision", Reason: "must be non-negative", Value: v.Revision}
	}
	for _, label := range v.ReleaseLabels {
		if err := validateASCIIIdentifier(label, true); err != nil {
			return &errors.ValidationError{Type: "Version", Field: "ReleaseLabels", Reason: err.Error(), Value: label}
		}
	}
	for _, part := range v.metadataParts() {
		if err := validateASCIIIdentifier(part, false); err != nil {
			return &errors.ValidationError{Type: "Version", Field: "Metadata", Reason: err.Error(), Value: part}
		}
	}
	return nil
}

// TryParse attempts to parse s as a Version, returning (Version{}, false)
// on any grammar violation instead of an error.
func TryParse(s string) (Version, bool) {
	v, err := Parse(s)
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// Parse parses s into a Version according to the grammar:
//
//	<version-core> [ '-' <release> ] [ '+' <metadata> ]
//	<version-core>   ::= N ('.' N){0,3}
//	<release>        ::= <id> ('.' <id>)*
//	<metadata>       ::= <id> ('.' <id>)*
//	<id>             ::= [0-9A-Za-z-]+
//
// The first '-' ends the core and begins the release section; the
// first '+' thereafter begins metadata. A single- or two-integer core
// is accepted and padded with zeros. Core and release identifiers
// forbid leading zeros (except the literal "0"); metadata identifiers
// allow them. Non-ASCII characters in release or metadata are
// rejected.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: "empty input"}
	}

	rest := trimmed
	if len(rest) > 0 && (rest[0] == 'v' || rest[0] == 'V') {
		rest = rest[1:]
	}

	core := rest
	release := ""
	metadata := ""
	hasRelease := false
	hasMetadata := false

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		core = rest[:i]
		remainder := rest[i+1:]
		hasRelease = true
		if j := strings.IndexByte(remainder, '+'); j >= 0 {
			release = remainder[:j]
			metadata = remainder[j+1:]
			hasMetadata = true
		} else {
			release = remainder
		}
	} else if i := strings.IndexByte(rest, '+'); i >= 0 {
		core = rest[:i]
		metadata = rest[i+1:]
		hasMetadata = true
	}

	coreParts := strings.Split(core, ".")
	if len(coreParts) < 1 || len(coreParts) > 4 {
		return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: "version core must have 1 to 4 dot-separated components"}
	}

	nums := make([]int, 4)
	for i, part := range coreParts {
		n, err := parseCoreComponent(part)
		if err != nil {
			return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: err.Error()}
		}
		nums[i] = n
	}

	var labels []string
	if hasRelease {
		if release == "" {
			return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: "empty release section after '-'"}
		}
		labels = strings.Split(release, ".")
		for _, label := range labels {
			if err := validateASCIIIdentifier(label, true); err != nil {
				return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: err.Error()}
			}
		}
	}

	if hasMetadata {
		if metadata == "" {
			return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: "empty metadata section after '+'"}
		}
		for _, part := range strings.Split(metadata, ".") {
			if err := validateASCIIIdentifier(part, false); err != nil {
				return Version{}, &errors.ParseError{Type: "Version", Value: s, Reason: err.Error()}
			}
		}
	}

	return Version{
		Major:         nums[0],
		Minor:         nums[1],
		Patch:         nums[2],
		Revision:      nums[3],
		ReleaseLabels: labels,
		Metadata:      metadata,
	}, nil
}

// Compile-time assertion that Version implements model.Model.
var _ model.Model = (*Version)(nil)

// MustParse parses s and panics if it does not form a valid Version,
// mirroring the MustParse convention of github.com/blang/semver/v4.
// It is intended for package-level var declarations and test fixtures,
// never for handling untrusted input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return *model.MustValidate(&v)
}

func parseCoreComponent(part string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("version core component must not be empty")
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("version core component %s is not a non-negative integer", strconv.Quote(part))
		}
	}
	if len(part) > 1 && part[0] == '0' {
		return 0, fmt.Errorf("version core component %s has a leading zero", strconv.Quote(part))
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("version core component %s is out of range", strconv.Quote(part))
	}
	return n, nil
}

// validateASCIIIdentifier enforces the <id> ::= [0-9A-Za-z-]+ grammar
// plus the ASCII-only requirement, additionally rejecting a leading
// zero on purely numeric identifiers when rejectLeadingZero is true.
func validateASCIIIdentifier(id string, rejectLeadingZero bool) error {
	if id == "" {
		return fmt.Errorf("identifier must not be empty")
	}
	numeric := true
	for _, c := range id {
		if c > 127 {
			return fmt.Errorf("identifier %s contains a non-ASCII character", strconv.Quote(id))
		}
		switch {
		case c >= '0' && c <= '9':
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-':
			numeric = false
		default:
			return fmt.Errorf("identifier %s contains an invalid character", strconv.Quote(id))
		}
	}
	if numeric && rejectLeadingZero && len(id) > 1 && id[0] == '0' {
		return fmt.Errorf("numeric identifier %s has a leading zero", strconv.Quote(id))
	}
	return nil
}

// String returns the canonical "N" formatted representation.
func (v Version) String() string {
	return v.Format("N")
}

// Redacted implements model.Loggable. Versions carry no sensitive
// data, so it is identical to String.
func (v Version) Redacted() string {
	return v.String()
}

// Format renders v according to a small mini-language: N (full
// normalized string), V (numeric core only), R (joined release
// labels), M (metadata), and x/y/z/r (major/minor/patch/revision).
// Any other rune passes through literally.
func (v Version) Format(format string) string {
	var b strings.Builder
	for _, c := range format {
		switch c {
		case 'N':
			b.WriteString(v.normalized())
		case 'V':
			b.WriteString(v.core())
		case 'R':
			b.WriteString(strings.Join(v.ReleaseLabels, "."))
		case 'M':
			b.WriteString(v.Metadata)
		case 'x':
			b.WriteString(strconv.Itoa(v.Major))
		case 'y':
			b.WriteString(strconv.Itoa(v.Minor))
		case 'z':
			b.WriteString(strconv.Itoa(v.Patch))
		case 'r':
			b.WriteString(strconv.Itoa(v.Revision))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (v Version) core() string {
	if v.Revision > 0 {
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch) + "." + strconv.Itoa(v.Revision)
	}
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

func (v Version) normalized() string {
	var b strings.Builder
	b.WriteString(v.core())
	if len(v.ReleaseLabels) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.ReleaseLabels, "."))
	}
	if v.Metadata != "" {
		b.WriteByte('+')
		b.WriteString(v.Metadata)
	}
	return b.String()
}

// MarshalJSON implements model.Serializable.
func (v Version) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "Version", Reason: err.Error()}
	}
	return []byte(strconv.Quote(v.String())), nil
}

// UnmarshalJSON implements model.Serializable.
func (v *Version) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return &errors.UnmarshalError{Type: "Version", Data: data, Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "Version", Data: data, Reason: err.Error()}
	}
	*v = parsed
	return nil
}

// MarshalYAML implements model.Serializable.
func (v Version) MarshalYAML() (interface{}, error) {
	if err := v.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "Version", Reason: err.Error()}
	}
	return v.String(), nil
}

// UnmarshalYAML implements model.Serializable.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &errors.UnmarshalError{Type: "Version", Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "Version", Data: []byte(s), Reason: err.Error()}
	}
	*v = parsed
	return nil
}

// FromBlang converts a github.com/blang/semver/v4 Version into a
// Version, preserving its three numeric components, prerelease
// identifiers, and build metadata. Revision is always 0; blang/semver
// has no fourth numeric component.
func FromBlang(bv bsemver.Version) Version {
	labels := make([]string, 0, len(bv.Pre))
	for _, p := range bv.Pre {
		labels = append(labels, p.String())
	}
	return Version{
		Major:         int(bv.Major),
		Minor:         int(bv.Minor),
		Patch:         int(bv.Patch),
		ReleaseLabels: labels,
		Metadata:      strings.Join(bv.Build, "."),
	}
}

// ToBlang converts v into a github.com/blang/semver/v4 Version. It
// fails if v.Revision is non-zero, since strict SemVer 2.0.0 has no
// fourth component, or if the round-trip through blang's parser
// rejects the rendered string.
func (v Version) ToBlang() (bsemver.Version, error) {
	if v.Revision != 0 {
		return bsemver.Version{}, &errors.ValidationError{Type: "Version", Field: "Revision", Reason: "strict SemVer has no fourth component", Value: v.Revision}
	}
	bv, err := bsemver.Parse(v.Format("x.y.z") + releaseSuffix(v) + metadataSuffix(v))
	if err != nil {
		return bsemver.Version{}, &errors.ValidationError{Type: "Version", Reason: err.Error()}
	}
	return bv, nil
}

func releaseSuffix(v Version) string {
	if len(v.ReleaseLabels) == 0 {
		return ""
	}
	return "-" + strings.Join(v.ReleaseLabels, ".")
}

func metadataSuffix(v Version) string {
	if v.Metadata == "" {
		return ""
	}
	return "+" + v.Metadata
}

// ValidateStrictSemVer reports whether v, rendered in three-part
// form, is also a conformant SemVer 2.0.0 string as judged by
// github.com/blang/semver/v4. A non-zero Revision always fails.
func (v Version) ValidateStrictSemVer() error {
	_, err := v.ToBlang()
	return err
}

// GoModuleString renders v in the canonical v-prefixed three-part
// form expected by Go module tooling (golang.org/x/mod/semver),
// e.g. "v1.2.3-rc.1". Revision is dropped, matching Go's module
// version grammar which has no fourth component.
func (v Version) GoModuleString() string {
	return "v" + v.Format("x.y.z") + releaseSuffix(v) + metadataSuffix(v)
}

// CompareGoModule compares two Go module version strings using
// golang.org/x/mod/semver.Compare, for callers already working with
// strings from `go list -m` or similar tooling rather than parsed
// Version values.
func CompareGoModule(a, b string) int {
	return semver.Compare(a, b)
}
