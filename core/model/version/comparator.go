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

	"gopkg.in/yaml.v3"

	"github.com/semrange/semrange/core/errors"
	"github.com/semrange/semrange/core/model"
)

// FloatBehavior selects how much of a VersionComparator's reference
// version is treated as a wildcard.
type FloatBehavior uint8

const (
	// FloatNone requires an exact reference match (e.g. "1.2.3").
	FloatNone FloatBehavior = iota
	// FloatMajor matches any non-prerelease version (e.g. "*").
	FloatMajor
	// FloatMinor matches any minor/patch/revision with the same major
	// (e.g. "1.*", "1.x").
	FloatMinor
	// FloatPatch matches any patch/revision with the same major.minor
	// (e.g. "1.2.*", "1.2.x").
	FloatPatch
	// FloatRevision matches any revision with the same major.minor.patch
	// (e.g. "1.2.3.*").
	FloatRevision
	// FloatPrerelease requires equal numerics and a release label that
	// starts with a given prefix (e.g. "1.2.3-alpha*", "1.2.3-*").
	FloatPrerelease
)

// String renders the behavior as a kebab-case constant.
func (f FloatBehavior) String() string {
	switch f {
	case FloatNone:
		return "none"
	case FloatMajor:
		return "major"
	case FloatMinor:
		return "minor"
	case FloatPatch:
		return "patch"
	case FloatRevision:
		return "revision"
	case FloatPrerelease:
		return "prerelease"
	default:
		return "unknown"
	}
}

// Operator is a single relational operator.
type Operator uint8

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreater
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
)

// String renders the operator using its canonical two-character (or
// one-character) spelling.
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	default:
		return "?"
	}
}

// VersionComparator matches a single candidate Version against a
// reference Version, an Operator, and a FloatBehavior. It implements
// Matcher.
type VersionComparator struct {
	Reference     Version
	Operator      Operator
	Float         FloatBehavior
	ReleasePrefix string // only meaningful when Float == FloatPrerelease
}

func (*VersionComparator) matcher() {}

// TypeName implements model.Identifiable.
func (*VersionComparator) TypeName() string { return "VersionComparator" }

// IsZero reports whether c is the zero value comparator.
func (c *VersionComparator) IsZero() bool {
	return c.Reference.IsZero() && c.Operator == OpEqual && c.Float == FloatNone && c.ReleasePrefix == ""
}

// Validate implements model.Validatable.
func (c *VersionComparator) Validate() error {
	return c.Reference.Validate()
}

// String renders the comparator back to its textual form.
func (c *VersionComparator) String() string {
	op := ""
	if c.Operator != OpEqual {
		op = c.Operator.String()
	}
	switch c.Float {
	case FloatMajor:
		return op + "*"
	case FloatMinor:
		return op + c.Reference.Format("x") + ".*"
	case FloatPatch:
		return op + c.Reference.Format("x.y") + ".*"
	case FloatRevision:
		return op + c.Reference.Format("x.y.z") + ".*"
	case FloatPrerelease:
		return op + c.Reference.Format("V") + "-" + c.ReleasePrefix + "*"
	default:
		return c.Operator.String() + c.Reference.String()
	}
}

// Redacted implements model.Loggable.
func (c *VersionComparator) Redacted() string { return c.String() }

// MarshalJSON implements model.Serializable.
func (c *VersionComparator) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "VersionComparator", Reason: err.Error()}
	}
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON implements model.Serializable.
func (c *VersionComparator) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return &errors.UnmarshalError{Type: "VersionComparator", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseComparator(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "VersionComparator", Data: data, Reason: err.Error()}
	}
	*c = *parsed
	return nil
}

// MarshalYAML implements model.Serializable.
func (c *VersionComparator) MarshalYAML() (interface{}, error) {
	if err := c.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "VersionComparator", Reason: err.Error()}
	}
	return c.String(), nil
}

// UnmarshalYAML implements model.Serializable.
func (c *VersionComparator) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &errors.UnmarshalError{Type: "VersionComparator", Reason: err.Error()}
	}
	parsed, err := ParseComparator(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "VersionComparator", Data: []byte(s), Reason: err.Error()}
	}
	*c = *parsed
	return nil
}

// TryParseComparator attempts to parse s as a VersionComparator, returning
// (nil, false) on any grammar failure.
func TryParseComparator(s string) (*VersionComparator, bool) {
	c, err := ParseComparator(s)
	if err != nil {
		return nil, false
	}
	return c, true
}

// ParseComparator parses a single comparator expression such as
// "1.2.3", ">=1.2.3", "1.*", "1.2.x", "1.2.3-alpha*", or "~/^" free
// forms are NOT accepted here (see CompositeComparator for those).
//
// Operator prefixes, tried in order: "==", "!=", "<>", ">=", "<=",
// "=", ">", "<". A trailing "+"/"-" suffix is accepted only when no
// operator prefix was found, meaning ">="/"<=" respectively. A
// leading 'v'/'V' is tolerated and discarded.
func ParseComparator(s string) (*VersionComparator, error) {
	orig := s
	rest := strings.TrimSpace(s)
	if rest == "" {
		return nil, &errors.ParseError{Type: "VersionComparator", Value: orig, Reason: "empty input"}
	}

	op, rest, hasPrefix := splitOperatorPrefix(rest)

	if !hasPrefix {
		switch {
		case strings.HasSuffix(rest, "+"):
			op = OpGreaterOrEqual
			rest = rest[:len(rest)-1]
		case strings.HasSuffix(rest, "-"):
			op = OpLessOrEqual
			rest = rest[:len(rest)-1]
		default:
			op = OpEqual
		}
	}

	rest = strings.TrimSpace(rest)
	if len(rest) > 0 && (rest[0] == 'v' || rest[0] == 'V') {
		rest = rest[1:]
	}

	if rest == "*" {
		return &VersionComparator{Float: FloatMajor, Operator: OpEqual}, nil
	}

	if idx := strings.IndexByte(rest, '-'); idx >= 0 && idx+1 < len(rest) && rest[idx+1] == '*' && idx+2 == len(rest) {
		core := rest[:idx]
		ref, err := Parse(padCore(core))
		if err != nil {
			return nil, &errors.ParseError{Type: "VersionComparator", Value: orig, Reason: err.Error()}
		}
		return &VersionComparator{Reference: ref, Operator: op, Float: FloatPrerelease, ReleasePrefix: ""}, nil
	}
	if idx := strings.Index(rest, "-"); idx >= 0 {
		// "1.2.3-alpha*" form: release prefix before trailing '*'.
		if strings.HasSuffix(rest, "*") {
			core := rest[:idx]
			prefix := rest[idx+1 : len(rest)-1]
			ref, err := Parse(padCore(core))
			if err != nil {
				return nil, &errors.ParseError{Type: "VersionComparator", Value: orig, Reason: err.Error()}
			}
			return &VersionComparator{Reference: ref, Operator: op, Float: FloatPrerelease, ReleasePrefix: prefix}, nil
		}
	}

	if strings.HasSuffix(rest, ".*") || strings.HasSuffix(rest, ".x") || strings.HasSuffix(rest, ".X") {
		core := rest[:len(rest)-2]
		dots := strings.Count(core, ".")
		ref, err := Parse(padCore(core))
		if err != nil {
			return nil, &errors.ParseError{Type: "VersionComparator", Value: orig, Reason: err.Error()}
		}
		switch dots {
		case 0:
			return &VersionComparator{Reference: ref, Operator: op, Float: FloatMinor}, nil
		case 1:
			return &VersionComparator{Reference: ref, Operator: op, Float: FloatPatch}, nil
		case 2:
			return &VersionComparator{Reference: ref, Operator: op, Float: FloatRevision}, nil
		}
	}

	ref, err := Parse(rest)
	if err != nil {
		return nil, &errors.ParseError{Type: "VersionComparator", Value: orig, Reason: err.Error()}
	}
	return &VersionComparator{Reference: ref, Operator: op, Float: FloatNone}, nil
}

// Compile-time assertion that VersionComparator implements model.Model.
var _ model.Model = (*VersionComparator)(nil)

// padCore pads a bare numeric core (e.g. "1" or "1.2") with trailing
// ".0" components so it parses as a full version, mirroring the
// single-integer-core padding rule used by Version's own grammar.
func padCore(core string) string {
	dots := strings.Count(core, ".")
	for dots < 2 {
		core += ".0"
		dots++
	}
	return core
}

// splitOperatorPrefix tries each accepted operator prefix in order
// and returns the matched Operator, the remaining text, and whether a
// prefix was found.
func splitOperatorPrefix(s string) (Operator, string, bool) {
	type prefixOp struct {
		prefix string
		op     Operator
	}
	prefixes := []prefixOp{
		{"==", OpEqual},
		{"!=", OpNotEqual},
		{"<>", OpNotEqual},
		{">=", OpGreaterOrEqual},
		{"<=", OpLessOrEqual},
		{"=", OpEqual},
		{">", OpGreater},
		{"<", OpLess},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.prefix) {
			return p.op, s[len(p.prefix):], true
		}
	}
	return OpEqual, s, false
}

// Match reports whether candidate satisfies c.
//
// A signed `result` is computed by comparing the candidate against
// the reference under a mode chosen by the float behavior, then the
// operator is applied to that result. The sign convention
// deliberately differs between the FloatNone branch and every other
// branch: FloatNone computes Compare(reference, candidate) while all
// other branches compute Compare(candidate, reference). Both apply
// the identical six-operator mapping below. This asymmetry is
// intentional and pinned by TestVersionComparator_SignConvention; do
// not "fix" it.
func (c *VersionComparator) Match(candidate Version) bool {
	var result int
	switch c.Float {
	case FloatNone:
		result = Compare(c.Reference, candidate, ModeVersionRelease)
	case FloatPrerelease:
		result = matchPrereleaseResult(c, candidate)
		if result == matchFail {
			return false
		}
	case FloatRevision:
		// major/minor/patch equal, ignoring revision.
		if candidate.IsPrerelease() {
			return false
		}
		result = compareTriple(candidate, c.Reference, 2)
	case FloatPatch:
		// major/minor equal.
		if candidate.IsPrerelease() {
			return false
		}
		result = compareTriple(candidate, c.Reference, 1)
	case FloatMinor:
		// major equal.
		if candidate.IsPrerelease() {
			return false
		}
		result = compareTriple(candidate, c.Reference, 0)
	case FloatMajor:
		if candidate.IsPrerelease() {
			return false
		}
		result = 0
	}
	return applyOperator(c.Operator, result)
}

// matchFail is a sentinel returned by matchPrereleaseResult to signal
// an unconditional non-match (the candidate fails regardless of
// operator), distinct from any genuine comparison outcome.
const matchFail = 1 << 30

// matchPrereleaseResult implements the FloatPrerelease branch: compare
// (major, minor, patch, revision) first; if they differ, that
// comparison is the `result`. Otherwise a non-prerelease candidate
// fails unconditionally, and a prerelease candidate passes if its
// label list starts with ReleasePrefix case-insensitively (forcing
// result to 0), else result is the case-insensitive ordinal compare
// of the prefix against the candidate's full release string.
func matchPrereleaseResult(c *VersionComparator, candidate Version) int {
	if d := compareTriple(candidate, c.Reference, 3); d != 0 {
		return d
	}
	if !candidate.IsPrerelease() {
		return matchFail
	}
	release := strings.Join(candidate.ReleaseLabels, ".")
	if len(release) >= len(c.ReleasePrefix) &&
		strings.EqualFold(release[:len(c.ReleasePrefix)], c.ReleasePrefix) {
		return 0
	}
	return strings.Compare(strings.ToLower(c.ReleasePrefix), strings.ToLower(release))
}

// compareTriple compares a and b's numeric components up to and
// including index depth (0=major, 1=minor, 2=patch, 3=revision),
// numerically, returning the first non-zero difference.
func compareTriple(a, b Version, depth int) int {
	av := [4]int{a.Major, a.Minor, a.Patch, a.Revision}
	bv := [4]int{b.Major, b.Minor, b.Patch, b.Revision}
	for i := 0; i <= depth; i++ {
		if d := compareInt(av[i], bv[i]); d != 0 {
			return d
		}
	}
	return 0
}

// applyOperator maps a signed comparison result to a boolean under
// op. The mapping is identical regardless of which side of the
// comparison produced result; see Match's doc comment for the
// sign-convention caveat that governs which side that is.
func applyOperator(op Operator, result int) bool {
	switch op {
	case OpEqual:
		return result == 0
	case OpNotEqual:
		return result != 0
	case OpGreater:
		return result < 0
	case OpGreaterOrEqual:
		return result <= 0
	case OpLess:
		return result > 0
	case OpLessOrEqual:
		return result >= 0
	default:
		return false
	}
}
