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

// Matcher is the closed sum type shared by *VersionComparator and
// *CompositeComparator: the unexported matcher method prevents any
// type outside this package from implementing Matcher, so a switch
// over its two concrete types is always exhaustive.
type Matcher interface {
	// Match reports whether candidate satisfies this matcher.
	Match(candidate Version) bool

	// String renders the matcher back to its textual form.
	String() string

	matcher()
}

// Compositor is the logical connective binding a CompositeComparator's
// children.
type Compositor uint8

const (
	// And requires every child to match.
	And Compositor = iota
	// Or requires at least one child to match.
	Or
)

// String renders the compositor as its infix operator spelling.
func (c Compositor) String() string {
	if c == Or {
		return "||"
	}
	return "&&"
}

// CompositeComparator is an AND/OR tree of Matchers. It implements
// Matcher itself, so composites can nest arbitrarily.
type CompositeComparator struct {
	Children   []Matcher
	Compositor Compositor
}

func (*CompositeComparator) matcher() {}

// TypeName implements model.Identifiable.
func (*CompositeComparator) TypeName() string { return "CompositeComparator" }

// IsZero reports whether c has no children.
func (c *CompositeComparator) IsZero() bool {
	return len(c.Children) == 0
}

// Validate implements model.Validatable: every child must validate. Matcher
// is a closed sum of *VersionComparator and *CompositeComparator, both of
// which implement model.Model, so the type assertion below always holds.
func (c *CompositeComparator) Validate() error {
	models := make([]model.Model, len(c.Children))
	for i, child := range c.Children {
		models[i] = child.(model.Model)
	}
	return model.ValidateAll(models)
}

// Redacted implements model.Loggable.
func (c *CompositeComparator) Redacted() string { return c.String() }

// MarshalJSON implements model.Serializable.
func (c *CompositeComparator) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "CompositeComparator", Reason: err.Error()}
	}
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON implements model.Serializable.
func (c *CompositeComparator) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return &errors.UnmarshalError{Type: "CompositeComparator", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseComposite(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "CompositeComparator", Data: data, Reason: err.Error()}
	}
	composite, ok := parsed.(*CompositeComparator)
	if !ok {
		*c = CompositeComparator{Children: []Matcher{parsed}, Compositor: And}
		return nil
	}
	*c = *composite
	return nil
}

// MarshalYAML implements model.Serializable.
func (c *CompositeComparator) MarshalYAML() (interface{}, error) {
	if err := c.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "CompositeComparator", Reason: err.Error()}
	}
	return c.String(), nil
}

// UnmarshalYAML implements model.Serializable.
func (c *CompositeComparator) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &errors.UnmarshalError{Type: "CompositeComparator", Reason: err.Error()}
	}
	var dst CompositeComparator
	if err := dst.UnmarshalJSON([]byte(strconv.Quote(s))); err != nil {
		return err
	}
	*c = dst
	return nil
}

// Match reports whether candidate satisfies c: all children for And,
// any child for Or.
func (c *CompositeComparator) Match(candidate Version) bool {
	if c.Compositor == Or {
		for _, child := range c.Children {
			if child.Match(candidate) {
				return true
			}
		}
		return false
	}
	for _, child := range c.Children {
		if !child.Match(candidate) {
			return false
		}
	}
	return true
}

// String joins children with " || " or " && ", wrapping an Or child
// nested inside an And with parentheses.
func (c *CompositeComparator) String() string {
	parts := make([]string, len(c.Children))
	for i, child := range c.Children {
		s := child.String()
		if c.Compositor == And {
			if nested, ok := child.(*CompositeComparator); ok && nested.Compositor == Or {
				s = "(" + s + ")"
			}
		}
		parts[i] = s
	}
	return strings.Join(parts, " "+c.Compositor.String()+" ")
}

// TryParseComposite attempts to parse s as a CompositeComparator tree,
// returning (nil, false) on any grammar failure.
func TryParseComposite(s string) (Matcher, bool) {
	m, err := ParseComposite(s)
	if err != nil {
		return nil, false
	}
	return m, true
}

// ParseComposite parses the full range grammar:
//
//	expr    := or-expr
//	or-expr := and-expr ( '||' and-expr )*
//	and-expr:= atom     ( '&&' atom )*
//	atom    := '(' expr ')' | range | tilde | caret | single
//
// Atoms are tried in the order: bracketed range, hyphen range, tilde,
// caret, single comparator.
func ParseComposite(s string) (Matcher, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &errors.ParseError{Type: "CompositeComparator", Value: s, Reason: "empty input"}
	}
	m, err := parseOrExpr(trimmed)
	if err != nil {
		return nil, &errors.ParseError{Type: "CompositeComparator", Value: s, Reason: err.Error()}
	}
	return m, nil
}

// Compile-time assertion that CompositeComparator implements model.Model.
var _ model.Model = (*CompositeComparator)(nil)

func parseOrExpr(s string) (Matcher, error) {
	parts := splitTopLevel(s, "||")
	if len(parts) == 1 {
		return parseAndExpr(parts[0])
	}
	children := make([]Matcher, 0, len(parts))
	for _, part := range parts {
		child, err := parseAndExpr(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &CompositeComparator{Children: children, Compositor: Or}, nil
}

func parseAndExpr(s string) (Matcher, error) {
	parts := splitTopLevel(s, "&&")
	if len(parts) == 1 {
		return parseAtom(parts[0])
	}
	children := make([]Matcher, 0, len(parts))
	for _, part := range parts {
		child, err := parseAtom(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &CompositeComparator{Children: children, Compositor: And}, nil
}

// splitTopLevel splits s on sep only at grouping depth zero, where
// both parentheses and square brackets count as grouping. If no split
// is found at depth zero and the grouping in s is unbalanced, it falls
// back to a depth-ignoring split; a separator inside balanced grouping
// is left to the nested atom.
func splitTopLevel(s string, sep string) []string {
	if parts := splitAtDepthZero(s, sep); len(parts) > 1 {
		return parts
	}
	depth, unbalanced := 0, false
	for _, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			unbalanced = unbalanced || depth < 0
		}
	}
	if strings.Contains(s, sep) && (unbalanced || depth != 0) {
		return strings.Split(s, sep)
	}
	return []string{s}
}

func splitAtDepthZero(s string, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && i+len(sep) <= len(s) && s[i:i+len(sep)] == sep {
				parts = append(parts, s[start:i])
				start = i + len(sep)
				i += len(sep) - 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseAtom(s string) (Matcher, error) {
	trimmed := strings.TrimSpace(s)
	// A parenthesized expression recurses on its interior; when the
	// interior is not an expression (e.g. "(1.0, 2.0)"), the text is
	// tried as an exclusive bracketed range below.
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		if balanced(trimmed) {
			if m, err := parseOrExpr(trimmed[1 : len(trimmed)-1]); err == nil {
				return m, nil
			}
		}
	}

	if m, ok := tryParseBracketedRange(trimmed); ok {
		return m, nil
	}
	if m, ok, err := tryParseHyphenRange(trimmed); ok || err != nil {
		return m, err
	}
	if strings.HasPrefix(trimmed, "~") {
		return parseTilde(trimmed[1:])
	}
	if strings.HasPrefix(trimmed, "^") {
		return parseCaret(trimmed[1:])
	}
	return ParseComparator(trimmed)
}

// balanced reports whether trimmed's outermost parentheses actually
// enclose the entire string (as opposed to merely starting and ending
// with parens while the first ')' closes before the string ends).
func balanced(trimmed string) bool {
	depth := 0
	for i, c := range trimmed {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(trimmed)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// tryParseBracketedRange parses "[lo,hi]" style ranges. '[' and '('
// open; ']' and ')' close; inclusive iff the matching bracket is
// square. The interior is split on the first comma; a single value
// with no comma is used for both bounds. An empty bound means
// unbounded on that side.
func tryParseBracketedRange(s string) (Matcher, bool) {
	if len(s) < 2 {
		return nil, false
	}
	open := s[0]
	if open != '[' && open != '(' {
		return nil, false
	}
	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return nil, false
	}
	lowInclusive := open == '['
	highInclusive := last == ']'
	interior := s[1 : len(s)-1]

	var lo, hi string
	if idx := strings.IndexByte(interior, ','); idx >= 0 {
		lo = strings.TrimSpace(interior[:idx])
		hi = strings.TrimSpace(interior[idx+1:])
	} else {
		lo = strings.TrimSpace(interior)
		hi = lo
	}

	var children []Matcher
	if lo != "" {
		op := OpGreaterOrEqual
		if !lowInclusive {
			op = OpGreater
		}
		ref, err := Parse(padCore(normalizeRangeBound(lo)))
		if err != nil {
			return nil, false
		}
		children = append(children, &VersionComparator{Reference: ref, Operator: op})
	}
	if hi != "" {
		op := OpLessOrEqual
		if !highInclusive {
			op = OpLess
		}
		ref, err := Parse(padCore(normalizeRangeBound(hi)))
		if err != nil {
			return nil, false
		}
		children = append(children, &VersionComparator{Reference: ref, Operator: op})
	}
	if len(children) == 0 {
		return nil, false
	}
	if len(children) == 1 {
		return children[0], true
	}
	return &CompositeComparator{Children: children, Compositor: And}, true
}

// normalizeRangeBound replaces any "x", "X", or "*" wildcard component
// in a bracketed-range bound with "0", so that a bound such as "1.0.x"
// or "2.9.*" can be fed to Parse as an ordinary floor version. The
// bracket's own inclusivity (from '[' vs '(' and ']' vs ')') then
// determines whether that floor is itself included.
func normalizeRangeBound(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		if p == "x" || p == "X" || p == "*" {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ".")
}

// tryParseHyphenRange parses "lo - hi" ranges. The preferred separator
// is " - " (space-hyphen-space); if absent, a bare '-' at the start or
// end of the value is accepted to mean a missing lower or upper bound
// respectively. A bare '-' in the middle (as in a prerelease label)
// does not trigger this path. Returns ok=false, err=nil when s is not
// a hyphen range at all, so the caller can fall through to the next
// atom kind.
func tryParseHyphenRange(s string) (Matcher, bool, error) {
	if idx := strings.Index(s, " - "); idx >= 0 {
		lo := strings.TrimSpace(s[:idx])
		hi := strings.TrimSpace(s[idx+3:])
		return buildInclusiveRange(lo, hi)
	}
	if strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "--") {
		hi := strings.TrimSpace(s[1:])
		return buildInclusiveRange("", hi)
	}
	if strings.HasSuffix(s, "-") && !strings.HasSuffix(s, "--") {
		lo := strings.TrimSpace(s[:len(s)-1])
		return buildInclusiveRange(lo, "")
	}
	return nil, false, nil
}

func buildInclusiveRange(lo, hi string) (Matcher, bool, error) {
	var children []Matcher
	if lo != "" {
		ref, err := Parse(padCore(lo))
		if err != nil {
			return nil, false, err
		}
		children = append(children, &VersionComparator{Reference: ref, Operator: OpGreaterOrEqual})
	}
	if hi != "" {
		ref, err := Parse(padCore(hi))
		if err != nil {
			return nil, false, err
		}
		children = append(children, &VersionComparator{Reference: ref, Operator: OpLessOrEqual})
	}
	if len(children) == 0 {
		return nil, false, nil
	}
	if len(children) == 1 {
		return children[0], true, nil
	}
	return &CompositeComparator{Children: children, Compositor: And}, true, nil
}

// parseTilde implements the tilde range grammar on the text following
// '~':
//
//	X            -> X.x          (Minor-float)
//	X.Y          -> X.Y.x        (Patch-float)
//	X.Y.Z        -> [X.Y.Z, X.Y.x] (intersection of >=X.Y.Z and X.Y.*)
//	X.Y.Z-pre    -> (>=X.Y.Z-pre AND <X.Y.Z) OR ~X.Y.Z
func parseTilde(rest string) (Matcher, error) {
	core, release, hasRelease := splitReleaseSuffix(rest)
	dots := strings.Count(core, ".")

	if hasRelease {
		lowRef, err := Parse(core + "-" + release)
		if err != nil {
			return nil, err
		}
		upperRef, err := Parse(padCore(core))
		if err != nil {
			return nil, err
		}
		prereleaseBranch := &CompositeComparator{
			Compositor: And,
			Children: []Matcher{
				&VersionComparator{Reference: lowRef, Operator: OpGreaterOrEqual},
				&VersionComparator{Reference: upperRef, Operator: OpLess},
			},
		}
		stableBranch, err := parseTilde(core)
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Compositor: Or, Children: []Matcher{prereleaseBranch, stableBranch}}, nil
	}

	switch dots {
	case 0:
		return ParseComparator(core + ".*")
	case 1:
		return ParseComparator(core + ".*")
	default:
		lowRef, err := Parse(padCore(core))
		if err != nil {
			return nil, err
		}
		majorMinor := strconv.Itoa(lowRef.Major) + "." + strconv.Itoa(lowRef.Minor)
		upper, err := ParseComparator(majorMinor + ".*")
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{
			Compositor: And,
			Children: []Matcher{
				&VersionComparator{Reference: lowRef, Operator: OpGreaterOrEqual},
				upper,
			},
		}, nil
	}
}

// parseCaret implements the caret range grammar on the text following
// '^', locking the leftmost non-zero component:
//
//	1.2.3   -> [1.2.3, 1.x]
//	0.2.3   -> [0.2.3, 0.2.x]
//	0.0.3   -> [0.0.3, 0.0.3.x]
//	0.0.0.R -> exact 0.0.0.R
//	X.Y.Z-pre -> (>=X.Y.Z-pre AND <X.Y.Z) OR ^X.Y.Z
func parseCaret(rest string) (Matcher, error) {
	core, release, hasRelease := splitReleaseSuffix(rest)

	if hasRelease {
		lowRef, err := Parse(core + "-" + release)
		if err != nil {
			return nil, err
		}
		upperRef, err := Parse(padCore(core))
		if err != nil {
			return nil, err
		}
		prereleaseBranch := &CompositeComparator{
			Compositor: And,
			Children: []Matcher{
				&VersionComparator{Reference: lowRef, Operator: OpGreaterOrEqual},
				&VersionComparator{Reference: upperRef, Operator: OpLess},
			},
		}
		stableBranch, err := parseCaret(core)
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Compositor: Or, Children: []Matcher{prereleaseBranch, stableBranch}}, nil
	}

	ref, err := Parse(padCore(core))
	if err != nil {
		return nil, err
	}

	low := &VersionComparator{Reference: ref, Operator: OpGreaterOrEqual}

	switch {
	case ref.Major > 0:
		upper, err := ParseComparator(strconv.Itoa(ref.Major) + ".*")
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Compositor: And, Children: []Matcher{low, upper}}, nil
	case ref.Minor > 0:
		upper, err := ParseComparator("0." + strconv.Itoa(ref.Minor) + ".*")
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Compositor: And, Children: []Matcher{low, upper}}, nil
	case ref.Patch > 0:
		upper, err := ParseComparator("0.0." + strconv.Itoa(ref.Patch) + ".*")
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Compositor: And, Children: []Matcher{low, upper}}, nil
	default:
		// 0.0.0.R (including R == 0): exact match.
		return &VersionComparator{Reference: ref, Operator: OpEqual}, nil
	}
}

// splitReleaseSuffix splits rest into its numeric core and an
// optional release-label suffix, used by tilde/caret parsing to
// detect the "X.Y.Z-pre" form. Metadata is intentionally not
// recognized here; tilde/caret inputs are not expected to carry it.
func splitReleaseSuffix(rest string) (core string, release string, hasRelease bool) {
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		return rest[:idx], rest[idx+1:], true
	}
	return rest, "", false
}
