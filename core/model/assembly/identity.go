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

// Package assembly implements assembly identity parsing, formatting,
// and comparison, modeled on the four-part textual identity form
// ("Name, Version=..., Culture=..., PublicKeyToken=...,
// processorArchitecture=...").
package assembly

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/semrange/semrange/core/errors"
	"github.com/semrange/semrange/core/model"
	"github.com/semrange/semrange/core/model/version"
)

// Architecture identifies the processor architecture an assembly
// targets.
type Architecture uint8

const (
	ArchNone Architecture = iota
	ArchMSIL
	ArchX86
	ArchIA64
	ArchAmd64
	ArchArm
)

// String renders the architecture using its enum name (e.g. "Amd64");
// Format upper-cases it.
func (a Architecture) String() string {
	switch a {
	case ArchNone:
		return "None"
	case ArchMSIL:
		return "MSIL"
	case ArchX86:
		return "X86"
	case ArchIA64:
		return "IA64"
	case ArchAmd64:
		return "Amd64"
	case ArchArm:
		return "Arm"
	default:
		return "None"
	}
}

// ParseArchitecture parses s case-insensitively against the
// architecture enum. Empty means ArchNone.
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ArchNone, nil
	case "none":
		return ArchNone, nil
	case "msil":
		return ArchMSIL, nil
	case "x86":
		return ArchX86, nil
	case "ia64":
		return ArchIA64, nil
	case "amd64":
		return ArchAmd64, nil
	case "arm":
		return ArchArm, nil
	default:
		return 0, &errors.ParseError{Type: "Architecture", Value: s}
	}
}

// PublicKeyToken is the fixed 8-byte token identifying the signing
// public key, or absent entirely (the literal "null").
type PublicKeyToken struct {
	bytes   [8]byte
	present bool
}

// NewPublicKeyToken wraps a present 8-byte token.
func NewPublicKeyToken(b [8]byte) PublicKeyToken {
	return PublicKeyToken{bytes: b, present: true}
}

// Present reports whether a token is set.
func (t PublicKeyToken) Present() bool { return t.present }

// Bytes returns the 8 raw bytes. Only meaningful when Present().
func (t PublicKeyToken) Bytes() [8]byte { return t.bytes }

// String renders the token as 16 upper-case hex digits, or "null"
// when absent.
func (t PublicKeyToken) String() string {
	if !t.present {
		return "null"
	}
	return strings.ToUpper(hex.EncodeToString(t.bytes[:]))
}

// ParsePublicKeyToken parses the literal "null" (case-insensitive) as
// an absent token, or exactly 16 hex digits decoded to 8 bytes.
func ParsePublicKeyToken(s string) (PublicKeyToken, error) {
	if strings.EqualFold(s, "null") {
		return PublicKeyToken{}, nil
	}
	if len(s) != 16 {
		return PublicKeyToken{}, &errors.ParseError{Type: "PublicKeyToken", Value: s, Reason: "must be exactly 16 hex digits or \"null\""}
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return PublicKeyToken{}, &errors.ParseError{Type: "PublicKeyToken", Value: s, Reason: err.Error()}
	}
	var out [8]byte
	copy(out[:], decoded)
	return PublicKeyToken{bytes: out, present: true}, nil
}

// AssemblyIdentity is an immutable value identifying an assembly by
// short name plus optional version, culture, public key token, and
// processor architecture.
type AssemblyIdentity struct {
	ShortName      string
	Version        *version.Version
	Culture        *language.Tag
	PublicKeyToken PublicKeyToken
	Architecture   Architecture
}

// TypeName implements model.Identifiable.
func (AssemblyIdentity) TypeName() string { return "AssemblyIdentity" }

// IsZero reports whether a is the zero value identity.
func (a AssemblyIdentity) IsZero() bool {
	return a.ShortName == "" && a.Version == nil && a.Culture == nil &&
		!a.PublicKeyToken.Present() && a.Architecture == ArchNone
}

// Validate implements model.Validatable.
func (a AssemblyIdentity) Validate() error {
	if a.ShortName == "" {
		return &errors.ValidationError{Type: "AssemblyIdentity", Field: "ShortName", Reason: "must not be empty"}
	}
	if a.Version != nil {
		if err := a.Version.Validate(); err != nil {
			return &errors.ValidationError{Type: "AssemblyIdentity", Field: "Version", Reason: err.Error()}
		}
	}
	return nil
}

// Redacted implements model.Loggable. Assembly identities carry no
// sensitive data.
func (a AssemblyIdentity) Redacted() string { return a.String() }

// String implements model.Loggable and model.Serializable's textual
// form; it is an alias for Format.
func (a AssemblyIdentity) String() string { return a.Format() }

// TryParse attempts to parse s as an AssemblyIdentity, returning
// (AssemblyIdentity{}, false) on any grammar failure.
func TryParse(s string) (AssemblyIdentity, bool) {
	a, err := Parse(s)
	if err != nil {
		return AssemblyIdentity{}, false
	}
	return a, true
}

// Parse parses the grammar:
//
//	identity := short-name ( ',' kv )*
//	kv       := key '=' value
//	key      := 'Version' | 'Culture' | 'PublicKeyToken' | 'processorArchitecture'
//
// Keys are matched case-insensitively; unknown keys are a parse
// failure. short-name is the first comma-separated token (it must not
// itself contain '=') and is required to be non-empty.
func Parse(s string) (AssemblyIdentity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "empty input"}
	}

	segments := strings.Split(trimmed, ",")
	shortName := strings.TrimSpace(segments[0])
	if shortName == "" {
		return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "short name must not be empty"}
	}
	if strings.Contains(shortName, "=") {
		return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "short name must not contain '='"}
	}

	out := AssemblyIdentity{ShortName: shortName}

	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		idx := strings.IndexByte(seg, '=')
		if idx < 0 {
			return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "malformed key=value pair: " + strconv.Quote(seg)}
		}
		key := strings.TrimSpace(seg[:idx])
		value := strings.TrimSpace(seg[idx+1:])

		switch strings.ToLower(key) {
		case "version":
			v, err := version.Parse(value)
			if err != nil {
				return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: err.Error()}
			}
			out.Version = &v
		case "culture":
			if strings.EqualFold(value, "neutral") {
				out.Culture = nil
				continue
			}
			tag, err := language.Parse(value)
			if err != nil {
				return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "invalid culture tag: " + err.Error()}
			}
			out.Culture = &tag
		case "publickeytoken":
			token, err := ParsePublicKeyToken(value)
			if err != nil {
				return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: err.Error()}
			}
			out.PublicKeyToken = token
		case "processorarchitecture":
			arch, err := ParseArchitecture(value)
			if err != nil {
				return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: err.Error()}
			}
			out.Architecture = arch
		default:
			return AssemblyIdentity{}, &errors.ParseError{Type: "AssemblyIdentity", Value: s, Reason: "unknown key: " + strconv.Quote(key)}
		}
	}

	return out, nil
}

// Compile-time assertion that AssemblyIdentity implements model.Model.
var _ model.Model = (*AssemblyIdentity)(nil)

// Compile-time assertion that AssemblyIdentity implements model.Cloneable.
var _ model.Cloneable[AssemblyIdentity] = AssemblyIdentity{}

// MustParse parses s and panics if it does not form a valid
// AssemblyIdentity, intended for package-level var declarations and
// test fixtures, never for handling untrusted input.
func MustParse(s string) AssemblyIdentity {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return *model.MustValidate(&a)
}

// Clone implements model.Cloneable[AssemblyIdentity]. It round-trips a
// through JSON so that the With* builders below never share the
// *Version or *language.Tag pointers of the receiver with the copy
// they return. Because Format omits Culture when neither Version nor
// PublicKeyToken is set, and renders Version as its numeric core only,
// Version and Culture are copied directly rather than taken from the
// round trip. If a fails to marshal (only possible if a is itself
// invalid), Clone falls back to returning a unchanged.
func (a AssemblyIdentity) Clone() AssemblyIdentity {
	cloned, err := model.Clone[*AssemblyIdentity](&a)
	if err != nil {
		return a
	}
	cloned.Version, cloned.Culture = nil, nil
	if a.Version != nil {
		v := *a.Version
		v.ReleaseLabels = append([]string(nil), a.Version.ReleaseLabels...)
		cloned.Version = &v
	}
	if a.Culture != nil {
		tag := *a.Culture
		cloned.Culture = &tag
	}
	return *cloned
}

// WithVersion returns a copy of a with Version set to v.
func (a AssemblyIdentity) WithVersion(v version.Version) AssemblyIdentity {
	out := a.Clone()
	out.Version = &v
	return out
}

// WithCulture returns a copy of a with Culture set to tag. Passing nil
// resets the culture to neutral.
func (a AssemblyIdentity) WithCulture(tag *language.Tag) AssemblyIdentity {
	out := a.Clone()
	out.Culture = tag
	return out
}

// WithPublicKeyToken returns a copy of a with PublicKeyToken set to token.
func (a AssemblyIdentity) WithPublicKeyToken(token PublicKeyToken) AssemblyIdentity {
	out := a.Clone()
	out.PublicKeyToken = token
	return out
}

// WithArchitecture returns a copy of a with Architecture set to arch.
func (a AssemblyIdentity) WithArchitecture(arch Architecture) AssemblyIdentity {
	out := a.Clone()
	out.Architecture = arch
	return out
}

// Format always rebuilds the canonical form: ShortName, then
// ", Version=..., Culture={name|neutral}, PublicKeyToken={hex|null}"
// when Version or PublicKeyToken is present, then
// ", processorArchitecture=UPPER" when Architecture != None. The
// PublicKeyToken is always rendered as upper-case hex regardless of
// the case used in any parsed input, since PublicKeyToken.String is
// itself canonical.
func (a AssemblyIdentity) Format() string {
	var b strings.Builder
	b.WriteString(a.ShortName)

	if a.Version != nil || a.PublicKeyToken.Present() {
		v := "0.0.0.0"
		if a.Version != nil {
			v = a.Version.Format("x.y.z.r")
		}
		culture := "neutral"
		if a.Culture != nil {
			culture = a.Culture.String()
		}
		b.WriteString(", Version=" + v)
		b.WriteString(", Culture=" + culture)
		b.WriteString(", PublicKeyToken=" + a.PublicKeyToken.String())
	}

	if a.Architecture != ArchNone {
		b.WriteString(", processorArchitecture=" + strings.ToUpper(a.Architecture.String()))
	}

	return b.String()
}

// MarshalJSON implements model.Serializable.
func (a AssemblyIdentity) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "AssemblyIdentity", Reason: err.Error()}
	}
	return []byte(strconv.Quote(a.Format())), nil
}

// UnmarshalJSON implements model.Serializable.
func (a *AssemblyIdentity) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return &errors.UnmarshalError{Type: "AssemblyIdentity", Data: data, Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "AssemblyIdentity", Data: data, Reason: err.Error()}
	}
	*a = parsed
	return nil
}

// MarshalYAML implements model.Serializable.
func (a AssemblyIdentity) MarshalYAML() (interface{}, error) {
	if err := a.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: "AssemblyIdentity", Reason: err.Error()}
	}
	return a.Format(), nil
}

// UnmarshalYAML implements model.Serializable.
func (a *AssemblyIdentity) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &errors.UnmarshalError{Type: "AssemblyIdentity", Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return &errors.UnmarshalError{Type: "AssemblyIdentity", Data: []byte(s), Reason: err.Error()}
	}
	*a = parsed
	return nil
}
