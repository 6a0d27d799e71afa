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

package assembly

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/semrange/semrange/core/errors"
	"github.com/semrange/semrange/core/model/version"
)

// IdentityComparisonMode selects how many facets of two identities
// participate in an equality check. The modes are ordered by
// ascending strictness and are cumulative: each mode compares every
// facet named by a looser mode plus its own, so ModeCulture compares
// ShortName, Version, AND Culture, not Culture alone. This mirrors
// version.ComparisonMode's own ascending/cumulative design (Version <
// VersionRelease < VersionReleaseMetadata).
type IdentityComparisonMode uint8

const (
	// ModeShortName compares only ShortName, case-insensitively.
	ModeShortName IdentityComparisonMode = iota
	// ModeVersion additionally compares Version.
	ModeVersion
	// ModeCulture additionally compares Culture.
	ModeCulture
	// ModePublicKeyToken additionally compares PublicKeyToken.
	ModePublicKeyToken
	// ModeArchitecture additionally compares Architecture.
	ModeArchitecture
	// ModeDefault compares every facet: ShortName, Version, Culture,
	// PublicKeyToken, and Architecture. Identical to ModeArchitecture,
	// since Architecture is already the strictest individual facet.
	ModeDefault
)

// String renders the mode as a kebab-case constant.
func (m IdentityComparisonMode) String() string {
	switch m {
	case ModeShortName:
		return "short-name"
	case ModeVersion:
		return "version"
	case ModeCulture:
		return "culture"
	case ModePublicKeyToken:
		return "public-key-token"
	case ModeArchitecture:
		return "architecture"
	case ModeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// ParseIdentityComparisonMode parses the kebab-case names produced by String.
func ParseIdentityComparisonMode(s string) (IdentityComparisonMode, error) {
	switch s {
	case "short-name":
		return ModeShortName, nil
	case "version":
		return ModeVersion, nil
	case "culture":
		return ModeCulture, nil
	case "public-key-token":
		return ModePublicKeyToken, nil
	case "architecture":
		return ModeArchitecture, nil
	case "default":
		return ModeDefault, nil
	default:
		return 0, &errors.ParseError{Type: "IdentityComparisonMode", Value: s}
	}
}

// Comparer is a pre-built comparer bound to a single
// IdentityComparisonMode.
type Comparer struct {
	Mode IdentityComparisonMode
}

// Equal reports whether a and b compare equal under c.Mode.
func (c Comparer) Equal(a, b AssemblyIdentity) bool {
	return Equal(a, b, c.Mode)
}

// Package-level pre-built comparers, one per mode.
var (
	ShortNameComparer      = Comparer{Mode: ModeShortName}
	VersionComparer        = Comparer{Mode: ModeVersion}
	CultureComparer        = Comparer{Mode: ModeCulture}
	PublicKeyTokenComparer = Comparer{Mode: ModePublicKeyToken}
	ArchitectureComparer   = Comparer{Mode: ModeArchitecture}
	DefaultComparer        = Comparer{Mode: ModeDefault}
)

// Equal reports whether a and b are equal under mode. ShortName always
// participates (case-insensitively); each stricter mode additionally
// requires every facet named by a looser mode to agree, since the
// modes are cumulative (see IdentityComparisonMode). ModeDefault's
// iota value exceeds every other mode's, so the ">=" checks below
// naturally cover it without a separate case.
func Equal(a, b AssemblyIdentity, mode IdentityComparisonMode) bool {
	if !strings.EqualFold(a.ShortName, b.ShortName) {
		return false
	}
	if mode >= ModeVersion {
		if !equalVersion(a.Version, b.Version) {
			return false
		}
	}
	if mode >= ModeCulture {
		if !equalCulture(a.Culture, b.Culture) {
			return false
		}
	}
	if mode >= ModePublicKeyToken {
		if !equalToken(a.PublicKeyToken, b.PublicKeyToken) {
			return false
		}
	}
	if mode >= ModeArchitecture {
		if a.Architecture != b.Architecture {
			return false
		}
	}
	return true
}

func equalVersion(a, b *version.Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return version.Compare(*a, *b, version.ModeVersionRelease) == 0
}

func equalCulture(a, b *language.Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// equalToken reports whether two public key tokens are equal. An
// absent token equals only another absent token; a present token
// never equals an absent one, regardless of bytes.
func equalToken(a, b PublicKeyToken) bool {
	if a.Present() != b.Present() {
		return false
	}
	if !a.Present() {
		return true
	}
	return a.Bytes() == b.Bytes()
}
