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

package assembly_test

import (
	"testing"

	"github.com/semrange/semrange/core/model/assembly"
)

func TestEqual_ShortNameCaseInsensitive(t *testing.T) {
	a := mustParseIdentity(t, "Name")
	b := mustParseIdentity(t, "NAME")
	if !assembly.Equal(a, b, assembly.ModeShortName) {
		t.Error("ShortName comparison should be case-insensitive")
	}
}

// TestEqual_CultureMode covers a culture-mode-inequality scenario:
// two identities sharing a short name but differing in culture
// subtag (zh-Hans vs zh-TW) must compare unequal under ModeCulture.
func TestEqual_CultureMode(t *testing.T) {
	a := mustParseIdentity(t, "Name, Culture=zh-Hans")
	b := mustParseIdentity(t, "Name, Culture=zh-TW")
	if assembly.Equal(a, b, assembly.ModeCulture) {
		t.Error("zh-Hans and zh-TW should compare unequal under ModeCulture")
	}
}

func TestEqual_CultureMode_BothNeutral(t *testing.T) {
	a := mustParseIdentity(t, "Name, Culture=neutral")
	b := mustParseIdentity(t, "Name")
	if !assembly.Equal(a, b, assembly.ModeCulture) {
		t.Error("two neutral-culture identities should compare equal under ModeCulture")
	}
}

func TestEqual_VersionMode(t *testing.T) {
	a := mustParseIdentity(t, "Name, Version=1.0.0.0")
	b := mustParseIdentity(t, "Name, Version=1.0.0.1")
	if assembly.Equal(a, b, assembly.ModeVersion) {
		t.Error("differing versions should compare unequal under ModeVersion")
	}
}

func TestEqual_PublicKeyTokenMode_AbsentVsPresent(t *testing.T) {
	a := mustParseIdentity(t, "Name")
	b := mustParseIdentity(t, "Name, PublicKeyToken=31bf3856ad364e35")
	if assembly.Equal(a, b, assembly.ModePublicKeyToken) {
		t.Error("an absent token should never equal a present one")
	}
}

func TestEqual_PublicKeyTokenMode_BothAbsent(t *testing.T) {
	a := mustParseIdentity(t, "Name")
	b := mustParseIdentity(t, "Name")
	if !assembly.Equal(a, b, assembly.ModePublicKeyToken) {
		t.Error("two identities with absent tokens should compare equal")
	}
}

func TestEqual_ArchitectureMode(t *testing.T) {
	a := mustParseIdentity(t, "Name, processorArchitecture=x86")
	b := mustParseIdentity(t, "Name, processorArchitecture=Amd64")
	if assembly.Equal(a, b, assembly.ModeArchitecture) {
		t.Error("differing architectures should compare unequal under ModeArchitecture")
	}
}

// TestEqual_ModesAreCumulative pins the ascending/cumulative design:
// a stricter mode also requires every looser mode's facet to match,
// so two identities that agree on Culture but disagree on Version
// must still compare unequal under ModeCulture.
func TestEqual_ModesAreCumulative(t *testing.T) {
	a := mustParseIdentity(t, "Name, Version=1.0.0.0, Culture=neutral")
	b := mustParseIdentity(t, "Name, Version=2.0.0.0, Culture=neutral")
	if assembly.Equal(a, b, assembly.ModeCulture) {
		t.Error("ModeCulture should also require Version to agree")
	}
	if !assembly.Equal(a, b, assembly.ModeShortName) {
		t.Error("ModeShortName should ignore Version")
	}
}

func TestEqual_DefaultMode_RequiresAllFacets(t *testing.T) {
	a := mustParseIdentity(t, "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35")
	b := mustParseIdentity(t, "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35")
	if !assembly.Equal(a, b, assembly.ModeDefault) {
		t.Error("identical identities should compare equal under ModeDefault")
	}

	c := mustParseIdentity(t, "Name, Version=4.5.1.1, Culture=neutral, PublicKeyToken=31bf3856ad364e35")
	if assembly.Equal(a, c, assembly.ModeDefault) {
		t.Error("a single differing facet should break equality under ModeDefault")
	}
}

func TestParseIdentityComparisonMode(t *testing.T) {
	tests := []struct {
		in   string
		want assembly.IdentityComparisonMode
	}{
		{"short-name", assembly.ModeShortName},
		{"version", assembly.ModeVersion},
		{"culture", assembly.ModeCulture},
		{"public-key-token", assembly.ModePublicKeyToken},
		{"architecture", assembly.ModeArchitecture},
		{"default", assembly.ModeDefault},
	}
	for _, tt := range tests {
		got, err := assembly.ParseIdentityComparisonMode(tt.in)
		if err != nil {
			t.Fatalf("ParseIdentityComparisonMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseIdentityComparisonMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := assembly.ParseIdentityComparisonMode("bogus"); err == nil {
		t.Error("ParseIdentityComparisonMode(bogus) should fail")
	}
}

func TestComparer_Values(t *testing.T) {
	if assembly.ShortNameComparer.Mode != assembly.ModeShortName {
		t.Error("ShortNameComparer should use ModeShortName")
	}
	if assembly.DefaultComparer.Mode != assembly.ModeDefault {
		t.Error("DefaultComparer should use ModeDefault")
	}
	if !assembly.DefaultComparer.Equal(mustParseIdentity(t, "Name"), mustParseIdentity(t, "name")) {
		t.Error("DefaultComparer.Equal should treat case-insensitive short names as equal when no other facet is set")
	}
}
