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
	"github.com/semrange/semrange/core/model/version"
)

func mustParseIdentity(t *testing.T, s string) assembly.AssemblyIdentity {
	t.Helper()
	a, err := assembly.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return a
}

func TestParse_ShortNameOnly(t *testing.T) {
	a := mustParseIdentity(t, "Name")
	if a.ShortName != "Name" {
		t.Errorf("ShortName = %q, want %q", a.ShortName, "Name")
	}
	if a.Version != nil {
		t.Error("Version should be absent")
	}
}

func TestParse_FullIdentity(t *testing.T) {
	a := mustParseIdentity(t, "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35")
	if a.ShortName != "Name" {
		t.Errorf("ShortName = %q", a.ShortName)
	}
	if a.Version == nil || a.Version.Major != 4 || a.Version.Minor != 5 || a.Version.Patch != 1 || a.Version.Revision != 0 {
		t.Errorf("Version = %+v", a.Version)
	}
	if a.Culture != nil {
		t.Error("neutral Culture should parse as nil")
	}
	if !a.PublicKeyToken.Present() {
		t.Error("PublicKeyToken should be present")
	}
}

// TestConcreteScenario_FormatRoundTrip reproduces the literal
// identity-formatting scenario: parsing a full identity string and
// formatting it again reproduces the same fields with the hex token
// upper-cased, regardless of the case used in the input.
func TestConcreteScenario_FormatRoundTrip(t *testing.T) {
	const input = "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35"
	const want = "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31BF3856AD364E35"
	a := mustParseIdentity(t, input)
	if got := a.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if got := a.PublicKeyToken.String(); got != "31BF3856AD364E35" {
		t.Errorf("PublicKeyToken.String() = %q, want upper-case hex", got)
	}
}

func TestFormat_CanonicalWhenConstructedDirectly(t *testing.T) {
	v, err := version.Parse("4.5.1.0")
	if err != nil {
		t.Fatalf("version.Parse error = %v", err)
	}
	token, err := assembly.ParsePublicKeyToken("31bf3856ad364e35")
	if err != nil {
		t.Fatalf("ParsePublicKeyToken error = %v", err)
	}
	a := assembly.AssemblyIdentity{
		ShortName:      "Name",
		Version:        &v,
		PublicKeyToken: token,
	}
	got := a.Format()
	want := "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31BF3856AD364E35"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	if _, err := assembly.Parse("Name, Bogus=1"); err == nil {
		t.Error("Parse() should reject an unknown key")
	}
}

func TestParse_EmptyShortNameRejected(t *testing.T) {
	if _, err := assembly.Parse(", Version=1.0.0.0"); err == nil {
		t.Error("Parse() should reject an empty short name")
	}
}

func TestParsePublicKeyToken_Null(t *testing.T) {
	token, err := assembly.ParsePublicKeyToken("null")
	if err != nil {
		t.Fatalf("ParsePublicKeyToken(null) error = %v", err)
	}
	if token.Present() {
		t.Error("null token should not be Present")
	}
	if token.String() != "null" {
		t.Errorf("String() = %q, want %q", token.String(), "null")
	}
}

func TestParsePublicKeyToken_WrongLength(t *testing.T) {
	if _, err := assembly.ParsePublicKeyToken("abc"); err == nil {
		t.Error("ParsePublicKeyToken() should reject a short token")
	}
}

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		input string
		want  assembly.Architecture
	}{
		{"", assembly.ArchNone},
		{"MSIL", assembly.ArchMSIL},
		{"x86", assembly.ArchX86},
		{"AMD64", assembly.ArchAmd64},
		{"Arm", assembly.ArchArm},
		{"IA64", assembly.ArchIA64},
	}
	for _, tt := range tests {
		got, err := assembly.ParseArchitecture(tt.input)
		if err != nil {
			t.Fatalf("ParseArchitecture(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseArchitecture(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if _, err := assembly.ParseArchitecture("bogus"); err == nil {
		t.Error("ParseArchitecture(bogus) should fail")
	}
}

func TestValidate_RejectsEmptyShortName(t *testing.T) {
	a := assembly.AssemblyIdentity{}
	if err := a.Validate(); err == nil {
		t.Error("Validate() should reject an empty ShortName")
	}
}

func TestIsZero(t *testing.T) {
	if !(assembly.AssemblyIdentity{}).IsZero() {
		t.Error("zero value AssemblyIdentity should be IsZero")
	}
	if mustParseIdentity(t, "Name").IsZero() {
		t.Error("an identity with a ShortName should not be IsZero")
	}
}

func TestMarshalJSON_UnmarshalJSON(t *testing.T) {
	a := mustParseIdentity(t, "Name, Version=4.5.1.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35")
	data, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	var decoded assembly.AssemblyIdentity
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if !assembly.Equal(a, decoded, assembly.ModeDefault) {
		t.Errorf("round trip mismatch: %+v != %+v", a, decoded)
	}
}
