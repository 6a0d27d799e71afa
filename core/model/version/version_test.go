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

package version_test

import (
	"encoding/json"
	"testing"

	"github.com/semrange/semrange/core/model/version"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    version.Version
		wantErr bool
	}{
		{
			name:  "simple_version",
			input: "1.2.3",
			want:  version.Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "with_v_prefix",
			input: "v2.0.0",
			want:  version.Version{Major: 2, Minor: 0, Patch: 0},
		},
		{
			name:  "four_part",
			input: "1.2.3.4",
			want:  version.Version{Major: 1, Minor: 2, Patch: 3, Revision: 4},
		},
		{
			name:  "single_integer_core",
			input: "5",
			want:  version.Version{Major: 5},
		},
		{
			name:  "two_integer_core",
			input: "5.6",
			want:  version.Version{Major: 5, Minor: 6},
		},
		{
			name:  "with_release",
			input: "1.0.0-alpha.1",
			want:  version.Version{Major: 1, ReleaseLabels: []string{"alpha", "1"}},
		},
		{
			name:  "with_metadata",
			input: "1.0.0+20130313144700",
			want:  version.Version{Major: 1, Metadata: "20130313144700"},
		},
		{
			name:  "with_release_and_metadata",
			input: "1.2.3-X.yZ.3+METADATA",
			want:  version.Version{Major: 1, Minor: 2, Patch: 3, ReleaseLabels: []string{"X", "yZ", "3"}, Metadata: "METADATA"},
		},
		{
			name:  "metadata_leading_zero_allowed",
			input: "1.0.0+01.02",
			want:  version.Version{Major: 1, Metadata: "01.02"},
		},
		{
			name:  "zero_version",
			input: "0.0.0",
			want:  version.Version{},
		},
		{
			name:    "invalid_non_numeric",
			input:   "1.2.x",
			wantErr: true,
		},
		{
			name:    "invalid_negative",
			input:   "1.-2.3",
			wantErr: true,
		},
		{
			name:    "invalid_empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "invalid_leading_zero_core",
			input:   "1.02.3",
			wantErr: true,
		},
		{
			name:    "invalid_release_leading_zero",
			input:   "1.2.3-01",
			wantErr: true,
		},
		{
			name:  "release_exactly_zero_allowed",
			input: "1.2.3-0",
			want:  version.Version{Major: 1, Minor: 2, Patch: 3, ReleaseLabels: []string{"0"}},
		},
		{
			name:    "invalid_empty_release_identifier",
			input:   "1.2.3-alpha..1",
			wantErr: true,
		},
		{
			name:    "invalid_trailing_dash",
			input:   "1.2.3-",
			wantErr: true,
		},
		{
			name:    "invalid_too_many_core_parts",
			input:   "1.2.3.4.5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := version.Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Major != tt.want.Major || got.Minor != tt.want.Minor || got.Patch != tt.want.Patch || got.Revision != tt.want.Revision {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
			if len(got.ReleaseLabels) != len(tt.want.ReleaseLabels) {
				t.Errorf("Parse() ReleaseLabels = %v, want %v", got.ReleaseLabels, tt.want.ReleaseLabels)
			} else {
				for i := range got.ReleaseLabels {
					if got.ReleaseLabels[i] != tt.want.ReleaseLabels[i] {
						t.Errorf("Parse() ReleaseLabels[%d] = %q, want %q", i, got.ReleaseLabels[i], tt.want.ReleaseLabels[i])
					}
				}
			}
			if got.Metadata != tt.want.Metadata {
				t.Errorf("Parse() Metadata = %q, want %q", got.Metadata, tt.want.Metadata)
			}
		})
	}
}

func TestTryParse(t *testing.T) {
	if _, ok := version.TryParse("not a version"); ok {
		t.Error("TryParse() should fail on invalid input")
	}
	if _, ok := version.TryParse("1.2.3"); !ok {
		t.Error("TryParse() should succeed on valid input")
	}
}

func TestVersion_Format(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3, Revision: 4, ReleaseLabels: []string{"X", "yZ", "3"}, Metadata: "METADATA"}

	tests := []struct {
		format string
		want   string
	}{
		{"N", "1.2.3.4-X.yZ.3+METADATA"},
		{"V", "1.2.3.4"},
		{"R", "X.yZ.3"},
		{"M", "METADATA"},
		{"x.y.z", "1.2.3"},
		{"r", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := v.Format(tt.format); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestVersion_Format_RevisionOmittedWhenZero(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3}
	if got := v.Format("N"); got != "1.2.3" {
		t.Errorf("Format(N) = %q, want %q", got, "1.2.3")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"1.2.3-X.yZ.3+METADATA",
		"0.0.0",
		"1.2.3.4",
		"1.0.0-alpha",
		"2.0.0+build.123",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := version.Parse(in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			n := v.Format("N")
			v2, err := version.Parse(n)
			if err != nil {
				t.Fatalf("Parse(format(v,N)) error = %v", err)
			}
			if version.Compare(v, v2, version.ModeVersionRelease) != 0 {
				t.Errorf("round trip failed: %v != %v", v, v2)
			}
		})
	}
}

func TestConcreteScenario_FormatN(t *testing.T) {
	v, err := version.Parse("1.2.3-X.yZ.3+METADATA")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := v.Format("N"); got != "1.2.3-X.yZ.3+METADATA" {
		t.Errorf("Format(N) = %q, want %q", got, "1.2.3-X.yZ.3+METADATA")
	}
}

func TestVersion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		version version.Version
		wantErr bool
	}{
		{"valid_simple", version.Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"valid_release", version.Version{Major: 1, ReleaseLabels: []string{"alpha", "1"}}, false},
		{"invalid_negative_major", version.Version{Major: -1}, true},
		{"invalid_release_leading_zero", version.Version{Major: 1, ReleaseLabels: []string{"01"}}, true},
		{"invalid_release_empty", version.Version{Major: 1, ReleaseLabels: []string{""}}, true},
		{"valid_metadata_leading_zero", version.Version{Major: 1, Metadata: "01"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.version.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVersion_IsZero(t *testing.T) {
	if !(version.Version{}).IsZero() {
		t.Error("zero value Version should be IsZero")
	}
	if (version.Version{Major: 1}).IsZero() {
		t.Error("non-zero Major should not be IsZero")
	}
	if (version.Version{ReleaseLabels: []string{"alpha"}}).IsZero() {
		t.Error("presence of release labels should not be IsZero")
	}
}

func TestVersion_MarshalJSON_UnmarshalJSON(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3, ReleaseLabels: []string{"rc", "1"}}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded version.Version
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if version.Compare(v, decoded, version.ModeVersionRelease) != 0 {
		t.Errorf("round trip mismatch: %v != %v", v, decoded)
	}
}

func TestVersion_MarshalYAML_UnmarshalYAML(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3}
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded version.Version
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if version.Compare(v, decoded, version.ModeVersionRelease) != 0 {
		t.Errorf("round trip mismatch: %v != %v", v, decoded)
	}
}

func TestVersion_MarshalJSON_FailsOnInvalid(t *testing.T) {
	v := version.Version{Major: -1}
	if _, err := json.Marshal(v); err == nil {
		t.Error("Marshal() should fail on invalid Version")
	}
}

func TestVersion_GoModuleString(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3, ReleaseLabels: []string{"rc", "1"}}
	if got := v.GoModuleString(); got != "v1.2.3-rc.1" {
		t.Errorf("GoModuleString() = %q, want %q", got, "v1.2.3-rc.1")
	}
}

func TestCompareGoModule(t *testing.T) {
	if version.CompareGoModule("v1.0.0", "v2.0.0") >= 0 {
		t.Error("CompareGoModule(v1.0.0, v2.0.0) should be negative")
	}
}

func TestVersion_ToBlang_FromBlang(t *testing.T) {
	v := version.Version{Major: 1, Minor: 2, Patch: 3, ReleaseLabels: []string{"alpha"}, Metadata: "build"}
	bv, err := v.ToBlang()
	if err != nil {
		t.Fatalf("ToBlang() error = %v", err)
	}
	back := version.FromBlang(bv)
	if version.Compare(v, back, version.ModeVersionReleaseMetadata) != 0 {
		t.Errorf("FromBlang(ToBlang(v)) = %v, want %v", back, v)
	}
}

func TestVersion_ToBlang_RejectsRevision(t *testing.T) {
	v := version.Version{Major: 1, Minor: 0, Patch: 0, Revision: 1}
	if _, err := v.ToBlang(); err == nil {
		t.Error("ToBlang() should reject a non-zero Revision")
	}
}
