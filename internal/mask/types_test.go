// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mask

import (
	"encoding/json"
	"testing"
)

func TestIsLegacyByKeyPresence(t *testing.T) {
	legacy := json.RawMessage(`{"enabled":true,"exposure":10}`)
	if !IsLegacy(legacy) {
		t.Errorf("IsLegacy(legacy)=false; want true")
	}

	full := json.RawMessage(`{"id":"m1","subMasks":[]}`)
	if IsLegacy(full) {
		t.Errorf("IsLegacy(full)=true; want false")
	}

	neither := json.RawMessage(`{"id":"m1"}`)
	if IsLegacy(neither) {
		t.Errorf("IsLegacy(neither)=true; want false")
	}
}

func TestLegacyToDefinitionFixesOpacity(t *testing.T) {
	raw := json.RawMessage(`{"enabled":true,"exposure":25,"saturation":-10}`)
	def, err := ParseDefinition(raw)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.Opacity != 100 {
		t.Errorf("legacy mask Opacity=%f; want 100 (fixed, spec.md open question)", def.Opacity)
	}
	if !def.Visible {
		t.Errorf("legacy mask with enabled=true should be Visible")
	}
	if len(def.SubMasks) != 0 {
		t.Errorf("legacy mask should have no sub-masks; got %d", len(def.SubMasks))
	}
	var adj map[string]float32
	if err := json.Unmarshal(def.Adjustments, &adj); err != nil {
		t.Fatalf("Adjustments unmarshal: %v", err)
	}
	if adj["exposure"] != 25 {
		t.Errorf("adjustments[exposure]=%f; want 25", adj["exposure"])
	}
	if adj["saturation"] != -10 {
		t.Errorf("adjustments[saturation]=%f; want -10", adj["saturation"])
	}
}

func TestParseDefinitionFullForm(t *testing.T) {
	raw := json.RawMessage(`{"id":"m1","name":"sky","visible":true,"invert":true,"opacity":75,"subMasks":[{"id":"s1","type":"radial","visible":true,"mode":"Additive","parameters":{"centerX":0.5,"centerY":0.5}}]}`)
	def, err := ParseDefinition(raw)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.ID != "m1" || def.Name != "sky" || !def.Invert || def.Opacity != 75 {
		t.Errorf("unexpected definition: %+v", def)
	}
	if len(def.SubMasks) != 1 || def.SubMasks[0].Type != TypeRadial {
		t.Errorf("unexpected sub-masks: %+v", def.SubMasks)
	}
}

func TestSubMaskDefaultsVisibleWhenAbsent(t *testing.T) {
	var sm SubMask
	if err := json.Unmarshal([]byte(`{"id":"s1","type":"radial","mode":"Additive","parameters":{}}`), &sm); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !sm.Visible {
		t.Errorf("sub-mask with no \"visible\" key should default to visible")
	}
}

func TestSubMaskUnknownTypeErrors(t *testing.T) {
	var sm SubMask
	err := json.Unmarshal([]byte(`{"id":"s1","type":"bogus","parameters":{}}`), &sm)
	if err == nil {
		t.Errorf("Unmarshal with unknown sub-mask type should error")
	}
}

func TestNormalizeModeCaseInsensitive(t *testing.T) {
	cases := map[string]Mode{
		"Subtractive": Subtractive,
		"subtractive": Subtractive,
		"SUBTRACTIVE": Subtractive,
		"Additive":    Additive,
		"":            Additive,
		"garbage":     Additive,
	}
	for in, want := range cases {
		if got := normalizeMode(in); got != want {
			t.Errorf("normalizeMode(%q)=%q; want %q", in, got, want)
		}
	}
}
