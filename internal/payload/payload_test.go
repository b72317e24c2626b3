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

package payload

import (
	"testing"

	"github.com/mlnoga/rawforge/internal/kernel"
)

func TestParseEmptyIsDefault(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	want := Default()
	if p.Adjustments != want.Adjustments {
		t.Errorf("Parse(nil).Adjustments=%+v; want %+v", p.Adjustments, want.Adjustments)
	}
	if len(p.Masks) != 0 {
		t.Errorf("Parse(nil).Masks has %d entries; want 0", len(p.Masks))
	}

	p2, err := Parse([]byte("   \n  "))
	if err != nil {
		t.Fatalf("Parse(whitespace): %v", err)
	}
	if p2.Adjustments != want.Adjustments {
		t.Errorf("Parse(whitespace) should also yield the default payload")
	}
}

func TestParseMissingKeysKeepDefaults(t *testing.T) {
	p, err := Parse([]byte(`{"exposure":25}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Adjustments.Exposure != 25 {
		t.Errorf("Adjustments.Exposure=%f; want 25", p.Adjustments.Exposure)
	}
	if p.Adjustments.Contrast != 0 {
		t.Errorf("Adjustments.Contrast=%f; want 0 (default-filled)", p.Adjustments.Contrast)
	}
	if p.Adjustments.ToneMapper != kernel.Basic {
		t.Errorf("ToneMapper=%q; want Basic when omitted", p.Adjustments.ToneMapper)
	}
	if !p.Curves.Luma.IsDefault() {
		t.Errorf("omitted curves should default to identity")
	}
}

func TestParseToneMapperAgX(t *testing.T) {
	p, err := Parse([]byte(`{"toneMapper":"AgX"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Adjustments.ToneMapper != kernel.AgX {
		t.Errorf("ToneMapper=%q; want AgX", p.Adjustments.ToneMapper)
	}
}

func TestParseMasksStripsVignette(t *testing.T) {
	raw := []byte(`{"masks":[{"id":"m1","name":"sky","visible":true,"opacity":80,
		"adjustments":{"exposure":10,"vignetteAmount":50},"subMasks":[]}]}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Masks) != 1 {
		t.Fatalf("got %d masks; want 1", len(p.Masks))
	}
	m := p.Masks[0]
	if m.Adjustments.Exposure != 10 {
		t.Errorf("mask Adjustments.Exposure=%f; want 10", m.Adjustments.Exposure)
	}
	if m.Adjustments.VignetteAmount != 0 {
		t.Errorf("mask Adjustments.VignetteAmount=%f; want 0 (masks never vignette)", m.Adjustments.VignetteAmount)
	}
}

func TestParseLegacyMaskEntry(t *testing.T) {
	raw := []byte(`{"masks":[{"enabled":true,"exposure":15}]}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Masks) != 1 {
		t.Fatalf("got %d masks; want 1", len(p.Masks))
	}
	m := p.Masks[0]
	if m.Adjustments.Exposure != 15 {
		t.Errorf("legacy mask Adjustments.Exposure=%f; want 15", m.Adjustments.Exposure)
	}
	if m.Definition.Opacity != 100 {
		t.Errorf("legacy mask Definition.Opacity=%f; want 100", m.Definition.Opacity)
	}
}

func TestParseMalformedJSONErrors(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if err == nil {
		t.Errorf("Parse with malformed JSON should return an error")
	}
}
