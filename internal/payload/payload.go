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

// Package payload deserializes and normalizes the adjustments
// description described in spec.md §4.G: camelCase wire keys, missing
// keys defaulting rather than zeroing, and a `masks` array that mixes
// legacy and full mask JSON shapes.
//
// Default-filling follows the teacher's own idiom throughout
// internal/ops: construct the defaulted zero value first, then
// json.Unmarshal on top of it via a locally-scoped `type defaults T`
// alias, so missing keys keep their default instead of becoming zero.
package payload

import (
	"encoding/json"
	"strings"

	"github.com/mlnoga/rawforge/internal/curve"
	"github.com/mlnoga/rawforge/internal/kernel"
	"github.com/mlnoga/rawforge/internal/mask"
)

// Curves is the {luma, red, green, blue} curve bundle of a payload.
type Curves struct {
	Luma  curve.Curve `json:"luma"`
	Red   curve.Curve `json:"red"`
	Green curve.Curve `json:"green"`
	Blue  curve.Curve `json:"blue"`
}

func defaultCurves() Curves {
	d := curve.DefaultCurve()
	return Curves{Luma: d, Red: d, Green: d, Blue: d}
}

// MaskAdjustments has the same shape as the global adjustments,
// vignette fields included; mask parsing zeroes the vignette so masks
// never apply a vignette of their own (spec.md §3).
type MaskAdjustments struct {
	kernel.Adjustments
}

// Mask is the normalized, parsed form of one entry of the `masks`
// array, in either legacy or full JSON shape (spec.md §3/§9).
type Mask struct {
	Definition mask.Definition
	Adjustments kernel.Adjustments
	Curves      Curves
}

// Payload is the fully parsed and defaulted adjustments description.
type Payload struct {
	Adjustments kernel.Adjustments
	Curves      Curves
	Masks       []Mask
}

// wireAdjustments mirrors kernel.Adjustments plus the payload-only
// `curves`/`masks` keys, all camelCase on the wire (spec.md §4.G).
type wireAdjustments struct {
	kernel.Adjustments
	ToneMapper string          `json:"toneMapper"`
	Curves     Curves          `json:"curves"`
	Masks      []json.RawMessage `json:"masks"`
}

// Default returns the neutral payload: all adjustments zeroed except
// the color-grading/curve defaults spec.md §4.G specifies, no masks.
func Default() Payload {
	return Payload{
		Adjustments: kernel.Default(),
		Curves:      defaultCurves(),
	}
}

// Parse decodes raw adjustments JSON into a normalized Payload.
// An empty or whitespace-only payload yields the neutral payload
// (spec.md §4.G). Malformed JSON is the caller's concern -- the
// render composer is responsible for mapping a parse error to the
// PayloadError recovery policy of spec.md §7, not this function.
func Parse(raw []byte) (Payload, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Default(), nil
	}

	def := Default()
	wire := wireAdjustments{
		Adjustments: def.Adjustments,
		ToneMapper:  string(def.Adjustments.ToneMapper),
		Curves:      def.Curves,
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Payload{}, err
	}

	adj := wire.Adjustments
	if wire.ToneMapper == string(kernel.AgX) {
		adj.ToneMapper = kernel.AgX
	} else {
		adj.ToneMapper = kernel.Basic
	}

	masks := make([]Mask, 0, len(wire.Masks))
	for _, raw := range wire.Masks {
		m, err := parseMask(raw)
		if err != nil {
			return Payload{}, err
		}
		masks = append(masks, m)
	}

	return Payload{Adjustments: adj, Curves: wire.Curves, Masks: masks}, nil
}

func parseMask(raw json.RawMessage) (Mask, error) {
	def, err := mask.ParseDefinition(raw)
	if err != nil {
		return Mask{}, err
	}

	adj := kernel.Default()
	if len(def.Adjustments) > 0 {
		if err := json.Unmarshal(def.Adjustments, &adj); err != nil {
			return Mask{}, err
		}
	}
	adj.VignetteAmount, adj.VignetteMidpoint, adj.VignetteRoundness, adj.VignetteFeather = 0, 0, 0, 0

	curves := defaultCurves()
	if len(def.Curves) > 0 {
		if err := json.Unmarshal(def.Curves, &curves); err != nil {
			return Mask{}, err
		}
	}

	return Mask{Definition: def, Adjustments: adj, Curves: curves}, nil
}
