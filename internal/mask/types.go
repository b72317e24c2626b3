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

// Package mask implements the masking subsystem: shape-, brush- and
// bitmap-based sub-masks composed into a per-pixel influence bitmap
// (spec.md §4.C), plus the legacy-vs-full mask JSON disambiguation
// described in spec.md §3 and §9.
//
// Sub-mask JSON is polymorphic on its "type" field. Rather than a
// type switch buried in one giant UnmarshalJSON, each sub-mask type
// registers its own zero-value constructor at init() time and fills
// in type-specific defaults before decoding on top of them -- the
// same pattern the teacher's internal/ops packages use to register
// operator types for JSON decoding (ops.SetOperatorFactory).
package mask

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mode is a sub-mask's compositing mode.
type Mode string

const (
	Additive    Mode = "Additive"
	Subtractive Mode = "Subtractive"
)

// normalizeMode accepts the mode case-insensitively, defaulting to Additive.
func normalizeMode(s string) Mode {
	if strings.EqualFold(s, string(Subtractive)) {
		return Subtractive
	}
	return Additive
}

// SubMaskType identifies the geometric/bitmap kind of a sub-mask.
type SubMaskType string

const (
	TypeRadial    SubMaskType = "radial"
	TypeLinear    SubMaskType = "linear"
	TypeBrush     SubMaskType = "brush"
	TypeAISubject SubMaskType = "ai-subject"
)

// Params rasterizes a sub-mask's type-specific parameters into a
// width*height grayscale influence buffer (0..255 per spec.md §3 --
// "mask bitmap bytes are the canonical mask value x255 rounded").
// Brush params are special-cased by the rasterizer: they're combined
// across all brush sub-masks of a mask before any other sub-mask
// composites on top (spec.md §4.C, §9), so Params.Rasterize is never
// called directly for TypeBrush; combineBrushSubMasks is used instead.
type Params interface {
	Rasterize(width, height int) []uint8
}

type paramsFactory func() Params

var paramsFactories = map[SubMaskType]paramsFactory{}

func registerParams(t SubMaskType, f paramsFactory) { paramsFactories[t] = f }

// SubMask is one geometric or bitmap contributor to a mask's bitmap.
type SubMask struct {
	ID      string          `json:"id"`
	Type    SubMaskType     `json:"type"`
	Visible bool            `json:"visible"`
	Mode    Mode            `json:"mode"`
	Params  Params          `json:"parameters"`
	rawParams json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes a sub-mask, dispatching its "parameters"
// payload to the registered constructor for its "type".
func (s *SubMask) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID         string          `json:"id"`
		Type       SubMaskType     `json:"type"`
		Visible    bool            `json:"visible"`
		Mode       string          `json:"mode"`
		Parameters json.RawMessage `json:"parameters"`
	}
	var w wire
	w.Visible = true // sub-masks default to visible when the key is absent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.ID = w.ID
	s.Type = w.Type
	s.Visible = w.Visible
	s.Mode = normalizeMode(w.Mode)

	factory, ok := paramsFactories[w.Type]
	if !ok {
		return fmt.Errorf("mask: unknown sub-mask type %q", w.Type)
	}
	params := factory()
	if len(w.Parameters) > 0 {
		if err := json.Unmarshal(w.Parameters, params); err != nil {
			return err
		}
	}
	s.Params = params
	return nil
}

// Definition is a mask's full JSON shape (spec.md §3): an id/name/
// visibility/invert/opacity, adjustments applied wherever the mask's
// influence is nonzero, curves mixed in by the same influence, and
// the sub-masks whose composition produces that influence.
type Definition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Visible     bool            `json:"visible"`
	Invert      bool            `json:"invert"`
	Opacity     float32         `json:"opacity"`
	Adjustments json.RawMessage `json:"adjustments"`
	Curves      json.RawMessage `json:"curves"`
	SubMasks    []SubMask       `json:"subMasks"`
}

// legacyShape is the flat enabled+11-scalar mask accepted for backward
// compatibility (spec.md §3, §9). It is disambiguated from the full
// form by key presence ("enabled" vs "subMasks"), not a schema version.
type legacyShape struct {
	Enabled      bool    `json:"enabled"`
	Exposure     float32 `json:"exposure"`
	Brightness   float32 `json:"brightness"`
	Contrast     float32 `json:"contrast"`
	Highlights   float32 `json:"highlights"`
	Shadows      float32 `json:"shadows"`
	Whites       float32 `json:"whites"`
	Blacks       float32 `json:"blacks"`
	Saturation   float32 `json:"saturation"`
	Temperature  float32 `json:"temperature"`
	Tint         float32 `json:"tint"`
	Clarity      float32 `json:"clarity"`
}

// IsLegacy reports whether a raw mask JSON value uses the legacy flat
// shape (carries "enabled") rather than the full shape (carries
// "subMasks"). Per spec.md §9, disambiguation is by key presence.
func IsLegacy(raw json.RawMessage) bool {
	var probe struct {
		Enabled  *bool            `json:"enabled"`
		SubMasks *json.RawMessage `json:"subMasks"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Enabled != nil && probe.SubMasks == nil
}

// legacyToDefinition converts a legacy mask into the equivalent full
// Definition: global application (no spatial influence), opacity
// fixed at 1.0 per the open question in spec.md §9 ("existing
// behavior fixes it at 1.0; not guessed, keep the fixed 1.0").
func legacyToDefinition(raw json.RawMessage) (Definition, bool, error) {
	var l legacyShape
	if err := json.Unmarshal(raw, &l); err != nil {
		return Definition{}, false, err
	}
	adj := map[string]float32{
		"exposure":    l.Exposure,
		"brightness":  l.Brightness,
		"contrast":    l.Contrast,
		"highlights":  l.Highlights,
		"shadows":     l.Shadows,
		"whites":      l.Whites,
		"blacks":      l.Blacks,
		"saturation":  l.Saturation,
		"temperature": l.Temperature,
		"tint":        l.Tint,
		"clarity":     l.Clarity,
	}
	adjJSON, err := json.Marshal(adj)
	if err != nil {
		return Definition{}, false, err
	}
	return Definition{
		Visible:     l.Enabled,
		Invert:      false,
		Opacity:     100, // normalized by render.CompileMask with the same /100 rule as the full form
		Adjustments: adjJSON,
		SubMasks:    nil, // no sub-masks => influence is 1 everywhere
	}, l.Enabled, nil
}

// ParseDefinition decodes a single raw mask JSON value in either
// legacy or full form, per spec.md §3/§9.
func ParseDefinition(raw json.RawMessage) (Definition, error) {
	if IsLegacy(raw) {
		def, _, err := legacyToDefinition(raw)
		return def, err
	}
	var def Definition
	def.Opacity = 100
	def.Visible = true
	if err := json.Unmarshal(raw, &def); err != nil {
		return Definition{}, err
	}
	return def, nil
}
