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

// Package colorgrade implements the three-wheel (shadows/midtones/
// highlights) color-grading sub-record of spec.md §3, evaluated by
// the adjustment kernel's color-grading step (spec.md §4.D.6). Hue
// rotation reuses go-colorful's HSV model, the way the teacher's HSL
// packages and the HDR tone-mapping reference lean on go-colorful for
// any hue-indexed color math rather than hand-rolled trig.
package colorgrade

import colorful "github.com/lucasb-eyer/go-colorful"

// Wheel is one of the three grading wheels.
type Wheel struct {
	Hue        float32 `json:"hue"`        // degrees, [0,360)
	Saturation float32 `json:"saturation"` // UI units
	Luminance  float32 `json:"luminance"`  // UI units
}

// Grading is the color-grading sub-record.
type Grading struct {
	Shadows   Wheel   `json:"shadows"`
	Midtones  Wheel   `json:"midtones"`
	Highlights Wheel  `json:"highlights"`
	Blending  float32 `json:"blending"` // UI units, default 50
	Balance   float32 `json:"balance"`  // UI units, default 0
}

// Default returns the neutral grading: all wheels zeroed, blending 50,
// balance 0, per spec.md §4.G default-filling rules.
func Default() Grading {
	return Grading{Blending: 50}
}

// Normalized is the working-unit form of a Grading: saturation and
// luminance divided by 500, blending by 100, balance by 200
// (spec.md §3).
type Normalized struct {
	Shadows, Midtones, Highlights NormalizedWheel
	Blending, Balance             float32
}

type NormalizedWheel struct {
	Hue        float32 // degrees, unscaled
	Saturation float32
	Luminance  float32
}

func normalizeWheel(w Wheel) NormalizedWheel {
	return NormalizedWheel{Hue: w.Hue, Saturation: w.Saturation / 500, Luminance: w.Luminance / 500}
}

func (g Grading) Normalize() Normalized {
	return Normalized{
		Shadows:    normalizeWheel(g.Shadows),
		Midtones:   normalizeWheel(g.Midtones),
		Highlights: normalizeWheel(g.Highlights),
		Blending:   g.Blending / 100,
		Balance:    g.Balance / 200,
	}
}

// wheelTint returns (hsv(hue,1,1) - 0.5) as an RGB triple: the
// saturation-weighted color offset a wheel contributes, per spec.md
// §4.D.6.
func wheelTint(hue float32) (r, g, b float32) {
	c := colorful.Hsv(float64(hue), 1, 1)
	return float32(c.R) - 0.5, float32(c.G) - 0.5, float32(c.B) - 0.5
}

// zoneMasks computes the shadow/midtone/highlight masks from luma by
// double smoothstep, with crossovers at 0.1 and 0.5 shifted by
// balance and feathered by 0.2*blending (spec.md §4.D.6).
func zoneMasks(luma float32, n Normalized) (shadow, midtone, highlight float32) {
	feather := 0.2 * n.Blending
	if feather < 0.001 {
		feather = 0.001
	}
	lowCross := 0.1 + n.Balance
	highCross := 0.5 + n.Balance

	lowRamp := smoothstep(lowCross-feather, lowCross+feather, luma)
	highRamp := smoothstep(highCross-feather, highCross+feather, luma)

	shadow = 1 - lowRamp
	highlight = highRamp
	midtone = lowRamp * (1 - highRamp)
	return
}

func smoothstep(e0, e1, x float32) float32 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// Apply adds each wheel's tint and luminance offset to an RGB triple
// in linear space, weighted by its zone mask and per-zone constants
// (kSat 0.3/0.6/0.8, kLum 0.5/0.8/1.0 for shadows/midtones/highlights),
// per spec.md §4.D.6.
func Apply(r, g, b, luma float32, n Normalized) (float32, float32, float32) {
	shadowM, midM, highM := zoneMasks(luma, n)

	apply := func(r, g, b float32, w NormalizedWheel, mask, kSat, kLum float32) (float32, float32, float32) {
		tr, tg, tb := wheelTint(w.Hue)
		weight := w.Saturation * mask * kSat
		r += tr * weight
		g += tg * weight
		b += tb * weight
		lum := w.Luminance * mask * kLum
		r += lum
		g += lum
		b += lum
		return r, g, b
	}

	r, g, b = apply(r, g, b, n.Shadows, shadowM, 0.3, 0.5)
	r, g, b = apply(r, g, b, n.Midtones, midM, 0.6, 0.8)
	r, g, b = apply(r, g, b, n.Highlights, highM, 0.8, 1.0)
	return r, g, b
}
