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

// Package kernel implements the per-pixel color/tone adjustment
// kernel of spec.md §4.D: a fixed-order sequence of operations in
// linear RGB, no neighborhood state, safe to run in parallel per pixel.
package kernel

import "github.com/mlnoga/rawforge/internal/colorgrade"

// ToneMapper selects whether the default-RAW-processing block runs.
type ToneMapper string

const (
	Basic ToneMapper = "Basic"
	AgX   ToneMapper = "AgX"
)

// Adjustments is the flat ~24-scalar adjustment vector of spec.md §3,
// in UI units (typically -100..100). A mask's adjustments are the
// same shape, minus vignette.
type Adjustments struct {
	Exposure    float32 `json:"exposure"`
	Brightness  float32 `json:"brightness"` // reserved, no-op -- exposure drives the filmic curve instead, see scales.go
	Contrast    float32 `json:"contrast"`
	Highlights  float32 `json:"highlights"`
	Shadows     float32 `json:"shadows"`
	Whites      float32 `json:"whites"`
	Blacks      float32 `json:"blacks"`
	Saturation  float32 `json:"saturation"`
	Temperature float32 `json:"temperature"`
	Tint        float32 `json:"tint"`
	Vibrance    float32 `json:"vibrance"`
	Clarity     float32 `json:"clarity"`
	Dehaze      float32 `json:"dehaze"`
	Structure   float32 `json:"structure"`
	Centre      float32 `json:"centre"`

	VignetteAmount   float32 `json:"vignetteAmount"`
	VignetteMidpoint float32 `json:"vignetteMidpoint"`
	VignetteRoundness float32 `json:"vignetteRoundness"`
	VignetteFeather  float32 `json:"vignetteFeather"`

	Sharpness float32 `json:"sharpness"`

	LumaNoiseReduction  float32 `json:"lumaNoiseReduction"`  // reserved, no-op
	ColorNoiseReduction float32 `json:"colorNoiseReduction"` // reserved, no-op

	ChromaticAberrationRC float32 `json:"chromaticAberrationRC"` // reserved, no-op
	ChromaticAberrationBY float32 `json:"chromaticAberrationBY"` // reserved, no-op

	ToneMapper   ToneMapper          `json:"toneMapper"`
	ColorGrading colorgrade.Grading `json:"colorGrading"`
}

// Default returns the neutral adjustment vector: every scalar 0,
// Basic tone mapper, neutral color grading.
func Default() Adjustments {
	return Adjustments{
		ToneMapper:   Basic,
		ColorGrading: colorgrade.Default(),
	}
}

// scales is the fixed, constant normalization-divisor table of
// spec.md §3: each UI scalar is divided by its entry to produce the
// normalized working value the kernel math operates on. Divisors near
// zero are treated as identity (divisor 1) to avoid division-by-zero.
//
// Values are ground truth's own ADJUSTMENT_SCALES table, not a uniform
// 100: the §4.D coefficients are tuned against these specific
// divisors. Exposure and Brightness are the one deliberate departure:
// ground truth's exposure field is parsed and normalized but never
// actually consumed by its per-pixel math (brightness alone drives
// the filmic curve there), so its 0.8 divisor was never exercised.
// This kernel drives the filmic curve from exposure instead (see
// filmicBrightness's caller in kernel.go) using stop-like semantics,
// for which a divisor of 0.8 would blow the 2^x exponent up to
// unusable magnitudes across the UI's -100..100 range. Both keep a
// divisor of 100 here instead, which keeps `{"exposure":0}` and
// `{"brightness":0}` each bit-for-bit equal to the neutral render
// (spec.md §8 scenario 2) regardless of the divisor's exact value.
var scales = struct {
	Exposure, Brightness, Contrast          float32
	Highlights, Shadows, Whites, Blacks     float32
	Saturation, Temperature, Tint, Vibrance float32
	Clarity, Dehaze, Structure, Centre      float32
	Vignette, Sharpness                     float32
}{
	Exposure: 100, Brightness: 100, Contrast: 100,
	Highlights: 150, Shadows: 100, Whites: 30, Blacks: 60,
	Saturation: 100, Temperature: 25, Tint: 100, Vibrance: 100,
	Clarity: 200, Dehaze: 750, Structure: 200, Centre: 250,
	Vignette: 100, Sharpness: 80,
}

// safeDivisor treats a near-zero divisor as 1 (identity), per spec.md §3.
func safeDivisor(d float32) float32 {
	if d > -1e-6 && d < 1e-6 {
		return 1
	}
	return d
}

// normalized is the Adjustments vector divided through the scales
// table: the working values the kernel's math is expressed in.
type normalized struct {
	exposure, brightness, contrast          float32
	highlights, shadows, whites, blacks     float32
	saturation, temperature, tint, vibrance float32
	clarity, dehaze, structure, centre      float32
	vignetteAmount                          float32
	sharpness                               float32
}

func (a Adjustments) normalize() normalized {
	return normalized{
		exposure:    a.Exposure / safeDivisor(scales.Exposure),
		brightness:  a.Brightness / safeDivisor(scales.Brightness),
		contrast:    a.Contrast / safeDivisor(scales.Contrast),
		highlights:  a.Highlights / safeDivisor(scales.Highlights),
		shadows:     a.Shadows / safeDivisor(scales.Shadows),
		whites:      a.Whites / safeDivisor(scales.Whites),
		blacks:      a.Blacks / safeDivisor(scales.Blacks),
		saturation:  a.Saturation / safeDivisor(scales.Saturation),
		temperature: a.Temperature / safeDivisor(scales.Temperature),
		tint:        a.Tint / safeDivisor(scales.Tint),
		vibrance:    a.Vibrance / safeDivisor(scales.Vibrance),
		clarity:     a.Clarity / safeDivisor(scales.Clarity),
		dehaze:      a.Dehaze / safeDivisor(scales.Dehaze),
		structure:   a.Structure / safeDivisor(scales.Structure),
		centre:      a.Centre / safeDivisor(scales.Centre),
		vignetteAmount: a.VignetteAmount / safeDivisor(scales.Vignette),
		sharpness:   a.Sharpness / safeDivisor(scales.Sharpness),
	}
}
