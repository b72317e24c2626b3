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

package kernel

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/rawforge/internal/colorgrade"
	"github.com/mlnoga/rawforge/internal/colorspace"
)

// Apply runs steps 2-10 of the per-pixel kernel of spec.md §4.D (the
// default-RAW-processing block, step 1, runs once globally via
// DefaultRawProcess -- see the render composer, spec.md §4.E) over a
// single linear RGB triple and returns the clamped [0,1] result.
// No neighborhood state is read or written: the kernel is safe to
// call from any number of goroutines over disjoint pixels.
func Apply(r, g, b float32, a Adjustments) (float32, float32, float32) {
	n := a.normalize()

	r, g, b = temperatureTint(r, g, b, n.temperature, n.tint)
	r, g, b = filmicBrightness(r, g, b, n.exposure)
	r, g, b = tonalBlock(r, g, b, n)
	r, g, b = highlightsRecover(r, g, b, n.highlights)
	r, g, b = colorgrade.Apply(r, g, b, colorspace.Luma(r, g, b), a.ColorGrading.Normalize())
	r, g, b = saturate(r, g, b, n.saturation)
	r, g, b = vibrance(r, g, b, n.vibrance)
	r, g, b = detailGains(r, g, b, n)

	return colorspace.Clamp01(r), colorspace.Clamp01(g), colorspace.Clamp01(b)
}

// ---- step 1: default RAW processing (Basic tone mapper only) ----

// DefaultRawProcess runs once, globally, ahead of Apply, when the
// global adjustments' ToneMapper is Basic (spec.md §4.D step 1):
// linear->sRGB, gamma brightening (exponent 1/1.1), a 0.75-blended
// S-curve, sRGB->linear.
func DefaultRawProcess(r, g, b float32) (float32, float32, float32) {
	apply := func(c float32) float32 {
		s := colorspace.LinearToSRGB(c)
		sign := float32(1)
		as := s
		if as < 0 {
			sign, as = -1, -as
		}
		gammaBright := sign * float32(math.Pow(float64(as), 1.0/1.1))
		t := gammaBright
		sCurve := t * t * (3 - 2*t)
		mixed := t + (sCurve-t)*0.75
		return colorspace.SRGBToLinear(mixed)
	}
	return apply(r), apply(g), apply(b)
}

// ---- step 2: temperature & tint ----

func temperatureTint(r, g, b, temp, tint float32) (float32, float32, float32) {
	r *= 1 + 0.2*temp
	g *= 1 + 0.05*temp
	b *= 1 - 0.2*temp

	r *= 1 + 0.25*tint
	g *= 1 - 0.25*tint
	b *= 1 + 0.25*tint
	return r, g, b
}

// ---- step 3: filmic brightness ----

func filmicBrightness(r, g, b, exposureNorm float32) (float32, float32, float32) {
	oldLuma := colorspace.Luma(r, g, b)
	factor := float32(math.Pow(2, float64(exposureNorm)))

	rational := func(c float32) float32 {
		exposed := c * factor
		rat := exposed / (exposed + 1)
		return 0.95*rat + 0.05*exposed
	}
	mr, mg, mb := rational(r), rational(g), rational(b)
	newLuma := colorspace.Luma(mr, mg, mb)

	var chromaScale float32 = 1
	if oldLuma > 1e-4 && newLuma > 0 {
		chromaScale = float32(math.Pow(float64(newLuma/oldLuma), 0.8))
	}
	rOut := newLuma + (mr-newLuma)*chromaScale
	gOut := newLuma + (mg-newLuma)*chromaScale
	bOut := newLuma + (mb-newLuma)*chromaScale
	return rOut, gOut, bOut
}

// ---- step 4: tonal block (whites, blacks, shadows, contrast) ----

func tonalBlock(r, g, b float32, n normalized) (float32, float32, float32) {
	// Whites.
	whiteDiv := float32(math.Max(0.01, float64(1-0.25*n.whites)))
	r, g, b = r/whiteDiv, g/whiteDiv, b/whiteDiv

	luma := colorspace.Luma(r, g, b)

	// Blacks.
	blacksMask := 1 - colorspace.Smoothstep(0, 0.25, luma)
	blacksFactor := float32(math.Pow(2, float64(0.75*n.blacks)))
	r, g, b = maskedScale(r, blacksFactor, blacksMask), maskedScale(g, blacksFactor, blacksMask), maskedScale(b, blacksFactor, blacksMask)

	// Shadows.
	shadowRamp := 1 - colorspace.Smoothstep(0, 0.4, luma)
	shadowsMask := shadowRamp * shadowRamp * shadowRamp
	shadowsFactor := float32(math.Pow(2, float64(1.5*n.shadows)))
	r, g, b = maskedScale(r, shadowsFactor, shadowsMask), maskedScale(g, shadowsFactor, shadowsMask), maskedScale(b, shadowsFactor, shadowsMask)

	// Contrast: perceptual-gamma S-curve around 0.5, mixed back toward
	// the original near clipping.
	strength := float32(math.Pow(2, float64(1.25*n.contrast)))
	r = contrastChannel(r, strength)
	g = contrastChannel(g, strength)
	b = contrastChannel(b, strength)

	return r, g, b
}

func maskedScale(c, factor, mask float32) float32 {
	return c * (1 + mask*(factor-1))
}

// contrastChannel applies a perceptual-gamma S-curve around 0.5: each
// half of the [0,1] perceptual range is bent by its own power curve so
// the midpoint and endpoints stay fixed, then mixed back toward the
// untouched input as the input approaches/exceeds 1 so highlights
// don't clip harder than the rest of the tonal block already clipped
// them.
func contrastChannel(c, strength float32) float32 {
	safe := c
	if safe < 0 {
		safe = 0
	}
	pc := float32(math.Pow(float64(safe), 1.0/2.2))
	if pc > 1 {
		pc = 1
	}

	var pcOut float32
	if pc < 0.5 {
		pcOut = 0.5 * float32(math.Pow(float64(2*pc), float64(strength)))
	} else {
		pcOut = 1 - 0.5*float32(math.Pow(float64(2*(1-pc)), float64(strength)))
	}
	out := float32(math.Pow(float64(pcOut), 2.2))

	mixFactor := colorspace.Smoothstep(1.0, 1.01, safe)
	return out + (c-out)*mixFactor
}

// ---- step 5: highlights recovery ----

func highlightsRecover(r, g, b, h float32) (float32, float32, float32) {
	luma := colorspace.Luma(r, g, b)
	mask := colorspace.Smoothstep(0.3, 0.95, float32(math.Tanh(1.5*float64(luma))))

	if h < 0 {
		exponent := 1 - 1.75*h
		var newLuma float32
		if luma <= 1 {
			base := luma
			if base < 0 {
				base = 0
			}
			newLuma = float32(math.Pow(float64(base), float64(exponent)))
		} else {
			excess := luma - 1
			compressionStrength := -6 * h
			newLuma = 1 + excess/(1+excess*compressionStrength)
		}
		scale := float32(1)
		if luma > 1e-4 {
			scale = newLuma / luma
		}
		desat := colorspace.Smoothstep(1.0, 10.0, luma)
		apply := func(c float32) float32 {
			scaled := c * scale
			return scaled + (newLuma-scaled)*desat
		}
		tr, tg, tb := apply(r), apply(g), apply(b)
		return lerp3(r, g, b, tr, tg, tb, mask)
	}

	factor := float32(math.Pow(2, float64(1.75*h)))
	return lerp3(r, g, b, r*factor, g*factor, b*factor, mask)
}

func lerp3(r, g, b, tr, tg, tb, t float32) (float32, float32, float32) {
	return r + (tr-r)*t, g + (tg-g)*t, b + (tb-b)*t
}

// ---- step 7: saturation ----

func saturate(r, g, b, sat float32) (float32, float32, float32) {
	luma := colorspace.Luma(r, g, b)
	factor := 1 + sat
	return luma + (r-luma)*factor, luma + (g-luma)*factor, luma + (b-luma)*factor
}

// ---- step 8: vibrance ----

func vibrance(r, g, b, vib float32) (float32, float32, float32) {
	if vib == 0 {
		return r, g, b
	}
	maxC := maxOf3(r, g, b)
	minC := minOf3(r, g, b)
	if maxC-minC < 0.02 {
		return r, g, b
	}
	luma := colorspace.Luma(r, g, b)
	var currentSat float32
	if maxC > 1e-4 {
		currentSat = (maxC - minC) / maxC
	}

	clampedColor := colorful.Color{R: float64(colorspace.Clamp01(r)), G: float64(colorspace.Clamp01(g)), B: float64(colorspace.Clamp01(b))}
	hue, _, _ := clampedColor.Hsv()

	var mixFactor float32
	if vib > 0 {
		mask := 1 - colorspace.Smoothstep(0.4, 0.9, currentSat)
		hueDist := circularHueDist(float32(hue), 25)
		skinMask := colorspace.Smoothstep(35, 10, hueDist)
		skinDamp := 1 - 0.4*skinMask
		mixFactor = 1 + vib*mask*skinDamp*3
	} else {
		mask := 1 - colorspace.Smoothstep(0.2, 0.8, currentSat)
		mixFactor = 1 + vib*mask*3
	}
	return luma + (r-luma)*mixFactor, luma + (g-luma)*mixFactor, luma + (b-luma)*mixFactor
}

func circularHueDist(h, target float32) float32 {
	d := float32(math.Abs(float64(h - target)))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ---- step 9: detail gains ----

func detailGains(r, g, b float32, n normalized) (float32, float32, float32) {
	luma := colorspace.Luma(r, g, b)
	detailMask := colorspace.Clamp(luma-0.5, -0.5, 0.5) * 2

	gain := n.clarity*(0.15/100)*detailMask +
		n.dehaze*(1.0/500)*(luma-0.5) +
		n.structure*(0.1/200)*detailMask +
		n.centre*(0.08/200)*float32(math.Abs(float64(detailMask))) +
		n.sharpness*(0.12/100)*detailMask

	return r + gain, g + gain, b + gain
}

func maxOf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minOf3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
