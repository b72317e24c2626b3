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

// Package render glues the other components together per spec.md
// §4.E: decode -> kernel -> mask composite -> curves -> vignette ->
// sRGB -> JPEG. Per-pixel work is partitioned into row bands and run
// across goroutines the way the teacher's fits.Image.ApplyPixelFunction
// parallelizes its own pixel loops (see pixelloop.go).
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/mlnoga/rawforge/internal/colorspace"
	"github.com/mlnoga/rawforge/internal/engineerr"
	"github.com/mlnoga/rawforge/internal/kernel"
	"github.com/mlnoga/rawforge/internal/payload"
	"github.com/mlnoga/rawforge/internal/raw"
)

// Quality is the JPEG encode quality spec.md §4.E.5 specifies: 88 for
// fast previews, 96 for full-resolution export.
type Quality int

const (
	QualityPreview Quality = 88
	QualityFull     Quality = 96
)

// Compose runs the full develop pipeline over an already-decoded and
// already-sized linear image and returns encoded JPEG bytes.
func Compose(img *raw.Image, p payload.Payload, masks []MaskRuntime, quality Quality) ([]byte, error) {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))

	globalCurves := CompileGlobalCurves(p.Curves)
	anyCurvesActive := globalCurves.Active()
	if !anyCurvesActive {
		for _, m := range masks {
			if m.Visible && m.CurvesActive() {
				anyCurvesActive = true
				break
			}
		}
	}

	applyDefaultRaw := p.Adjustments.ToneMapper == kernel.Basic

	forEachRow(img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			r, g, b, _ := img.At(x, y)

			if applyDefaultRaw {
				r, g, b = kernel.DefaultRawProcess(r, g, b)
			}
			base0, base1, base2 := kernel.Apply(r, g, b, p.Adjustments)

			i := y*img.Width + x
			for _, m := range masks {
				infl := m.Influence(i)
				if infl < 0.001 {
					continue
				}
				t0, t1, t2 := kernel.Apply(base0, base1, base2, m.Adjustments)
				base0 += (t0 - base0) * infl
				base1 += (t1 - base1) * infl
				base2 += (t2 - base2) * infl
			}

			s0 := colorspace.LinearToSRGB(base0)
			s1 := colorspace.LinearToSRGB(base1)
			s2 := colorspace.LinearToSRGB(base2)

			if anyCurvesActive {
				if globalCurves.Active() {
					s0, s1, s2 = globalCurves.ApplyAll(s0, s1, s2)
				}
				for _, m := range masks {
					if !m.Visible || !m.CurvesActive() {
						continue
					}
					infl := m.Influence(i)
					if infl < 0.001 {
						continue
					}
					t0, t1, t2 := m.Curves.ApplyAll(s0, s1, s2)
					s0 += (t0 - s0) * infl
					s1 += (t1 - s1) * infl
					s2 += (t2 - s2) * infl
				}
			}

			s0, s1, s2 = applyVignette(s0, s1, s2, x, y, img.Width, img.Height, p.Adjustments)

			out.SetRGBA(x, y, color.RGBA{
				R: quantize(s0),
				G: quantize(s1),
				B: quantize(s2),
				A: 255,
			})
		}
	})

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: int(quality)}); err != nil {
		return nil, engineerr.New(engineerr.EncodeError, err)
	}
	return buf.Bytes(), nil
}

func quantize(v float32) uint8 {
	v = colorspace.Clamp01(v)
	return uint8(v*255 + 0.5)
}

// applyVignette implements spec.md §4.E's vignette stage: radial
// distance from center with aspect correction and a roundness
// exponent, feathered by smoothstep(mid-f, mid+f, d). Negative amount
// darkens multiplicatively; positive amount blends toward white.
func applyVignette(r, g, b float32, x, y, width, height int, a kernel.Adjustments) (float32, float32, float32) {
	amount := a.VignetteAmount / 100
	if amount == 0 {
		return r, g, b
	}
	midpoint := a.VignetteMidpoint/100 + 0.5
	roundness := a.VignetteRoundness / 100
	feather := a.VignetteFeather / 100
	if feather < 0.001 {
		feather = 0.001
	}

	cx, cy := float64(width-1)/2, float64(height-1)/2
	dx := (float64(x) - cx) / cx
	dy := (float64(y) - cy) / cy
	if cx == 0 {
		dx = 0
	}
	if cy == 0 {
		dy = 0
	}

	aspect := float64(width) / float64(height)
	if aspect > 1 {
		dy *= aspect
	} else if aspect > 0 {
		dx /= aspect
	}

	exponent := 2.0 - float64(roundness)
	if exponent < 0.5 {
		exponent = 0.5
	}
	d := math.Pow(math.Pow(math.Abs(dx), exponent)+math.Pow(math.Abs(dy), exponent), 1/exponent) / math.Sqrt2

	mask := colorspace.Smoothstep(float32(midpoint)-feather, float32(midpoint)+feather, float32(d))

	if amount < 0 {
		factor := colorspace.Clamp(1+amount*mask, 0, 2)
		return r * factor, g * factor, b * factor
	}
	blend := colorspace.Clamp01(amount * mask)
	return r + (1-r)*blend, g + (1-g)*blend, b + (1-b)*blend
}
