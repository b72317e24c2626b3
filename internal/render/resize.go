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

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/mlnoga/rawforge/internal/raw"
)

// hdrScale maps the linear float range this engine carries pre-sRGB
// (values can run a few multiples above 1.0 until highlight
// compression has settled them) into the 16-bit channel range
// image/color and golang.org/x/image/draw operate in.
const hdrScale = 16383.75 // float 4.0 <-> 0xffff

// floatColor carries one RGBA quad through the draw package's
// resampling machinery at 16-bit precision.
type floatColor struct{ r, g, b, a float32 }

func (c floatColor) RGBA() (r, g, b, a uint32) {
	clampCh := func(v float32) uint32 {
		s := v * hdrScale
		if s < 0 {
			s = 0
		}
		if s > 0xffff {
			s = 0xffff
		}
		return uint32(s)
	}
	return clampCh(c.r), clampCh(c.g), clampCh(c.b), clampCh(c.a)
}

var floatColorModel = color.ModelFunc(func(c color.Color) color.Color {
	if fc, ok := c.(floatColor); ok {
		return fc
	}
	r, g, b, a := c.RGBA()
	return floatColor{float32(r) / hdrScale, float32(g) / hdrScale, float32(b) / hdrScale, float32(a) / hdrScale}
})

// floatImage adapts a raw.Image into image.Image/draw.Image so
// golang.org/x/image/draw's resamplers can operate over it directly,
// the way spec.md §4.E's "triangle-filter downscale" is implemented
// here with draw.BiLinear.Scale.
type floatImage struct {
	img *raw.Image
}

func (f *floatImage) ColorModel() color.Model { return floatColorModel }
func (f *floatImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.img.Width, f.img.Height)
}
func (f *floatImage) At(x, y int) color.Color {
	r, g, b, a := f.img.At(x, y)
	return floatColor{r, g, b, a}
}
func (f *floatImage) Set(x, y int, c color.Color) {
	fc, _ := floatColorModel.Convert(c).(floatColor)
	f.img.Set(x, y, fc.r, fc.g, fc.b, fc.a)
}

// FitDims returns the largest (w,h) with w<=maxW, h<=maxH that
// preserves srcW:srcH aspect ratio, per spec.md §4.E step 1. If the
// source already fits, it is returned unchanged.
func FitDims(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}
	scale := float64(maxW) / float64(srcW)
	if s := float64(maxH) / float64(srcH); s < scale {
		scale = s
	}
	w := int(float64(srcW)*scale + 0.5)
	h := int(float64(srcH)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize downscales img to exactly (width,height) using a bilinear
// resampler, standing in for the triangle filter of spec.md §4.E.
// Upscaling is not expected on this path (FitDims never grows an
// image) but works the same way.
func Resize(img *raw.Image, width, height int) *raw.Image {
	if width == img.Width && height == img.Height {
		return img
	}
	src := &floatImage{img: img}
	dst := &floatImage{img: raw.NewImage(width, height)}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst.img
}
