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

// Package raw develops a camera RAW file into a linear RGBA buffer:
// decode the Bayer/CFA mosaic and demosaic it, rescale by fixed
// black/white levels, compress blown highlights, and orient. The white
// level is not replaced before demosaic: the levels depend only on the
// decoded image type (see decodeSource).
//
// Decoding is grounded on github.com/mdouchement/tiff, whose CFA path
// demosaics via its bayer sub-package and writes the result as an
// github.com/mdouchement/hdr XYZ image (sensor RGB run through the
// sRGB/XYZ matrix); we read that back out and invert the matrix with
// go-colorful's XyzToLinearRgb, the same conversion the hdrcolor
// package itself uses.
package raw

import (
	"bytes"
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/tiff" // registers the "tiff" image format, including RAW/CFA variants

	"github.com/mlnoga/rawforge/internal/engineerr"
)

// compression is the fixed highlight-compression constant of spec.md
// §4.A, clamped to a minimum of 1.01 to keep the denominator from
// vanishing.
const compression = 2.5

// Image is a developed linear RGBA buffer: width*height*4 float32s,
// alpha always 1.0 (spec.md §3 "Linear image buffer").
type Image struct {
	Width, Height int
	Pix           []float32 // len == Width*Height*4
}

// NewImage allocates a zeroed linear image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]float32, width*height*4)}
}

// At returns the RGBA quad at (x,y).
func (im *Image) At(x, y int) (r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	p := im.Pix[i : i+4]
	return p[0], p[1], p[2], p[3]
}

// Set writes the RGBA quad at (x,y).
func (im *Image) Set(x, y int, r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	p := im.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, a
}

// Options controls how Decode develops a RAW file.
type Options struct {
	// FastDemosaic hints that this decode feeds a low-resolution
	// preview tier; the render composer sets it for SuperLow/Low
	// requests and leaves it false for Preview and full-resolution
	// exports. Decode does not read it: every tier goes through the
	// same decoder demosaic.
	FastDemosaic bool
}

// blackWhiteLevels carries the black/white levels the rescale step
// (spec.md §4.A step 4) maps to 0 and 1. decodeSource fixes them per
// decoded image type; they are not read from the sensor.
type blackWhiteLevels struct {
	black, white float64
}

// Decode develops raw bytes into a linear RGBA Image. It returns
// engineerr.DecodeError on any failure to parse or develop the mosaic.
// Orientation is applied separately by Orient, once the caller has
// read the EXIF orientation tag via the metadata package -- the RAW
// decode step itself is orientation-agnostic.
func Decode(data []byte, opts Options) (*Image, error) {
	src, levels, err := decodeSource(data)
	if err != nil {
		return nil, engineerr.New(engineerr.DecodeError, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, engineerr.New(engineerr.DecodeError, fmt.Errorf("raw: empty image"))
	}

	img := NewImage(width, height)

	denom := levels.white - levels.black
	if denom < 1 {
		denom = 1
	}
	scale := float32(1.0 / denom)
	offset := float32(-levels.black / denom)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := sensorRGB(src, bounds.Min.X+x, bounds.Min.Y+y)
			fr := float32(r)*scale + offset
			fg := float32(g)*scale + offset
			fb := float32(b)*scale + offset
			fr, fg, fb = compressHighlights(fr, fg, fb)
			img.Set(x, y, fr, fg, fb, 1)
		}
	}

	return img, nil
}

// decodeSource hands back the decoded image.Image plus the original
// sensor black/white levels. A plain (already demosaiced, non-CFA)
// tiff decodes to a standard color model with implicit levels 0/65535.
func decodeSource(data []byte) (image.Image, blackWhiteLevels, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, blackWhiteLevels{}, fmt.Errorf("raw: decode: %w", err)
	}
	if xyz, ok := src.(*hdr.XYZ); ok {
		return xyz, blackWhiteLevels{black: 0, white: 1}, nil
	}
	// Non-CFA tiff (already demosaiced by the decoder): levels are the
	// full 16-bit range, matching image/color.RGBA64's convention.
	return src, blackWhiteLevels{black: 0, white: 65535}, nil
}

// sensorRGB reads one pixel back out of the decoded image as linear
// scene-referred RGB, regardless of whether the decoder produced an
// HDR XYZ image (CFA/RAW path) or a conventional 16-bit RGB image.
func sensorRGB(src image.Image, x, y int) (r, g, b float64) {
	if xyz, ok := src.(*hdr.XYZ); ok {
		c := xyz.XYZAt(x, y)
		return colorful.XyzToLinearRgb(c.X, c.Y, c.Z)
	}
	cr, cg, cb, _ := src.At(x, y).RGBA()
	return float64(cr), float64(cg), float64(cb)
}

// compressHighlights implements spec.md §4.A step 5: for pixels with
// max channel > 1, compress the triple toward its minimum channel by
// a factor f, then rescale so the new max matches the original max --
// preserving brightness while desaturating the blown highlight.
func compressHighlights(r, g, b float32) (float32, float32, float32) {
	maxC := maxOf3(r, g, b)
	if maxC <= 1 {
		return r, g, b
	}
	comp := float32(compression)
	if comp < 1.01 {
		comp = 1.01
	}
	minC := minOf3(r, g, b)
	f := 1 - (maxC-1)/(comp-1)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}

	cr := minC + (r-minC)*f
	cg := minC + (g-minC)*f
	cb := minC + (b-minC)*f

	newMax := maxOf3(cr, cg, cb)
	if newMax <= 0 {
		return cr, cg, cb
	}
	rescale := maxC / newMax
	return cr * rescale, cg * rescale, cb * rescale
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
