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
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"
	"strings"

	"golang.org/x/image/draw"

	"github.com/mlnoga/rawforge/internal/bufpool"
)

// ---- brush stamping ----

type lineMode struct {
	line BrushLine
	mode Mode
}

func stampSortedLines(lm []lineMode, width, height int) []uint8 {
	sort.SliceStable(lm, func(i, j int) bool { return lm[i].line.Order < lm[j].line.Order })
	buf := bufpool.GetFloat32(width * height)
	defer bufpool.PutFloat32(buf)
	for _, e := range lm {
		stampLine(buf, e.line, e.mode, width, height)
	}
	out := make([]uint8, width*height)
	for i, v := range buf {
		out[i] = intensityToByte(v)
	}
	return out
}

// rasterizeBrushLines stamps a single sub-mask's own lines, using its
// own mode for "brush" tool lines and forcing Subtractive for "eraser"
// tool lines, per spec.md §4.C.
func rasterizeBrushLines(lines []BrushLine, baseMode Mode, width, height int) []uint8 {
	lm := make([]lineMode, len(lines))
	for i, l := range lines {
		m := baseMode
		if l.Tool == ToolEraser {
			m = Subtractive
		}
		lm[i] = lineMode{l, m}
	}
	return stampSortedLines(lm, width, height)
}

// combineBrushSubMasks gathers every line from every visible brush
// sub-mask of a mask, sorts them globally by Order, and stamps them
// onto one shared buffer -- the "all brush stamps first" phase of
// spec.md §4.C/§9. Returns nil when the mask has no brush sub-masks.
func combineBrushSubMasks(subMasks []SubMask, width, height int) []uint8 {
	var lm []lineMode
	for _, sm := range subMasks {
		if sm.Type != TypeBrush || !sm.Visible {
			continue
		}
		bp, ok := sm.Params.(*BrushParams)
		if !ok {
			continue
		}
		for _, l := range bp.Lines {
			m := sm.Mode
			if l.Tool == ToolEraser {
				m = Subtractive
			}
			lm = append(lm, lineMode{l, m})
		}
	}
	if len(lm) == 0 {
		return nil
	}
	return stampSortedLines(lm, width, height)
}

func discIntensity(d, radius, feather float32) float32 {
	full := radius * (1 - feather)
	if d <= full {
		return 1
	}
	if d >= radius {
		return 0
	}
	if radius-full <= 0 {
		return 0
	}
	return (radius - d) / (radius - full)
}

func stampLine(buf []float32, line BrushLine, mode Mode, width, height int) {
	if len(line.Points) == 0 {
		return
	}
	radius := denormLen(line.BrushSize, width, height) / 2
	if radius < 1 {
		radius = 1
	}
	feather := colorspaceClamp01(line.Feather)

	pts := make([][2]float64, len(line.Points))
	for i, p := range line.Points {
		pts[i] = [2]float64{float64(denormPos(p.X, width)), float64(denormPos(p.Y, height))}
	}

	stampDisc := func(cx, cy float64) {
		rad := float64(radius)
		minX, maxX := clampInt(int(math.Floor(cx-rad)), 0, width-1), clampInt(int(math.Ceil(cx+rad)), 0, width-1)
		minY, maxY := clampInt(int(math.Floor(cy-rad)), 0, height-1), clampInt(int(math.Ceil(cy+rad)), 0, height-1)
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				d := math.Hypot(float64(x)-cx, float64(y)-cy)
				stamp := discIntensity(float32(d), radius, feather)
				if stamp <= 0 {
					continue
				}
				idx := y*width + x
				dst := buf[idx]
				if mode == Subtractive {
					buf[idx] = dst * (1 - stamp)
				} else {
					buf[idx] = 1 - (1-dst)*(1-stamp)
				}
			}
		}
	}

	if len(pts) == 1 {
		stampDisc(pts[0][0], pts[0][1])
		return
	}
	for i := 0; i < len(pts)-1; i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		inner := math.Hypot(x1-x0, y1-y0)
		step := math.Max(0.75, math.Min(inner/3, float64(radius)/4))
		steps := int(math.Ceil(inner / step))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			stampDisc(x0+(x1-x0)*t, y0+(y1-y0)*t)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---- sub-mask composition ----

// composeSubMasks builds a mask's influence bitmap by combining all
// brush sub-masks first, then compositing every remaining visible
// sub-mask on top with Additive (dst=max(dst,src)) or Subtractive
// (dst=dst*(1-src/255)) blending (spec.md §4.C). Returns nil when the
// mask has no sub-masks at all (influence is 1 everywhere).
func composeSubMasks(subMasks []SubMask, width, height int) []uint8 {
	if len(subMasks) == 0 {
		return nil
	}
	base := combineBrushSubMasks(subMasks, width, height)
	dst := base
	if dst == nil {
		dst = make([]uint8, width*height)
	}
	for _, sm := range subMasks {
		if sm.Type == TypeBrush || !sm.Visible {
			continue
		}
		src := sm.Params.Rasterize(width, height)
		if src == nil {
			continue
		}
		for i := range dst {
			s := float32(src[i])
			d := float32(dst[i])
			var nd float32
			if sm.Mode == Subtractive {
				nd = d * (1 - s/255)
			} else if s > d {
				nd = s
			} else {
				nd = d
			}
			dst[i] = uint8(nd + 0.5)
		}
	}
	return dst
}

// Rasterize computes the bitmap for a mask definition at the given
// dimensions, per spec.md §4.C.
func Rasterize(def Definition, width, height int) []uint8 {
	return composeSubMasks(def.SubMasks, width, height)
}

// ---- AI-subject / bitmap sub-mask decode ----

func decodeResizeBlurBitmap(dataURL string, softness float32, width, height int) ([]uint8, error) {
	if strings.TrimSpace(dataURL) == "" {
		return nil, errors.New("mask: no bitmap data provided")
	}
	raw := dataURL
	if idx := strings.Index(dataURL, ","); idx >= 0 && strings.HasPrefix(dataURL, "data:") {
		raw = dataURL[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}

	gray := toGray(src)
	if gray.Bounds().Dx() != width || gray.Bounds().Dy() != height {
		scaled := image.NewGray(image.Rect(0, 0, width, height))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Over, nil)
		gray = scaled
	}

	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = gray.GrayAt(x, y).Y
		}
	}

	radius := int(math.Round(float64(softness) * 10))
	if radius > 0 {
		out = boxBlurSeparable(out, width, height, radius)
	}
	return out, nil
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
	return gray
}

// boxBlurSeparable applies a 1-D box blur of the given radius along
// each axis in turn, replicating edge pixels (spec.md §4.C).
func boxBlurSeparable(data []uint8, width, height, radius int) []uint8 {
	tmp := bufpool.GetFloat32(width * height)
	defer bufpool.PutFloat32(tmp)
	out := make([]uint8, width*height)
	win := 2*radius + 1

	// Horizontal pass.
	for y := 0; y < height; y++ {
		row := data[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			sum := float32(0)
			for k := -radius; k <= radius; k++ {
				xx := clampInt(x+k, 0, width-1)
				sum += float32(row[xx])
			}
			tmp[y*width+x] = sum / float32(win)
		}
	}
	// Vertical pass.
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			sum := float32(0)
			for k := -radius; k <= radius; k++ {
				yy := clampInt(y+k, 0, height-1)
				sum += tmp[yy*width+x]
			}
			v := sum / float32(win)
			out[y*width+x] = uint8(colorspaceClamp01(v/255)*255 + 0.5)
		}
	}
	return out
}
