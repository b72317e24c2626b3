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
	"github.com/mlnoga/rawforge/internal/curve"
	"github.com/mlnoga/rawforge/internal/kernel"
	"github.com/mlnoga/rawforge/internal/mask"
	"github.com/mlnoga/rawforge/internal/payload"
)

// MaskRuntime is the compiled, per-(width,height) form of one payload
// mask (spec.md §3 "Per-mask runtime"): an opacity factor, the invert
// flag, its adjustments and compiled curves, and an optional
// width*height influence bitmap. It lives in this package rather than
// internal/mask to avoid a mask<->kernel import cycle: compiling a
// mask's adjustments/curves needs the kernel and curve packages, which
// the mask package (rasterization only) does not and should not
// depend on.
type MaskRuntime struct {
	Name        string
	Visible     bool
	Invert      bool
	Opacity     float32 // 0..1
	Adjustments kernel.Adjustments
	Curves      curve.Set
	Bitmap      []uint8 // nil means "influence 1 everywhere"
}

// CompileGlobalCurves compiles a payload's top-level curve bundle.
func CompileGlobalCurves(c payload.Curves) curve.Set {
	return curve.CompileSet(c.Luma, c.Red, c.Green, c.Blue)
}

// CompileMask rasterizes m's bitmap at (width,height) and compiles its
// adjustments/curves, producing the runtime form the composer mixes
// in per pixel.
func CompileMask(m payload.Mask, width, height int) MaskRuntime {
	return MaskRuntime{
		Name:        m.Definition.Name,
		Visible:     m.Definition.Visible,
		Invert:      m.Definition.Invert,
		Opacity:     m.Definition.Opacity / 100,
		Adjustments: m.Adjustments,
		Curves:      curve.CompileSet(m.Curves.Luma, m.Curves.Red, m.Curves.Green, m.Curves.Blue),
		Bitmap:      mask.Rasterize(m.Definition, width, height),
	}
}

// CompileMasks compiles every mask of a payload in declared order.
func CompileMasks(masks []payload.Mask, width, height int) []MaskRuntime {
	out := make([]MaskRuntime, 0, len(masks))
	for _, m := range masks {
		out = append(out, CompileMask(m, width, height))
	}
	return out
}

// Influence returns this mask's [0,1] weight at pixel index i
// (row-major, width*height domain), per spec.md §4.E: selection from
// the bitmap (or 1 if absent), times opacity, inverted if Invert,
// clamped to [0,1].
func (mr MaskRuntime) Influence(i int) float32 {
	if !mr.Visible {
		return 0
	}
	selection := float32(1)
	if mr.Bitmap != nil {
		selection = float32(mr.Bitmap[i]) / 255
	}
	if mr.Invert {
		selection = 1 - selection
	}
	infl := selection * mr.Opacity
	if infl < 0 {
		return 0
	}
	if infl > 1 {
		return 1
	}
	return infl
}

// CurvesActive reports whether this mask's curve set would change any
// pixel.
func (mr MaskRuntime) CurvesActive() bool {
	return mr.Curves.Active()
}
