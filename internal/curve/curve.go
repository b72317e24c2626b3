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

// Package curve compiles a sparse list of control points in the
// 0..255 coordinate system into a monotone-cubic Hermite spline
// (Fritsch-Carlson), and applies a compiled set of curves (luma plus
// per-channel RGB) to a pixel the way spec.md §4.B prescribes.
package curve

import (
	"encoding/json"
	"math"

	"github.com/mlnoga/rawforge/internal/colorspace"
)

// Point is one control point in the 0..255 coordinate system.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Curve is a sorted, monotone-in-x point list, at most 16 points. On
// the wire it is a plain JSON array of {x,y} points (spec.md §4.G),
// not an object -- MarshalJSON/UnmarshalJSON encode it that way
// directly rather than nesting it under a "points" key.
type Curve struct {
	Points []Point
}

func (c Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Points)
}

func (c *Curve) UnmarshalJSON(data []byte) error {
	var pts []Point
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	c.Points = pts
	return nil
}

// DefaultCurve returns the identity curve: (0,0) -> (255,255).
func DefaultCurve() Curve {
	return Curve{Points: []Point{{0, 0}, {255, 255}}}
}

// IsDefault reports whether c is the identity curve within the
// ±0.1 tolerance on y spec.md §3 allows. The bound carries a small
// slack because y is stored as float32: 254.9 decodes to 254.8999939,
// which lies 0.1000061 from 255.
func (c Curve) IsDefault() bool {
	if len(c.Points) != 2 {
		return false
	}
	const tol = 0.1 + 1e-4
	p0, p1 := c.Points[0], c.Points[1]
	return p0.X == 0 && p1.X == 255 &&
		math.Abs(float64(p0.Y)) <= tol &&
		math.Abs(float64(p1.Y-255)) <= tol
}

// segment is one compiled Hermite span between two adjacent points.
type segment struct {
	p1, p2   Point
	m1, m2   float32 // tangents
}

// Compiled is the evaluable form of a Curve: a vector of Hermite
// segments with Fritsch-Carlson tangents.
type Compiled struct {
	segments []segment
	points   []Point
}

// Compile builds the Hermite segment vector for c using the
// Fritsch-Carlson monotone cubic rule, clipping with
// tau = 3/sqrt(alpha^2+beta^2) whenever alpha^2+beta^2 > 9.
func Compile(c Curve) Compiled {
	pts := c.Points
	n := len(pts)
	if n < 2 {
		pts = DefaultCurve().Points
		n = 2
	}

	// Secant slopes between consecutive points.
	deltas := make([]float32, n-1)
	for i := 0; i < n-1; i++ {
		dx := pts[i+1].X - pts[i].X
		if dx == 0 {
			deltas[i] = 0
		} else {
			deltas[i] = (pts[i+1].Y - pts[i].Y) / dx
		}
	}

	// Initial tangent estimate at each point.
	tangents := make([]float32, n)
	tangents[0] = deltas[0]
	tangents[n-1] = deltas[n-2]
	for i := 1; i < n-1; i++ {
		if deltas[i-1] == 0 || deltas[i] == 0 || (deltas[i-1] < 0) != (deltas[i] < 0) {
			tangents[i] = 0
		} else {
			tangents[i] = (deltas[i-1] + deltas[i]) / 2
		}
	}

	// Fritsch-Carlson clipping to preserve monotonicity per segment.
	for i := 0; i < n-1; i++ {
		d := deltas[i]
		if d == 0 {
			tangents[i], tangents[i+1] = 0, 0
			continue
		}
		alpha := tangents[i] / d
		beta := tangents[i+1] / d
		s := alpha*alpha + beta*beta
		if s > 9 {
			tau := 3 / float32(math.Sqrt(float64(s)))
			tangents[i] = tau * alpha * d
			tangents[i+1] = tau * beta * d
		}
	}

	segs := make([]segment, n-1)
	for i := 0; i < n-1; i++ {
		segs[i] = segment{p1: pts[i], p2: pts[i+1], m1: tangents[i], m2: tangents[i+1]}
	}
	return Compiled{segments: segs, points: pts}
}

// Eval evaluates the compiled curve at x in [0,1], returning a value
// in [0,1].
func (c Compiled) Eval(x float32) float32 {
	if len(c.segments) == 0 {
		return x
	}
	px := x * 255

	first, last := c.points[0], c.points[len(c.points)-1]
	if px <= first.X {
		return colorspace.Clamp01(first.Y / 255)
	}
	if px >= last.X {
		return colorspace.Clamp01(last.Y / 255)
	}

	for _, s := range c.segments {
		if px >= s.p1.X && px <= s.p2.X {
			dx := s.p2.X - s.p1.X
			if dx == 0 {
				return colorspace.Clamp01(s.p1.Y / 255)
			}
			t := (px - s.p1.X) / dx
			t2 := t * t
			t3 := t2 * t
			h00 := 2*t3 - 3*t2 + 1
			h10 := t3 - 2*t2 + t
			h01 := -2*t3 + 3*t2
			h11 := t3 - t2
			y := h00*s.p1.Y + h10*s.m1*dx + h01*s.p2.Y + h11*s.m2*dx
			return colorspace.Clamp01(y / 255)
		}
	}
	return colorspace.Clamp01(px / 255)
}

// Set is the compiled {luma, red, green, blue} curve bundle of a
// payload (global or per-mask), plus whether the RGB trio is active.
type Set struct {
	Luma        Compiled
	Red         Compiled
	Green       Compiled
	Blue        Compiled
	RGBActive   bool
	LumaDefault bool
}

// CompileSet compiles the four curves of a payload, deriving RGBActive
// from whether any of red/green/blue is non-default.
func CompileSet(luma, red, green, blue Curve) Set {
	return Set{
		Luma:        Compile(luma),
		Red:         Compile(red),
		Green:       Compile(green),
		Blue:        Compile(blue),
		RGBActive:   !red.IsDefault() || !green.IsDefault() || !blue.IsDefault(),
		LumaDefault: luma.IsDefault(),
	}
}

// Active reports whether applying this set would change any pixel:
// true whenever RGB is active (luma always applies on top of it) or
// whenever the luma curve itself is non-default.
func (s Set) Active() bool {
	return s.RGBActive || !s.LumaDefault
}

// ApplyAll applies the curve set to an sRGB triple per spec.md §4.B:
// if RGB curves are active, apply red/green/blue per channel, evaluate
// luma on the *input* triple, rescale the graded triple so its luma
// matches the target, then renormalize if any channel clips above 1.
// If RGB curves are all default, the luma curve is applied to each
// channel independently.
func (s Set) ApplyAll(r, g, b float32) (float32, float32, float32) {
	if s.RGBActive {
		gr := s.Red.Eval(r)
		gg := s.Green.Eval(g)
		gb := s.Blue.Eval(b)

		inputLuma := colorspace.Luma(r, g, b)
		target := s.Luma.Eval(inputLuma)
		gradedLuma := colorspace.Luma(gr, gg, gb)

		var scale float32
		if gradedLuma > 0.001 {
			scale = target / gradedLuma
			gr, gg, gb = gr*scale, gg*scale, gb*scale
		} else {
			gr, gg, gb = target, target, target
		}

		if m := maxOf3(gr, gg, gb); m > 1 {
			gr, gg, gb = gr/m, gg/m, gb/m
		}
		return gr, gg, gb
	}
	return s.Luma.Eval(r), s.Luma.Eval(g), s.Luma.Eval(b)
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
