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
	"encoding/json"
	"math"
)

// denormPos denormalizes a single-axis coordinate: values <= 1.5 are
// normalized fractions of the axis (times dim-1); larger values are
// already pixel-absolute (spec.md §4.C).
func denormPos(v float32, dim int) float32 {
	if v <= 1.5 {
		return v * float32(dim-1)
	}
	return v
}

// denormLen denormalizes a length (radius, feather range, brush size):
// normalized lengths use min(width,height) as the base dimension.
func denormLen(v float32, width, height int) float32 {
	dim := width
	if height < dim {
		dim = height
	}
	if v <= 1.5 {
		return v * float32(dim-1)
	}
	return v
}

// ---- Radial ----

type RadialParams struct {
	CenterX  float32 `json:"centerX"`
	CenterY  float32 `json:"centerY"`
	RadiusX  float32 `json:"radiusX"`
	RadiusY  float32 `json:"radiusY"`
	Rotation float32 `json:"rotation"` // degrees
	Feather  float32 `json:"feather"`
}

func NewRadialParamsDefault() *RadialParams {
	return &RadialParams{CenterX: 0.5, CenterY: 0.5, RadiusX: 0.25, RadiusY: 0.25, Feather: 0.5}
}

func (p *RadialParams) UnmarshalJSON(data []byte) error {
	type defaults RadialParams
	def := defaults(*NewRadialParamsDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*p = RadialParams(def)
	return nil
}

func (p *RadialParams) Rasterize(width, height int) []uint8 {
	cx := denormPos(p.CenterX, width)
	cy := denormPos(p.CenterY, height)
	rx := denormLen(p.RadiusX, width, height)
	ry := denormLen(p.RadiusY, width, height)
	if rx < 1e-6 {
		rx = 1e-6
	}
	if ry < 1e-6 {
		ry = 1e-6
	}
	theta := float64(p.Rotation) * math.Pi / 180
	sinT, cosT := math.Sincos(theta)
	f := colorspaceClamp01(p.Feather)

	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		dy := float64(y) - float64(cy)
		row := out[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			dx := float64(x) - float64(cx)
			xp := dx*cosT + dy*sinT
			yp := -dx*sinT + dy*cosT
			d := math.Sqrt((xp/float64(rx))*(xp/float64(rx)) + (yp/float64(ry))*(yp/float64(ry)))
			row[x] = intensityToByte(radialIntensity(float32(d), f))
		}
	}
	return out
}

func radialIntensity(d, f float32) float32 {
	if d <= 1-f {
		return 1
	}
	if f <= 0 {
		return 0
	}
	return colorspaceClamp01((1 - d) / f)
}

// ---- Linear ----

type LinearParams struct {
	StartX float32 `json:"startX"`
	StartY float32 `json:"startY"`
	EndX   float32 `json:"endX"`
	EndY   float32 `json:"endY"`
	Range  float32 `json:"range"`
}

func NewLinearParamsDefault() *LinearParams {
	return &LinearParams{StartX: 0, StartY: 0.5, EndX: 1, EndY: 0.5, Range: 0.25}
}

func (p *LinearParams) UnmarshalJSON(data []byte) error {
	type defaults LinearParams
	def := defaults(*NewLinearParamsDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*p = LinearParams(def)
	return nil
}

func (p *LinearParams) Rasterize(width, height int) []uint8 {
	sx, sy := float64(denormPos(p.StartX, width)), float64(denormPos(p.StartY, height))
	ex, ey := float64(denormPos(p.EndX, width)), float64(denormPos(p.EndY, height))
	rng := float64(denormLen(p.Range, width, height))
	if rng < 1e-6 {
		rng = 1e-6
	}
	dirX, dirY := ex-sx, ey-sy
	length := math.Hypot(dirX, dirY)
	if length < 1e-6 {
		length = 1e-6
	}
	// Normal to the gradient direction, used as the perpendicular axis.
	nx, ny := -dirY/length, dirX/length

	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := out[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			px, py := float64(x)-sx, float64(y)-sy
			perp := px*nx + py*ny
			intensity := colorspaceClamp01(0.5 - 0.5*float32(perp/rng))
			row[x] = intensityToByte(intensity)
		}
	}
	return out
}

// ---- AI subject / bitmap ----

type BitmapParams struct {
	Data     string  `json:"data"` // base64 data URL, optional
	Softness float32 `json:"softness"`
}

func NewBitmapParamsDefault() *BitmapParams { return &BitmapParams{} }

func (p *BitmapParams) UnmarshalJSON(data []byte) error {
	type defaults BitmapParams
	def := defaults(*NewBitmapParamsDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*p = BitmapParams(def)
	return nil
}

func (p *BitmapParams) Rasterize(width, height int) []uint8 {
	out, err := decodeResizeBlurBitmap(p.Data, p.Softness, width, height)
	if err != nil {
		return nil // "no data provided" path: contributes nothing
	}
	return out
}

// ---- Brush ----

type BrushTool string

const (
	ToolBrush  BrushTool = "brush"
	ToolEraser BrushTool = "eraser"
)

type Point2D struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type BrushLine struct {
	Tool      BrushTool `json:"tool"`
	BrushSize float32   `json:"brushSize"`
	Feather   float32   `json:"feather"`
	Order     int       `json:"order"`
	Points    []Point2D `json:"points"`
}

type BrushParams struct {
	Lines []BrushLine `json:"lines"`
}

func NewBrushParamsDefault() *BrushParams { return &BrushParams{} }

func (p *BrushParams) UnmarshalJSON(data []byte) error {
	type wireLine struct {
		Tool      BrushTool  `json:"tool"`
		BrushSize float32    `json:"brushSize"`
		Feather   *float32   `json:"feather"`
		Order     int        `json:"order"`
		Points    []Point2D  `json:"points"`
	}
	var wire struct {
		Lines []wireLine `json:"lines"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	lines := make([]BrushLine, len(wire.Lines))
	for i, l := range wire.Lines {
		feather := float32(0.5)
		if l.Feather != nil {
			feather = *l.Feather
		}
		tool := l.Tool
		if tool == "" {
			tool = ToolBrush
		}
		lines[i] = BrushLine{Tool: tool, BrushSize: l.BrushSize, Feather: feather, Order: l.Order, Points: l.Points}
	}
	p.Lines = lines
	return nil
}

// Rasterize satisfies Params, but the mask rasterizer never calls it
// directly: brush sub-masks of the same mask are combined together
// first via combineBrushSubMasks (spec.md §4.C, §9).
func (p *BrushParams) Rasterize(width, height int) []uint8 {
	return rasterizeBrushLines(p.Lines, Additive, width, height)
}

func init() {
	registerParams(TypeRadial, func() Params { return NewRadialParamsDefault() })
	registerParams(TypeLinear, func() Params { return NewLinearParamsDefault() })
	registerParams(TypeBrush, func() Params { return NewBrushParamsDefault() })
	registerParams(TypeAISubject, func() Params { return NewBitmapParamsDefault() })
}

func colorspaceClamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intensityToByte(v float32) uint8 {
	v = colorspaceClamp01(v)
	return uint8(v*255 + 0.5)
}
