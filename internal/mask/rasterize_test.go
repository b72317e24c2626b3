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

import "testing"

func TestRasterizeNoSubMasksIsNil(t *testing.T) {
	def := Definition{}
	if out := Rasterize(def, 8, 8); out != nil {
		t.Errorf("Rasterize with no sub-masks = %v; want nil (influence 1 everywhere)", out)
	}
}

func TestComposeSubMasksAdditiveCoversCenter(t *testing.T) {
	const w, h = 16, 16
	subs := []SubMask{
		{Type: TypeRadial, Visible: true, Mode: Additive, Params: NewRadialParamsDefault()},
	}
	dst := composeSubMasks(subs, w, h)
	if dst == nil {
		t.Fatal("composeSubMasks returned nil")
	}
	center := dst[(h/2)*w+(w/2)]
	if center == 0 {
		t.Errorf("center influence should be nonzero; got 0")
	}
}

func TestComposeSubMasksSubtractiveReducesInfluence(t *testing.T) {
	const w, h = 16, 16
	full := NewRadialParamsDefault()
	full.RadiusX, full.RadiusY = 1.5, 1.5 // cover the whole frame

	punch := NewRadialParamsDefault()
	punch.RadiusX, punch.RadiusY = 0.1, 0.1

	additiveOnly := composeSubMasks([]SubMask{{Type: TypeRadial, Visible: true, Mode: Additive, Params: full}}, w, h)
	withHole := composeSubMasks([]SubMask{
		{Type: TypeRadial, Visible: true, Mode: Additive, Params: full},
		{Type: TypeRadial, Visible: true, Mode: Subtractive, Params: punch},
	}, w, h)

	idx := (h / 2) * w + (w / 2)
	if withHole[idx] >= additiveOnly[idx] {
		t.Errorf("subtractive sub-mask at center should reduce influence: with=%d without=%d", withHole[idx], additiveOnly[idx])
	}
}

func TestComposeSubMasksIgnoresInvisible(t *testing.T) {
	const w, h = 8, 8
	subs := []SubMask{
		{Type: TypeRadial, Visible: false, Mode: Additive, Params: NewRadialParamsDefault()},
	}
	dst := composeSubMasks(subs, w, h)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("invisible sub-mask should contribute nothing; dst[%d]=%d", i, v)
		}
	}
}

func TestStampLineSingleDiscSolidAtCenter(t *testing.T) {
	const w, h = 20, 20
	line := BrushLine{Tool: ToolBrush, BrushSize: 0.3, Feather: 0.0, Order: 0,
		Points: []Point2D{{X: 0.5, Y: 0.5}}}
	out := rasterizeBrushLines([]BrushLine{line}, Additive, w, h)
	center := out[(h/2)*w+(w/2)]
	if center < 200 {
		t.Errorf("center of a solid brush stamp should be near-255; got %d", center)
	}
	corner := out[0]
	if corner != 0 {
		t.Errorf("corner far from the stamp should be untouched; got %d", corner)
	}
}

func TestRasterizeEraserSubtractsFromBrush(t *testing.T) {
	const w, h = 20, 20
	paint := BrushLine{Tool: ToolBrush, BrushSize: 0.6, Feather: 0, Order: 0,
		Points: []Point2D{{X: 0.5, Y: 0.5}}}
	erase := BrushLine{Tool: ToolEraser, BrushSize: 0.6, Feather: 0, Order: 1,
		Points: []Point2D{{X: 0.5, Y: 0.5}}}

	paintOnly := rasterizeBrushLines([]BrushLine{paint}, Additive, w, h)
	paintThenErase := rasterizeBrushLines([]BrushLine{paint, erase}, Additive, w, h)

	idx := (h / 2) * w + (w / 2)
	if paintThenErase[idx] >= paintOnly[idx] {
		t.Errorf("eraser stroke after paint should reduce influence at center: erased=%d painted=%d", paintThenErase[idx], paintOnly[idx])
	}
}

func TestBoxBlurSeparableSmoothsAStep(t *testing.T) {
	const w, h = 10, 1
	data := make([]uint8, w*h)
	for x := w / 2; x < w; x++ {
		data[x] = 255
	}
	blurred := boxBlurSeparable(data, w, h, 2)
	// A hard step should soften: the pixel just left of the step should
	// rise above 0.
	if blurred[w/2-1] == 0 {
		t.Errorf("box blur should spread intensity across the step boundary; got 0")
	}
}
