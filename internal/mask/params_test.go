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
	"testing"
)

func TestDenormPosAndLen(t *testing.T) {
	if got := denormPos(0.5, 101); got != 50 {
		t.Errorf("denormPos(0.5,101)=%f; want 50", got)
	}
	if got := denormPos(200, 101); got != 200 {
		t.Errorf("denormPos(200,101)=%f; want 200 (already pixel-absolute)", got)
	}
	if got := denormLen(0.25, 101, 51); got != 12.5 {
		t.Errorf("denormLen(0.25,101,51)=%f; want 12.5 (uses min dim)", got)
	}
}

func TestRadialParamsDefaultsAndRasterize(t *testing.T) {
	p := NewRadialParamsDefault()
	data := []byte(`{}`)
	if err := json.Unmarshal(data, p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.CenterX != 0.5 || p.Feather != 0.5 {
		t.Errorf("defaults not preserved on empty JSON: %+v", p)
	}

	const w, h = 21, 21
	out := p.Rasterize(w, h)
	center := out[(h/2)*w+(w/2)]
	corner := out[0]
	if center <= corner {
		t.Errorf("radial mask center=%d should be brighter than corner=%d", center, corner)
	}
}

func TestRadialParamsOverridesMerge(t *testing.T) {
	p := NewRadialParamsDefault()
	if err := json.Unmarshal([]byte(`{"centerX":0.1}`), p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.CenterX != 0.1 {
		t.Errorf("centerX=%f; want 0.1 (explicit override)", p.CenterX)
	}
	if p.CenterY != 0.5 {
		t.Errorf("centerY=%f; want 0.5 (unset key keeps default)", p.CenterY)
	}
}

func TestLinearParamsRasterizeGradient(t *testing.T) {
	p := NewLinearParamsDefault()
	const w, h = 11, 11
	out := p.Rasterize(w, h)
	top := out[0*w+5]
	bottom := out[(h-1)*w+5]
	if top == bottom {
		t.Errorf("linear mask should vary from top to bottom of a vertical gradient: top=%d bottom=%d", top, bottom)
	}
}

func TestBrushParamsUnmarshalDefaultsFeatherAndTool(t *testing.T) {
	var p BrushParams
	data := []byte(`{"lines":[{"brushSize":0.2,"order":1,"points":[{"x":0.1,"y":0.1}]}]}`)
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(p.Lines) != 1 {
		t.Fatalf("got %d lines; want 1", len(p.Lines))
	}
	if p.Lines[0].Feather != 0.5 {
		t.Errorf("Feather=%f; want default 0.5", p.Lines[0].Feather)
	}
	if p.Lines[0].Tool != ToolBrush {
		t.Errorf("Tool=%q; want default %q", p.Lines[0].Tool, ToolBrush)
	}
}

func TestBrushParamsUnmarshalExplicitEraser(t *testing.T) {
	var p BrushParams
	data := []byte(`{"lines":[{"tool":"eraser","feather":0.0,"brushSize":0.2,"order":1,"points":[{"x":0.1,"y":0.1}]}]}`)
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Lines[0].Tool != ToolEraser {
		t.Errorf("Tool=%q; want %q", p.Lines[0].Tool, ToolEraser)
	}
	if p.Lines[0].Feather != 0 {
		t.Errorf("Feather=%f; want 0 (explicit)", p.Lines[0].Feather)
	}
}

func TestBitmapParamsNoDataContributesNothing(t *testing.T) {
	p := NewBitmapParamsDefault()
	if out := p.Rasterize(4, 4); out != nil {
		t.Errorf("Rasterize with no data = %v; want nil", out)
	}
}

func TestIntensityToByteClamps(t *testing.T) {
	if got := intensityToByte(-1); got != 0 {
		t.Errorf("intensityToByte(-1)=%d; want 0", got)
	}
	if got := intensityToByte(2); got != 255 {
		t.Errorf("intensityToByte(2)=%d; want 255", got)
	}
	if got := intensityToByte(1); got != 255 {
		t.Errorf("intensityToByte(1)=%d; want 255", got)
	}
}
