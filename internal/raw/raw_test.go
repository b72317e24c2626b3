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

package raw

import (
	"math"
	"testing"
)

func TestNewImageAtSetRoundTrip(t *testing.T) {
	img := NewImage(4, 3)
	img.Set(2, 1, 0.1, 0.2, 0.3, 1)
	r, g, b, a := img.At(2, 1)
	if r != 0.1 || g != 0.2 || b != 0.3 || a != 1 {
		t.Errorf("At(2,1)=(%f,%f,%f,%f); want (0.1,0.2,0.3,1)", r, g, b, a)
	}
	r0, g0, b0, a0 := img.At(0, 0)
	if r0 != 0 || g0 != 0 || b0 != 0 || a0 != 0 {
		t.Errorf("untouched pixel should be zeroed; got (%f,%f,%f,%f)", r0, g0, b0, a0)
	}
}

func TestCompressHighlightsBelowOneIsIdentity(t *testing.T) {
	r, g, b := compressHighlights(0.2, 0.5, 0.9)
	if r != 0.2 || g != 0.5 || b != 0.9 {
		t.Errorf("compressHighlights below 1.0 should be identity; got (%f,%f,%f)", r, g, b)
	}
}

func TestCompressHighlightsPreservesMax(t *testing.T) {
	r, g, b := compressHighlights(2.0, 0.5, 0.1)
	got := maxOf3(r, g, b)
	if math.Abs(float64(got-2.0)) > 1e-3 {
		t.Errorf("compressHighlights should preserve the original max channel: got %f, want ~2.0", got)
	}
	if r < g || g < b {
		t.Errorf("compressHighlights should preserve channel ordering: got (%f,%f,%f)", r, g, b)
	}
}

func TestCompressHighlightsDesaturatesTowardMin(t *testing.T) {
	r, _, b := compressHighlights(3.0, 1.0, 0.2)
	spreadBefore := 3.0 - 0.2
	spreadAfter := r - b
	if spreadAfter >= float32(spreadBefore) {
		t.Errorf("compressHighlights should narrow the channel spread on a blown pixel: before=%f after=%f", spreadBefore, spreadAfter)
	}
}

func TestMaxMinOf3(t *testing.T) {
	if got := maxOf3(1, 5, 3); got != 5 {
		t.Errorf("maxOf3(1,5,3)=%f; want 5", got)
	}
	if got := minOf3(1, 5, 3); got != 1 {
		t.Errorf("minOf3(1,5,3)=%f; want 1", got)
	}
}
