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

package kernel

import (
	"math"
	"testing"
)

func TestApplyClampsToUnitRange(t *testing.T) {
	a := Default()
	a.Exposure = 100
	r, g, b := Apply(0.9, 0.9, 0.9, a)
	for _, c := range []float32{r, g, b} {
		if c < 0 || c > 1 {
			t.Errorf("Apply output %f out of [0,1] range", c)
		}
	}
}

func TestNormalizeSafeDivisor(t *testing.T) {
	a := Default()
	a.Exposure = 50
	n := a.normalize()
	if n.exposure != 0.5 {
		t.Errorf("normalize().exposure=%f; want 0.5", n.exposure)
	}
}

func TestExposureIncreasesLuma(t *testing.T) {
	a := Default()
	a.Exposure = 50
	r, g, b := Apply(0.2, 0.2, 0.2, a)
	base := 0.2126*r + 0.7152*g + 0.0722*b
	r0, g0, b0 := Apply(0.2, 0.2, 0.2, Default())
	neutral := 0.2126*r0 + 0.7152*g0 + 0.0722*b0
	if base <= neutral {
		t.Errorf("positive exposure should raise luma: got %f, neutral %f", base, neutral)
	}
}

func TestSaturationFullyDesaturates(t *testing.T) {
	a := Default()
	a.Saturation = -100
	r, g, b := Apply(0.9, 0.1, 0.1, a)
	if math.Abs(float64(r-g)) > 1e-4 || math.Abs(float64(g-b)) > 1e-4 {
		t.Errorf("fully desaturated output should have r==g==b; got (%f,%f,%f)", r, g, b)
	}
}

func TestVibranceNoOpWhenNearGray(t *testing.T) {
	r, g, b := vibrance(0.5, 0.505, 0.502, 1.0)
	if r != 0.5 || g != 0.505 || b != 0.502 {
		t.Errorf("vibrance should leave near-neutral colors unchanged; got (%f,%f,%f)", r, g, b)
	}
}

func TestDetailGainsZeroWhenAllZero(t *testing.T) {
	n := Default().normalize()
	r, g, b := detailGains(0.3, 0.4, 0.5, n)
	if r != 0.3 || g != 0.4 || b != 0.5 {
		t.Errorf("detailGains with all-zero adjustments should be identity; got (%f,%f,%f)", r, g, b)
	}
}

func TestTonalBlockIdentityAtNeutral(t *testing.T) {
	a := Default()
	n := a.normalize()
	r, g, b := tonalBlock(0.3, 0.45, 0.6, n)
	if math.Abs(float64(r-0.3)) > 1e-3 || math.Abs(float64(g-0.45)) > 1e-3 || math.Abs(float64(b-0.6)) > 1e-3 {
		t.Errorf("tonalBlock at neutral adjustments = (%f,%f,%f); want ~(0.3,0.45,0.6)", r, g, b)
	}
}

func TestHighlightsRecoverIdentityAtZero(t *testing.T) {
	r, g, b := highlightsRecover(0.3, 0.5, 0.8, 0)
	if r != 0.3 || g != 0.5 || b != 0.8 {
		t.Errorf("highlightsRecover at h=0 should be identity; got (%f,%f,%f)", r, g, b)
	}
}

func TestDefaultRawProcessMonotone(t *testing.T) {
	prevR := float32(-1)
	for _, v := range []float32{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		r, _, _ := DefaultRawProcess(v, v, v)
		if r < 0 {
			t.Errorf("DefaultRawProcess(%f)=%f; want >= 0", v, r)
		}
		if r < prevR-1e-4 {
			t.Errorf("DefaultRawProcess should be monotone in luma; got %f after %f", r, prevR)
		}
		prevR = r
	}
}
