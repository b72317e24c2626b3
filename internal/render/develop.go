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
	"github.com/mlnoga/rawforge/internal/metadata"
	"github.com/mlnoga/rawforge/internal/payload"
	"github.com/mlnoga/rawforge/internal/raw"
)

// DecodeAndFit develops rawBytes into an oriented linear image,
// downscaled (preserving aspect ratio) to fit within maxW x maxH.
// Passing maxW/maxH <= 0 skips the downscale step, for full-resolution
// export (spec.md §4.F "full-resolution export ... decodes and renders
// at full sensor resolution"). This is the unit the session cache
// memoizes per PreviewKind.
func DecodeAndFit(rawBytes []byte, maxW, maxH int, fastDemosaic bool) (*raw.Image, error) {
	img, err := raw.Decode(rawBytes, raw.Options{FastDemosaic: fastDemosaic})
	if err != nil {
		return nil, err
	}

	orientation := metadata.ExtractOrientation(rawBytes)
	img = raw.Orient(img, orientation.Value)

	if maxW > 0 && maxH > 0 {
		w, h := FitDims(img.Width, img.Height, maxW, maxH)
		img = Resize(img, w, h)
	}
	return img, nil
}

// RenderFromImage parses adjustmentsJSON, compiles its masks at img's
// dimensions, and composes the final JPEG. A malformed payload is
// non-fatal per spec.md §7 PayloadError: it is replaced with the
// neutral payload and the render proceeds.
func RenderFromImage(img *raw.Image, adjustmentsJSON []byte, quality Quality) ([]byte, error) {
	p, err := payload.Parse(adjustmentsJSON)
	if err != nil {
		p = payload.Default()
	}
	masks := CompileMasks(p.Masks, img.Width, img.Height)
	return Compose(img, p, masks, quality)
}

// RenderFromImageWithMasks is RenderFromImage but accepts
// pre-compiled masks, so a caller (the session cache) can supply a
// memoized mask-runtime slice instead of recompiling it every call.
func RenderFromImageWithMasks(img *raw.Image, p payload.Payload, masks []MaskRuntime, quality Quality) ([]byte, error) {
	return Compose(img, p, masks, quality)
}
