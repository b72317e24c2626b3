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

// RenderStateless develops and renders rawBytes in one call without
// touching any session cache, for the ABI's stateless
// render(bytes, adjustments_json, kind) variant (spec.md §6).
func RenderStateless(rawBytes, adjustmentsJSON []byte, maxW, maxH int, fastDemosaic bool, quality Quality) ([]byte, error) {
	img, err := DecodeAndFit(rawBytes, maxW, maxH, fastDemosaic)
	if err != nil {
		return nil, err
	}
	return RenderFromImage(img, adjustmentsJSON, quality)
}

// RenderFullResStateless is RenderStateless at full sensor resolution,
// for the ABI's stateless render_full_res(bytes, adjustments_json).
func RenderFullResStateless(rawBytes, adjustmentsJSON []byte) ([]byte, error) {
	return RenderStateless(rawBytes, adjustmentsJSON, 0, 0, false, QualityFull)
}
