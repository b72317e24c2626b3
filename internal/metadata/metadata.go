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

// Package metadata pulls the handful of descriptive fields spec.md §6
// needs out of a RAW file's embedded XMP/EXIF packet, using
// trimmer.io/go-xmp and its exif/tiff namespace models. Extraction is
// always best-effort: per spec.md §4.A, a metadata read failure yields
// an empty record rather than an error.
package metadata

import (
	"bytes"
	"fmt"
	"time"

	"trimmer.io/go-xmp/models/exif"
	"trimmer.io/go-xmp/xmp"
)

// Info is the metadata JSON shape of spec.md §6: all strings, empty
// when unknown.
type Info struct {
	Make             string `json:"make"`
	Model            string `json:"model"`
	Lens             string `json:"lens"`
	ISO              string `json:"iso"`
	ExposureTime     string `json:"exposureTime"`
	FNumber          string `json:"fNumber"`
	FocalLength      string `json:"focalLength"`
	DateTimeOriginal string `json:"dateTimeOriginal"`
}

// OrientationTag is the raw EXIF orientation value (1..8, 0 if
// absent), for raw.Orient.
type OrientationTag struct {
	Value int
}

// Extract scans raw RAW/TIFF/JPEG file bytes for an embedded XMP
// packet and maps its exif/tiff fields to Info. Any failure -- no
// packet found, malformed packet, missing model -- yields the zero
// Info, never an error.
func Extract(data []byte) Info {
	doc, err := xmp.Scan(bytes.NewReader(data))
	if err != nil || doc == nil {
		return Info{}
	}

	x := exif.FindModel(doc)
	if x == nil {
		return Info{}
	}

	return Info{
		Make:             x.Make,
		Model:            x.Model,
		Lens:             x.ExLensModel,
		ISO:              formatISO(x.ExPhotographicSensitivity),
		ExposureTime:     x.ExposureTime.String(),
		FNumber:          x.FNumber.String(),
		FocalLength:      x.FocalLength.String(),
		DateTimeOriginal: formatDate(x.DateTimeOriginal),
	}
}

// formatDate renders an exif.Date as RFC3339, or "" when unset --
// exif.Date is a distinct type over time.Time with no String method
// of its own.
func formatDate(d exif.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Value().Format(time.RFC3339)
}

// ExtractOrientation scans the same embedded packet as Extract for
// the EXIF orientation tag. It is split out from Extract so the RAW
// developer can fetch just the one int it needs without depending on
// the full metadata.Info shape.
func ExtractOrientation(data []byte) OrientationTag {
	doc, err := xmp.Scan(bytes.NewReader(data))
	if err != nil || doc == nil {
		return OrientationTag{}
	}
	x := exif.FindModel(doc)
	if x == nil {
		return OrientationTag{}
	}
	return OrientationTag{Value: int(x.Orientation)}
}

func formatISO(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}
