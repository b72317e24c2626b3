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

package metadata

import (
	"testing"
	"time"

	"trimmer.io/go-xmp/models/exif"
)

func TestExtractOnGarbageBytesIsEmptyNotError(t *testing.T) {
	info := Extract([]byte("this is not an xmp packet"))
	if info != (Info{}) {
		t.Errorf("Extract on garbage bytes = %+v; want zero Info", info)
	}
}

func TestExtractOrientationOnGarbageBytesIsZero(t *testing.T) {
	tag := ExtractOrientation([]byte("this is not an xmp packet"))
	if tag.Value != 0 {
		t.Errorf("ExtractOrientation on garbage bytes = %d; want 0", tag.Value)
	}
}

func TestFormatDateZeroIsEmpty(t *testing.T) {
	if got := formatDate(exif.Date{}); got != "" {
		t.Errorf("formatDate(zero)=%q; want \"\"", got)
	}
}

func TestFormatDateFormatsRFC3339(t *testing.T) {
	when := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got := formatDate(exif.Date(when))
	want := when.Format(time.RFC3339)
	if got != want {
		t.Errorf("formatDate=%q; want %q", got, want)
	}
}

func TestFormatISO(t *testing.T) {
	if got := formatISO(0); got != "" {
		t.Errorf("formatISO(0)=%q; want \"\"", got)
	}
	if got := formatISO(400); got != "400" {
		t.Errorf("formatISO(400)=%q; want \"400\"", got)
	}
}
