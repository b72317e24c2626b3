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

// Orient applies one of the eight EXIF orientation transforms
// (spec.md §4.A step 6) to img, returning a new Image. Tag values
// follow the EXIF convention (1..8); any other value (including 0,
// meaning "absent") is treated as identity.
func Orient(img *Image, tag int) *Image {
	switch tag {
	case 2:
		return flipH(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipV(img)
	case 5:
		return transpose(img)
	case 6:
		return rotate90(img)
	case 7:
		return transverse(img)
	case 8:
		return rotate270(img)
	default:
		return img
	}
}

// InverseTag returns the orientation tag that undoes tag, so that
// Orient(Orient(img, tag), InverseTag(tag)) is the identity
// (spec.md §8 "Orientation round-trip").
func InverseTag(tag int) int {
	switch tag {
	case 6:
		return 8
	case 8:
		return 6
	default:
		return tag // 1,2,3,4,5,7 are all self-inverse
	}
}

func flipH(img *Image) *Image {
	out := NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(img.Width-1-x, y)
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}

func flipV(img *Image) *Image {
	out := NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, img.Height-1-y)
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}

func rotate180(img *Image) *Image {
	out := NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(img.Width-1-x, img.Height-1-y)
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}

// rotate90 rotates the image 90 degrees clockwise.
func rotate90(img *Image) *Image {
	out := NewImage(img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			out.Set(img.Height-1-y, x, r, g, b, a)
		}
	}
	return out
}

// rotate270 rotates the image 90 degrees counter-clockwise.
func rotate270(img *Image) *Image {
	out := NewImage(img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			out.Set(y, img.Width-1-x, r, g, b, a)
		}
	}
	return out
}

// transpose mirrors across the top-left/bottom-right diagonal.
func transpose(img *Image) *Image {
	out := NewImage(img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			out.Set(y, x, r, g, b, a)
		}
	}
	return out
}

// transverse mirrors across the top-right/bottom-left diagonal.
func transverse(img *Image) *Image {
	out := NewImage(img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			out.Set(img.Height-1-y, img.Width-1-x, r, g, b, a)
		}
	}
	return out
}
