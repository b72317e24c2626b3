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

import "runtime"

// forEachRow parallelizes fn(y) over [0,rows), the same row-band /
// semaphore work-partitioning the teacher's fits.Image.ApplyPixelFunction
// uses for its per-pixel loops: split into 8*NumCPU() bands, cap
// in-flight goroutines at NumCPU().
func forEachRow(rows int, fn func(y int)) {
	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	numBands := 8 * numCPU
	bandSize := (rows + numBands - 1) / numBands
	if bandSize < 1 {
		bandSize = 1
	}

	sem := make(chan bool, numCPU)
	for lower := 0; lower < rows; lower += bandSize {
		upper := lower + bandSize
		if upper > rows {
			upper = rows
		}

		sem <- true
		go func(lower, upper int) {
			defer func() { <-sem }()
			for y := lower; y < upper; y++ {
				fn(y)
			}
		}(lower, upper)
	}

	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
}
