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

// Command rawforge drives the develop-and-edit engine from the
// command line: a local stand-in for the host ABI of spec.md §6,
// used to exercise the pipeline end to end during development and for
// the end-to-end scenarios of spec.md §8.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rawforge",
		Short: "rawforge develops and edits camera RAW photographs",
		Long: `rawforge decodes a camera RAW file, applies a declarative
adjustments description -- temperature/tint, tonal and color-grading
adjustments, masks, curves, vignette -- and produces a color-corrected
8-bit sRGB JPEG.`,
	}

	root.AddCommand(newDevelopCmd())
	root.AddCommand(newMetadataCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newLicensesCmd())

	return root
}
