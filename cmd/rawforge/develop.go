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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlnoga/rawforge/internal/render"
	"github.com/mlnoga/rawforge/internal/session"
)

func newDevelopCmd() *cobra.Command {
	var adjustmentsPath string
	var kindFlag string
	var outPath string

	cmd := &cobra.Command{
		Use:   "develop <raw-file>",
		Short: "Develop a RAW file into a JPEG",
		Long: `Develop decodes a camera RAW file, applies the adjustments
described by --adjustments (a JSON file; omit for the neutral
payload), and writes the resulting JPEG to --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading raw file: %w", err)
			}

			adjustments := []byte("{}")
			if adjustmentsPath != "" {
				adjustments, err = os.ReadFile(adjustmentsPath)
				if err != nil {
					return fmt.Errorf("reading adjustments file: %w", err)
				}
			}

			kind, full, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}

			var jpg []byte
			if full {
				jpg, err = render.RenderFullResStateless(rawBytes, adjustments)
			} else {
				maxW, maxH := kind.Dims()
				jpg, err = render.RenderStateless(rawBytes, adjustments, maxW, maxH, kind == session.SuperLow || kind == session.Low, render.QualityPreview)
			}
			if err != nil {
				return fmt.Errorf("developing: %w", err)
			}

			if err := os.WriteFile(outPath, jpg, 0644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", outPath, len(jpg))
			return nil
		},
	}

	cmd.Flags().StringVar(&adjustmentsPath, "adjustments", "", "path to an adjustments JSON file (default: neutral)")
	cmd.Flags().StringVar(&kindFlag, "kind", "preview", "preview tier: superlow|low|preview|full")
	cmd.Flags().StringVarP(&outPath, "out", "o", "out.jpg", "output JPEG path")

	return cmd
}

func parseKindFlag(s string) (kind session.PreviewKind, full bool, err error) {
	switch s {
	case "superlow", "SuperLow":
		return session.SuperLow, false, nil
	case "low", "Low":
		return session.Low, false, nil
	case "preview", "Preview":
		return session.Preview, false, nil
	case "full", "Full":
		return session.Preview, true, nil
	default:
		return 0, false, fmt.Errorf("invalid --kind %q: want superlow|low|preview|full", s)
	}
}
