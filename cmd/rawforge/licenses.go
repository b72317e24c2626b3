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

import "github.com/spf13/cobra"

// legal is the licensing notice, following the table format the
// teacher prints in its own legal.go.
const legal = `rawforge is free software: you can redistribute it and/or modify it
under the terms of the GNU General Public License as published by the
Free Software Foundation, either version 3 of the License, or (at your
option) any later version. This program comes with ABSOLUTELY NO
WARRANTY. Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for
details.

The binary version of this program uses several open source libraries
and components, which come with their own licensing terms:

| Library                                                                          | License type |
|-----------------------------------------------------------------------------------|--------------|
| github.com/gin-gonic/gin                                                           | MIT License  |
| github.com/lucasb-eyer/go-colorful                                                 | MIT License  |
| github.com/mdouchement/hdr                                                         | MIT License  |
| github.com/mdouchement/tiff                                                        | MIT License  |
| github.com/spf13/cobra                                                             | Apache 2.0 License |
| golang.org/x/image                                                                 | BSD 3-Clause |
| trimmer.io/go-xmp                                                                  | BSD 2-Clause |
`

func newLicensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "licenses",
		Short: "Print third-party license notices",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(legal)
		},
	}
}
