// Copyright © 2017 Radomirs Cirskis <nad2000@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model"
)

// ErrRefreshFailed is returned when the workbook could not be updated.
var ErrRefreshFailed = zerr.New("workbook was not updated")

func newRefreshCmd() *cobra.Command {
	refreshCmd := &cobra.Command{
		Use:   "refresh FILE",
		Short: "Turn on refresh-on-load for the pivot tables of a sheet",
		Long: `Turns on refresh-on-load for every pivot table on the given sheet, or only
for the one named with --pivot. The sheet and pivot table names are matched
exactly (case-sensitive). The workbook is saved only when at least one
pivot table was found; a backup copy is taken in any case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet := flagString(cmd, "sheet")
			if sheet == "" {
				return zerr.New("the sheet name is required (--sheet)")
			}
			pivot := flagString(cmd, "pivot")

			res := model.NewConfigurator(args[0], nil).Configure(sheet, pivot)
			if !res.OK {
				return zerr.With(zerr.With(ErrRefreshFailed, "reason", res.Reason.String()), "file", args[0])
			}
			for _, name := range res.Pivots {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sheet, name)
			}
			return nil
		},
	}

	flags := refreshCmd.Flags()
	flags.StringP("sheet", "s", "", "Name of the worksheet holding the pivot tables.")
	flags.StringP("pivot", "p", "", "Name of the pivot table; all pivot tables of the sheet if omitted.")
	return refreshCmd
}
