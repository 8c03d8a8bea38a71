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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model"
)

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the pivot tables of the workbook",
		Long: `Lists the pivot tables of the workbook, or of one sheet with --sheet, and
whether their cache is refreshed on load. The workbook is not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := model.NewConfigurator(args[0], nil).Inspect(flagString(cmd, "sheet"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if verbose {
				fmt.Fprintln(w, "Sheet\tPivot Table\tLocation\tRefresh On Load\tPart\tCache")
			} else {
				fmt.Fprintln(w, "Sheet\tPivot Table\tLocation\tRefresh On Load")
			}
			for _, pt := range list {
				if verbose {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n", pt.Sheet, pt.Name, pt.Location, pt.RefreshOnLoad, pt.Part, pt.CachePart)
				} else {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", pt.Sheet, pt.Name, pt.Location, pt.RefreshOnLoad)
				}
			}
			return w.Flush()
		},
	}

	listCmd.Flags().StringP("sheet", "s", "", "Only list the pivot tables of this worksheet.")
	return listCmd
}
