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

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Copy the workbook to NAME.backup.xlsx",
		Long: `Copies the workbook byte for byte next to itself, inserting ".backup" before
the extension (report.xlsx -> report.backup.xlsx). An earlier backup is
overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := model.NewConfigurator(args[0], nil).CreateBackup()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), backup)
			return nil
		},
	}
}
