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
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName   = ".pivot-refresh"
	envPrefix    = "PIVOT_REFRESH"
	timestampFmt = "2006-01-02 15:04:05"
)

var (
	cfgFile string
	debug   bool
	verbose bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pivot-refresh",
		Short: "Makes Excel pivot tables refresh when the workbook is opened",
		Long: `Sets the refreshOnLoad flag on the pivot cache definitions of an .xlsx
workbook so that Excel recomputes the pivot tables from their source data
as soon as the file is opened.

A backup copy (NAME.backup.xlsx) is written next to the workbook before
anything is changed. Defaults for the flags can be put into
$HOME/.pivot-refresh.yaml or PIVOT_REFRESH_* environment variables, e.g.
PIVOT_REFRESH_SHEET=Geral.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			debugCmd(cmd)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pivot-refresh.yaml)")
	flags.BoolP("debug", "d", false, "Show debug output.")
	flags.BoolP("verbose", "v", false, "Verbose mode. Produce more output about what the program does.")

	root.AddCommand(newRefreshCmd(), newBackupCmd(), newListCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFmt,
	})
	log.SetLevel(log.InfoLevel)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	viper.Reset()
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".pivot-refresh" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file: ", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		return err
	}
	return nil
}
