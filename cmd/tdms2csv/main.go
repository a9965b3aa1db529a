// Copyright 2025 ohmycaptainnemo
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

package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/commands"
	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
)

func main() {
	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "tdms2csv",
		Short: "Convert NI TDMS files into one CSV file per group",
		Long: `tdms2csv reads a TDMS measurement file and writes every group to
<destination>/<file stem>_<group>.csv, reporting progress while it runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			cmd.SetContext(withLogger(cmd.Context()))
			*rootOpts = *newRootOpts(os.Stdout)
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewConvertCmd(rootOpts),
		commands.NewBatchCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewInspectCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).Println(err)
		os.Exit(1)
	}
}
