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

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/config"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/operation"
)

// NewBatchCmd creates a new batch command
func NewBatchCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		configFile string
		mkdir      bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every source listed in a config file",
		Long: `Batch loads a YAML, JSON or HCL config and converts each matched source in order.
It will:
1. Expand the source patterns relative to the config file
2. Convert the files one after another into the destination
3. Stop at the first file that fails`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			sources, err := cfg.SourceFiles(ctx)
			if err != nil {
				return errors.Errorf("listing sources: %w", err)
			}

			dest := cfg.DestinationDir()
			if mkdir {
				if err := os.MkdirAll(dest, 0755); err != nil {
					return errors.Errorf("creating destination: %w", err)
				}
			}

			// flags set on the command line win over the config file
			engOpts := cfg.EngineOptions()
			if cmd.Flags().Changed("timestamp-layout") {
				engOpts.TimestampLayout, _ = cmd.Flags().GetString("timestamp-layout")
			}
			if cmd.Flags().Changed("batch-rows") {
				engOpts.BatchRows, _ = cmd.Flags().GetInt("batch-rows")
			}
			runner := operation.NewRunner(convert.New(engOpts))

			opts.Console.Header(cfg.String())
			jobs := operation.NewJobs(sources, dest)
			for i, job := range jobs {
				if err := convertSource(ctx, opts, runner, job); err != nil {
					return errors.Errorf("file %d of %d: %w", i+1, len(jobs), err)
				}
				opts.Console.LogNewline()
			}
			opts.Console.Successf("converted %d file(s)", len(jobs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "tdms2csv.yaml", "config file path")
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "create the destination directory if missing")
	cmd.Flags().String("timestamp-layout", convert.DefaultTimestampLayout, "override the config timestamp layout")
	cmd.Flags().Int("batch-rows", convert.DefaultBatchRows, "override the config batch size")

	return cmd
}
