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
	"github.com/spf13/cobra"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/operation"
)

// NewConvertCmd creates a new convert command
func NewConvertCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		timestampLayout string
		batchRows       int
	)

	cmd := &cobra.Command{
		Use:   "convert SOURCE DESTINATION",
		Short: "Convert a TDMS file into one CSV file per group",
		Long: `Convert reads SOURCE and writes DESTINATION/<stem>_<group>.csv for every group.
It will:
1. Check that SOURCE is an existing .tdms file and DESTINATION an existing directory
2. Write each group in 101 slices, reporting progress after every slice
3. Overwrite CSV files left by earlier runs`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng := convert.New(convert.Options{
				TimestampLayout: timestampLayout,
				BatchRows:       batchRows,
			})
			runner := operation.NewRunner(eng)

			opts.Console.Header("converting " + args[0])
			if err := convertSource(ctx, opts, runner, operation.NewJob(args[0], args[1])); err != nil {
				return err
			}
			opts.Console.Success("all groups converted")
			return nil
		},
	}

	cmd.Flags().StringVar(&timestampLayout, "timestamp-layout", convert.DefaultTimestampLayout, "Go time layout for timestamp cells")
	cmd.Flags().IntVar(&batchRows, "batch-rows", convert.DefaultBatchRows, "rows per channel decoded at once")

	return cmd
}
