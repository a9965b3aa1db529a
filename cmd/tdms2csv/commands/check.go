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
	"github.com/ohmycaptainnemo/tdms-converter/pkg/validate"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check SOURCE DESTINATION",
		Short: "Check a source file and destination directory without converting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := validate.Validate(args[0], args[1])
			if !res.OK() {
				opts.Console.Warning(res.Message())
				return res.Err()
			}
			opts.Console.Success("paths are valid")
			return nil
		},
	}

	return cmd
}
