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
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/validate"
)

// NewInspectCmd creates a new inspect command
func NewInspectCmd(opts *opts.RootOpts) *cobra.Command {
	var properties bool

	cmd := &cobra.Command{
		Use:   "inspect SOURCE",
		Short: "List the groups and channels of a TDMS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validate.FileValid(args[0]) {
				return errors.New(validate.MessageSourceInvalid)
			}

			f, err := tdms.Open(args[0])
			if err != nil {
				return errors.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			data := pterm.TableData{{"Group", "Channel", "Type", "Length", "Output"}}
			for _, g := range f.Groups() {
				output := convert.OutputPath(".", args[0], "csv", g.Name())
				if len(g.Channels()) == 0 {
					data = append(data, []string{g.Name(), "", "", "0", output})
				}
				for _, ch := range g.Channels() {
					data = append(data, []string{
						g.Name(),
						ch.Name(),
						ch.DataType().String(),
						strconv.FormatInt(ch.Len(), 10),
						output,
					})
				}
			}

			if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(opts.Out).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			if properties {
				if err := renderProperties(opts, f); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&properties, "properties", "p", false, "also list file, group and channel properties")

	return cmd
}

func renderProperties(opts *opts.RootOpts, f *tdms.File) error {
	data := pterm.TableData{{"Object", "Property", "Type", "Value"}}
	add := func(path string, props []tdms.Property) {
		sorted := append([]tdms.Property(nil), props...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, p := range sorted {
			data = append(data, []string{path, p.Name, p.Type.String(), fmt.Sprint(p.Value)})
		}
	}

	add(tdms.RootPath, f.Properties())
	for _, g := range f.Groups() {
		add(tdms.GroupPath(g.Name()), g.Properties())
		for _, ch := range g.Channels() {
			add(ch.Path(), ch.Properties())
		}
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(opts.Out).Render(); err != nil {
		return errors.Errorf("rendering properties: %w", err)
	}
	return nil
}
