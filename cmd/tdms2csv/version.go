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
	"fmt"
	"io"
	"runtime"
	runtimedebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
)

// VersionInfo describes the binary and the conversion defaults compiled into it
type VersionInfo struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Built     string `json:"built"`
	Dirty     bool   `json:"dirty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`

	Slices          int    `json:"slices"`
	BatchRows       int    `json:"batch_rows"`
	TimestampLayout string `json:"timestamp_layout"`
}

// GetVersionInfo collects build metadata and converter defaults
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:         "dev",
		GoVersion:       runtime.Version(),
		Platform:        runtime.GOOS + "/" + runtime.GOARCH,
		Slices:          convert.SliceCount,
		BatchRows:       convert.DefaultBatchRows,
		TimestampLayout: convert.DefaultTimestampLayout,
	}

	bi, ok := runtimedebug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	info.Revision = settings["vcs.revision"]
	info.Built = settings["vcs.time"]
	info.Dirty = settings["vcs.modified"] == "true"
	return info
}

// 🚀 WriteTo prints the version block
func (v *VersionInfo) WriteTo(w io.Writer) (int64, error) {
	revision := v.Revision
	if revision == "" {
		revision = "unknown"
	}
	if v.Dirty {
		revision += " (dirty)"
	}
	n, err := fmt.Fprintf(w, `🚀 tdms2csv version info:
Version:    %s
Revision:   %s
Built:      %s
Go:         %s (%s)
Slices:     %d per group
Batch rows: %d
Timestamps: %s
`, v.Version, revision, v.Built, v.GoVersion, v.Platform, v.Slices, v.BatchRows, v.TimestampLayout)
	return int64(n), err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and conversion defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := GetVersionInfo().WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
