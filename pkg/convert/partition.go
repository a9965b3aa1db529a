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

package convert

import (
	"path/filepath"
	"strings"
)

// SliceCount is the number of row slices every group is written in. Slice
// indexes 0..100 double as progress values.
const SliceCount = 101

// 🔪 Slice is a half-open row range [Start, End)
type Slice struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of rows in the slice
func (s Slice) Len() int64 { return s.End - s.Start }

// Partition splits [0, rows) into n contiguous slices in ascending order.
// The first rows%n slices carry one extra row, so sizes differ by at most one
// and empty trailing slices appear when rows < n.
func Partition(rows int64, n int) []Slice {
	if n <= 0 {
		return nil
	}
	if rows < 0 {
		rows = 0
	}

	size, extra := rows/int64(n), rows%int64(n)
	out := make([]Slice, n)
	var start int64
	for i := range out {
		l := size
		if int64(i) < extra {
			l++
		}
		out[i] = Slice{Index: i, Start: start, End: start + l}
		start += l
	}
	return out
}

// 📍 OutputPath builds <destDir>/<source stem>_<group>.<format>. The file
// name is appended verbatim; dot segments in group are not resolved.
func OutputPath(destDir, sourcePath, format, group string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Clean(destDir) + string(filepath.Separator) + stem + "_" + group + "." + format
}

// validGroupName reports whether a group name can be used as part of a
// single file name inside the destination directory.
func validGroupName(group string) bool {
	return !strings.ContainsRune(group, '/') && !strings.ContainsRune(group, filepath.Separator)
}
