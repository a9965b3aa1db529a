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
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		rows      int64
		wantSizes map[int]int64
	}{
		{name: "empty group", rows: 0, wantSizes: map[int]int64{0: 0, 100: 0}},
		{name: "fewer rows than slices", rows: 3, wantSizes: map[int]int64{0: 1, 2: 1, 3: 0, 100: 0}},
		{name: "exact multiple", rows: 202, wantSizes: map[int]int64{0: 2, 50: 2, 100: 2}},
		{name: "uneven split", rows: 250, wantSizes: map[int]int64{0: 3, 47: 3, 48: 2, 100: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slices := Partition(tt.rows, SliceCount)
			assert.Len(t, slices, SliceCount)

			var next int64
			for i, s := range slices {
				assert.Equal(t, i, s.Index)
				assert.Equal(t, next, s.Start, "slices must be contiguous")
				next = s.End
			}
			assert.Equal(t, tt.rows, next, "slices must cover every row")

			for idx, size := range tt.wantSizes {
				assert.Equal(t, size, slices[idx].Len(), "slice %d", idx)
			}
		})
	}

	assert.Nil(t, Partition(10, 0))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		dest   string
		source string
		group  string
		want   string
	}{
		{name: "basic", dest: "/out", source: "/data/run.tdms", group: "Group1", want: filepath.Join("/out", "run_Group1.csv")},
		{name: "dotted stem", dest: "/out", source: "/data/run.v2.tdms", group: "G", want: filepath.Join("/out", "run.v2_G.csv")},
		{name: "group with spaces", dest: "out", source: "a.tdms", group: "Raw Data", want: filepath.Join("out", "a_Raw Data.csv")},
		{name: "hidden file keeps base", dest: "/out", source: "/data/.tdms", group: "G", want: filepath.Join("/out", ".tdms_G.csv")},
		{name: "trailing slash", dest: "/out/", source: "/data/run.tdms", group: "G", want: filepath.Join("/out", "run_G.csv")},
		{name: "dot segments kept", dest: "/out", source: "/data/run.tdms", group: "x/../../escaped", want: "/out" + string(filepath.Separator) + "run_x/../../escaped.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.dest, tt.source, "csv", tt.group))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		bits int
		want string
	}{
		{in: 1, bits: 64, want: "1.0"},
		{in: 0, bits: 64, want: "0.0"},
		{in: 2.5, bits: 64, want: "2.5"},
		{in: 0.1, bits: 64, want: "0.1"},
		{in: -3.25, bits: 64, want: "-3.25"},
		{in: 0.0001, bits: 64, want: "0.0001"},
		{in: 0.00001, bits: 64, want: "1e-05"},
		{in: 1e16, bits: 64, want: "1e+16"},
		{in: 123456789012345, bits: 64, want: "123456789012345.0"},
		{in: float64(float32(0.1)), bits: 32, want: "0.1"},
		{in: math.NaN(), bits: 64, want: ""},
		{in: math.Inf(1), bits: 64, want: "inf"},
		{in: math.Inf(-1), bits: 64, want: "-inf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in, tt.bits), "formatting %v", tt.in)
	}
}

func TestFormatComplex(t *testing.T) {
	assert.Equal(t, "(1+2j)", FormatComplex(complex(1, 2), 64))
	assert.Equal(t, "(1.5-0.5j)", FormatComplex(complex(1.5, -0.5), 64))
	assert.Equal(t, "2j", FormatComplex(complex(0, 2), 64))
}

func TestCell(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)
	tests := []struct {
		name   string
		values tdms.Values
		want   string
	}{
		{name: "int", values: tdms.Values{Type: tdms.TypeInt32, Int: []int64{-7}}, want: "-7"},
		{name: "uint", values: tdms.Values{Type: tdms.TypeUint64, Uint: []uint64{math.MaxUint64}}, want: "18446744073709551615"},
		{name: "float", values: tdms.Values{Type: tdms.TypeFloat64, Float: []float64{3}}, want: "3.0"},
		{name: "bool", values: tdms.Values{Type: tdms.TypeBool, Bool: []bool{true}}, want: "True"},
		{name: "string", values: tdms.Values{Type: tdms.TypeString, String: []string{"a,b"}}, want: "a,b"},
		{name: "timestamp", values: tdms.Values{Type: tdms.TypeTimestamp, Time: []time.Time{ts}}, want: "2024-03-01 12:30:45.123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format{}.Cell(&tt.values, 0))
		})
	}

	custom := Format{TimestampLayout: time.RFC3339}
	v := tdms.Values{Type: tdms.TypeTimestamp, Time: []time.Time{ts}}
	assert.Equal(t, "2024-03-01T12:30:45Z", custom.Cell(&v, 0))
}
