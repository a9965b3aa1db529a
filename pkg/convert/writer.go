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
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"gitlab.com/tozd/go/errors"
)

// 📝 chunkWriter streams a group's rows into one CSV file. The file is
// created (truncating any previous content) together with the header on the
// first write, after the first batch of values has been read successfully.
type chunkWriter struct {
	path     string
	channels []*tdms.Channel
	format   Format
	batch    int64

	file   *os.File
	csv    *csv.Writer
	values []tdms.Values
	record []string
	rows   int64
}

func newChunkWriter(path string, channels []*tdms.Channel, format Format, batch int64) *chunkWriter {
	return &chunkWriter{
		path:     path,
		channels: channels,
		format:   format,
		batch:    batch,
		values:   make([]tdms.Values, len(channels)),
		record:   make([]string, len(channels)+1),
	}
}

// writeSlice appends the rows of s, reading at most batch rows per channel
// at a time, and flushes them to disk.
func (w *chunkWriter) writeSlice(s Slice) error {
	for lo := s.Start; lo < s.End; lo += w.batch {
		hi := min(lo+w.batch, s.End)

		if err := tdms.ReadRows(w.channels, w.values, lo, hi-lo); err != nil {
			return &ConversionError{Op: OpRead, Err: err}
		}

		if err := w.open(); err != nil {
			return err
		}
		if err := w.writeRows(lo, hi); err != nil {
			return err
		}
	}

	if err := w.open(); err != nil {
		return err
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return &ConversionError{Op: OpWrite, Err: errors.Errorf("flushing rows: %w", err)}
	}
	return nil
}

func (w *chunkWriter) open() error {
	if w.file != nil {
		return nil
	}

	f, err := os.Create(w.path)
	if err != nil {
		return &ConversionError{Op: OpWrite, Err: errors.Errorf("creating output file: %w", err)}
	}
	w.file = f
	w.csv = csv.NewWriter(f)

	header := make([]string, 0, len(w.channels)+1)
	header = append(header, "")
	for _, ch := range w.channels {
		header = append(header, ch.Name())
	}
	if err := w.csv.Write(header); err != nil {
		return &ConversionError{Op: OpWrite, Err: errors.Errorf("writing header: %w", err)}
	}
	return nil
}

func (w *chunkWriter) writeRows(lo, hi int64) error {
	for row := lo; row < hi; row++ {
		j := int(row - lo)
		w.record[0] = strconv.FormatInt(row, 10)
		for i := range w.channels {
			if j < w.values[i].Len() {
				w.record[i+1] = w.format.Cell(&w.values[i], j)
			} else {
				w.record[i+1] = ""
			}
		}
		if err := w.csv.Write(w.record); err != nil {
			return &ConversionError{Op: OpWrite, Err: errors.Errorf("writing row %d: %w", row, err)}
		}
		w.rows++
	}
	return nil
}

func (w *chunkWriter) close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return &ConversionError{Op: OpWrite, Err: errors.Errorf("closing output file: %w", err)}
	}
	return nil
}
