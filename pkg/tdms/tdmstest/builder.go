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

// Package tdmstest builds TDMS byte streams for tests.
package tdmstest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"testing"
	"time"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"github.com/stretchr/testify/require"
)

const (
	tocMetaData        = 1 << 1
	tocNewObjList      = 1 << 2
	tocRawData         = 1 << 3
	tocInterleavedData = 1 << 5
	tocBigEndian       = 1 << 6

	version = 4713
)

// 🧱 Object is a file, group or channel entry in a segment
type Object struct {
	Path       string
	Properties []Property
	// Data is a slice of one supported element type ([]int32, []float64,
	// []string, []bool, []time.Time, ...); nil means no raw data.
	Data any
	// ReuseIndex writes the "same as previous segment" raw data index
	ReuseIndex bool
}

// 🏷️ Property is a name/value pair; the TDS type follows the Go type of Value
type Property struct {
	Name  string
	Value any
}

// 📦 Segment describes one segment of the stream
type Segment struct {
	Objects []Object
	// Interleaved writes raw data row by row
	Interleaved bool
	// KeepObjectList omits the new object list flag
	KeepObjectList bool
	// OmitMetadata writes raw data for Objects without a metadata block
	OmitMetadata bool
	// Chunks repeats the raw data block, default 1
	Chunks int
	// Incomplete marks the segment as not fully written
	Incomplete bool
	// Truncate drops bytes from the end of the raw data
	Truncate int
}

// 🏗️ Builder accumulates segments
type Builder struct {
	order binary.ByteOrder
	buf   bytes.Buffer
	err   error
}

// New creates a little-endian builder
func New() *Builder {
	return &Builder{order: binary.LittleEndian}
}

// BigEndian switches subsequent segments to big-endian encoding
func (b *Builder) BigEndian() *Builder {
	b.order = binary.BigEndian
	return b
}

// Group is shorthand for a group object carrying properties
func Group(name string, props ...Property) Object {
	return Object{Path: tdms.GroupPath(name), Properties: props}
}

// Channel is shorthand for a channel object with data
func Channel(group, name string, data any, props ...Property) Object {
	return Object{Path: tdms.ChannelPath(group, name), Data: data, Properties: props}
}

// Segment appends a segment
func (b *Builder) Segment(s Segment) *Builder {
	if b.err != nil {
		return b
	}

	var meta bytes.Buffer
	toc := uint32(0)
	if !s.OmitMetadata {
		toc |= tocMetaData
		b.writeMetadata(&meta, s.Objects)
	}
	if !s.KeepObjectList {
		toc |= tocNewObjList
	}
	if s.Interleaved {
		toc |= tocInterleavedData
	}
	if b.order == binary.BigEndian {
		toc |= tocBigEndian
	}

	raw := b.rawData(s)
	if len(raw) > 0 {
		toc |= tocRawData
	}
	if s.Truncate > 0 && s.Truncate <= len(raw) {
		raw = raw[:len(raw)-s.Truncate]
	}

	next := uint64(meta.Len() + len(raw))
	if s.Incomplete {
		next = math.MaxUint64
	}

	b.buf.WriteString("TDSm")
	_ = binary.Write(&b.buf, binary.LittleEndian, toc)
	_ = binary.Write(&b.buf, b.order, uint32(version))
	_ = binary.Write(&b.buf, b.order, next)
	_ = binary.Write(&b.buf, b.order, uint64(meta.Len()))
	b.buf.Write(meta.Bytes())
	b.buf.Write(raw)
	return b
}

// Raw appends arbitrary bytes, e.g. to produce a damaged stream
func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

// Bytes returns the encoded stream
func (b *Builder) Bytes() []byte {
	if b.err != nil {
		panic(b.err)
	}
	return b.buf.Bytes()
}

// WriteFile writes the stream to path
func (b *Builder) WriteFile(t testing.TB, path string) string {
	t.Helper()
	require.NoError(t, b.err, "building tdms stream")
	require.NoError(t, os.WriteFile(path, b.buf.Bytes(), 0644), "writing tdms file")
	return path
}

func (b *Builder) writeMetadata(w *bytes.Buffer, objects []Object) {
	b.put(w, uint32(len(objects)))
	for _, o := range objects {
		b.putString(w, o.Path)

		switch {
		case o.Data == nil:
			b.put(w, uint32(0xFFFFFFFF))
		case o.ReuseIndex:
			b.put(w, uint32(0))
		default:
			dt, count, size := describe(o.Data)
			if dt == tdms.TypeString {
				b.put(w, uint32(28))
			} else {
				b.put(w, uint32(20))
			}
			b.put(w, uint32(dt))
			b.put(w, uint32(1))
			b.put(w, uint64(count))
			if dt == tdms.TypeString {
				b.put(w, uint64(size))
			}
		}

		b.put(w, uint32(len(o.Properties)))
		for _, p := range o.Properties {
			b.putString(w, p.Name)
			b.putValue(w, p.Value)
		}
	}
}

func (b *Builder) rawData(s Segment) []byte {
	var chunk bytes.Buffer
	var withData []Object
	for _, o := range s.Objects {
		if o.Data != nil {
			withData = append(withData, o)
		}
	}

	if s.Interleaved {
		rows := 0
		if len(withData) > 0 {
			_, rows, _ = describe(withData[0].Data)
		}
		for i := 0; i < rows; i++ {
			for _, o := range withData {
				b.putElement(&chunk, o.Data, i)
			}
		}
	} else {
		for _, o := range withData {
			b.putSlice(&chunk, o.Data)
		}
	}

	chunks := s.Chunks
	if chunks == 0 {
		chunks = 1
	}
	return bytes.Repeat(chunk.Bytes(), chunks)
}

func (b *Builder) put(w *bytes.Buffer, v any) {
	if err := binary.Write(w, b.order, v); err != nil && b.err == nil {
		b.err = err
	}
}

func (b *Builder) putString(w *bytes.Buffer, s string) {
	b.put(w, uint32(len(s)))
	w.WriteString(s)
}

func (b *Builder) putValue(w *bytes.Buffer, v any) {
	dt := typeOf(v)
	b.put(w, uint32(dt))
	switch x := v.(type) {
	case string:
		b.putString(w, x)
	case time.Time:
		w.Write(tdms.EncodeTimestamp(b.order, x))
	case bool:
		if x {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
	case int:
		b.put(w, int32(x))
	default:
		b.put(w, v)
	}
}

func (b *Builder) putSlice(w *bytes.Buffer, data any) {
	switch x := data.(type) {
	case []string:
		end := uint32(0)
		for _, s := range x {
			end += uint32(len(s))
			b.put(w, end)
		}
		for _, s := range x {
			w.WriteString(s)
		}
	default:
		_, n, _ := describe(data)
		for i := 0; i < n; i++ {
			b.putElement(w, data, i)
		}
	}
}

func (b *Builder) putElement(w *bytes.Buffer, data any, i int) {
	switch x := data.(type) {
	case []bool:
		if x[i] {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
	case []time.Time:
		w.Write(tdms.EncodeTimestamp(b.order, x[i]))
	case []int8:
		b.put(w, x[i])
	case []int16:
		b.put(w, x[i])
	case []int32:
		b.put(w, x[i])
	case []int64:
		b.put(w, x[i])
	case []uint8:
		b.put(w, x[i])
	case []uint16:
		b.put(w, x[i])
	case []uint32:
		b.put(w, x[i])
	case []uint64:
		b.put(w, x[i])
	case []float32:
		b.put(w, x[i])
	case []float64:
		b.put(w, x[i])
	case []complex64:
		b.put(w, real(x[i]))
		b.put(w, imag(x[i]))
	case []complex128:
		b.put(w, real(x[i]))
		b.put(w, imag(x[i]))
	}
}

// describe returns the TDS type, value count and, for strings, the total
// encoded size of a data slice.
func describe(data any) (tdms.DataType, int, int) {
	switch x := data.(type) {
	case []string:
		size := 4 * len(x)
		for _, s := range x {
			size += len(s)
		}
		return tdms.TypeString, len(x), size
	case []bool:
		return tdms.TypeBool, len(x), 0
	case []time.Time:
		return tdms.TypeTimestamp, len(x), 0
	case []int8:
		return tdms.TypeInt8, len(x), 0
	case []int16:
		return tdms.TypeInt16, len(x), 0
	case []int32:
		return tdms.TypeInt32, len(x), 0
	case []int64:
		return tdms.TypeInt64, len(x), 0
	case []uint8:
		return tdms.TypeUint8, len(x), 0
	case []uint16:
		return tdms.TypeUint16, len(x), 0
	case []uint32:
		return tdms.TypeUint32, len(x), 0
	case []uint64:
		return tdms.TypeUint64, len(x), 0
	case []float32:
		return tdms.TypeFloat32, len(x), 0
	case []float64:
		return tdms.TypeFloat64, len(x), 0
	case []complex64:
		return tdms.TypeComplex64, len(x), 0
	case []complex128:
		return tdms.TypeComplex128, len(x), 0
	}
	panic("tdmstest: unsupported data slice")
}

func typeOf(v any) tdms.DataType {
	switch v.(type) {
	case string:
		return tdms.TypeString
	case bool:
		return tdms.TypeBool
	case time.Time:
		return tdms.TypeTimestamp
	case int8:
		return tdms.TypeInt8
	case int16:
		return tdms.TypeInt16
	case int32, int:
		return tdms.TypeInt32
	case int64:
		return tdms.TypeInt64
	case uint8:
		return tdms.TypeUint8
	case uint16:
		return tdms.TypeUint16
	case uint32:
		return tdms.TypeUint32
	case uint64:
		return tdms.TypeUint64
	case float32:
		return tdms.TypeFloat32
	case float64:
		return tdms.TypeFloat64
	}
	panic("tdmstest: unsupported property value")
}

// Sequence returns n float64 values counting up from start
func Sequence(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}
