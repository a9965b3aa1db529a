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

package tdms

import (
	"encoding/binary"
	"math"
	"math/bits"
	"strings"
	"time"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// epoch1904 is the offset in seconds between the TDMS epoch (1904-01-01 UTC)
// and the Unix epoch.
const epoch1904 = -2082844800

// 📊 Values holds a contiguous run of decoded channel values. Only the slice
// matching Type.Kind() is populated.
type Values struct {
	Type    DataType
	Int     []int64
	Uint    []uint64
	Float   []float64
	Bool    []bool
	Time    []time.Time
	String  []string
	Complex []complex128
}

// Len returns the number of decoded values
func (v *Values) Len() int {
	switch v.Type.Kind() {
	case KindInt:
		return len(v.Int)
	case KindUint:
		return len(v.Uint)
	case KindFloat:
		return len(v.Float)
	case KindBool:
		return len(v.Bool)
	case KindTime:
		return len(v.Time)
	case KindString:
		return len(v.String)
	case KindComplex:
		return len(v.Complex)
	default:
		return 0
	}
}

// Reset empties the value slices while keeping their capacity
func (v *Values) Reset(t DataType) {
	v.Type = t
	v.Int = v.Int[:0]
	v.Uint = v.Uint[:0]
	v.Float = v.Float[:0]
	v.Bool = v.Bool[:0]
	v.Time = v.Time[:0]
	v.String = v.String[:0]
	v.Complex = v.Complex[:0]
}

// Value returns the i-th value boxed in its natural Go type
func (v *Values) Value(i int) any {
	switch v.Type.Kind() {
	case KindInt:
		return v.Int[i]
	case KindUint:
		return v.Uint[i]
	case KindFloat:
		return v.Float[i]
	case KindBool:
		return v.Bool[i]
	case KindTime:
		return v.Time[i]
	case KindString:
		return v.String[i]
	case KindComplex:
		return v.Complex[i]
	default:
		return nil
	}
}

// decodeFixed appends count fixed-width values read from buf, where
// consecutive values are stride bytes apart.
func (v *Values) decodeFixed(order binary.ByteOrder, buf []byte, stride, count int) error {
	size := v.Type.Size()
	if size == 0 {
		return errors.Errorf("%w: decoding %s values", ErrUnsupported, v.Type)
	}
	if count > 0 && (count-1)*stride+size > len(buf) {
		return errors.Errorf("%w: short buffer decoding %d %s values", ErrMalformed, count, v.Type)
	}

	for i := 0; i < count; i++ {
		b := buf[i*stride : i*stride+size]
		switch v.Type {
		case TypeInt8:
			v.Int = append(v.Int, int64(int8(b[0])))
		case TypeInt16:
			v.Int = append(v.Int, int64(int16(order.Uint16(b))))
		case TypeInt32:
			v.Int = append(v.Int, int64(int32(order.Uint32(b))))
		case TypeInt64:
			v.Int = append(v.Int, int64(order.Uint64(b)))
		case TypeUint8:
			v.Uint = append(v.Uint, uint64(b[0]))
		case TypeUint16:
			v.Uint = append(v.Uint, uint64(order.Uint16(b)))
		case TypeUint32:
			v.Uint = append(v.Uint, uint64(order.Uint32(b)))
		case TypeUint64:
			v.Uint = append(v.Uint, order.Uint64(b))
		case TypeFloat32, TypeFloat32WithUnit:
			v.Float = append(v.Float, float64(math.Float32frombits(order.Uint32(b))))
		case TypeFloat64, TypeFloat64WithUnit:
			v.Float = append(v.Float, math.Float64frombits(order.Uint64(b)))
		case TypeBool:
			v.Bool = append(v.Bool, b[0] != 0)
		case TypeTimestamp:
			v.Time = append(v.Time, decodeTimestamp(order, b))
		case TypeComplex64:
			re := math.Float32frombits(order.Uint32(b[0:4]))
			im := math.Float32frombits(order.Uint32(b[4:8]))
			v.Complex = append(v.Complex, complex(float64(re), float64(im)))
		case TypeComplex128:
			re := math.Float64frombits(order.Uint64(b[0:8]))
			im := math.Float64frombits(order.Uint64(b[8:16]))
			v.Complex = append(v.Complex, complex(re, im))
		}
	}
	return nil
}

// decodeStrings appends strings whose end offsets (relative to the start of
// data) are listed in ends; base is the end offset preceding ends[0].
func (v *Values) decodeStrings(ends []uint32, base uint32, data []byte) error {
	prev := base
	for _, end := range ends {
		if end < prev || int(end-base) > len(data) {
			return errors.Errorf("%w: string offset %d out of range", ErrMalformed, end)
		}
		s := data[prev-base : end-base]
		if utf8.Valid(s) {
			v.String = append(v.String, string(s))
		} else {
			v.String = append(v.String, strings.ToValidUTF8(string(s), "\uFFFD"))
		}
		prev = end
	}
	return nil
}

// 🕰️ decodeTimestamp converts a 16 byte TDMS timestamp. Little-endian files
// store the fraction first, big-endian files the seconds first.
func decodeTimestamp(order binary.ByteOrder, b []byte) time.Time {
	var seconds int64
	var fraction uint64
	if order == binary.LittleEndian {
		fraction = order.Uint64(b[0:8])
		seconds = int64(order.Uint64(b[8:16]))
	} else {
		seconds = int64(order.Uint64(b[0:8]))
		fraction = order.Uint64(b[8:16])
	}
	nanos, _ := bits.Mul64(fraction, uint64(time.Second))
	return time.Unix(seconds+epoch1904, int64(nanos)).UTC()
}

// EncodeTimestamp is the inverse of the raw timestamp decoding, exposed for
// fixture builders.
func EncodeTimestamp(order binary.ByteOrder, t time.Time) []byte {
	seconds := t.Unix() - epoch1904
	fraction, rem := bits.Div64(uint64(t.Nanosecond()), 0, uint64(time.Second))
	if rem != 0 {
		fraction++
	}
	b := make([]byte, 16)
	if order == binary.LittleEndian {
		order.PutUint64(b[0:8], fraction)
		order.PutUint64(b[8:16], uint64(seconds))
	} else {
		order.PutUint64(b[0:8], uint64(seconds))
		order.PutUint64(b[8:16], fraction)
	}
	return b
}
