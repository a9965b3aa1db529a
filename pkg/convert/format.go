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
	"strconv"
	"strings"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
)

// DefaultTimestampLayout renders timestamps with microsecond precision in UTC
const DefaultTimestampLayout = "2006-01-02 15:04:05.000000"

// 🖋️ Format controls how channel values are rendered into CSV cells
type Format struct {
	TimestampLayout string
}

// Cell renders the i-th value of v
func (f Format) Cell(v *tdms.Values, i int) string {
	switch v.Type.Kind() {
	case tdms.KindInt:
		return strconv.FormatInt(v.Int[i], 10)
	case tdms.KindUint:
		return strconv.FormatUint(v.Uint[i], 10)
	case tdms.KindFloat:
		bits := 64
		if v.Type == tdms.TypeFloat32 || v.Type == tdms.TypeFloat32WithUnit {
			bits = 32
		}
		return FormatFloat(v.Float[i], bits)
	case tdms.KindBool:
		if v.Bool[i] {
			return "True"
		}
		return "False"
	case tdms.KindTime:
		layout := f.TimestampLayout
		if layout == "" {
			layout = DefaultTimestampLayout
		}
		return v.Time[i].UTC().Format(layout)
	case tdms.KindString:
		return v.String[i]
	case tdms.KindComplex:
		bits := 64
		if v.Type == tdms.TypeComplex64 {
			bits = 32
		}
		return FormatComplex(v.Complex[i], bits)
	default:
		return ""
	}
}

// 🔢 FormatFloat renders the shortest representation that round-trips at the
// given bit size. Integral values keep a trailing ".0", exponent notation is
// used below 1e-4 and from 1e16 on, NaN becomes an empty cell.
func FormatFloat(x float64, bits int) string {
	s, exponent := shortestFloat(x, bits)
	if s != "" || exponent {
		return s
	}
	out := strconv.FormatFloat(x, 'f', -1, bits)
	if !strings.ContainsRune(out, '.') {
		out += ".0"
	}
	return out
}

// FormatComplex renders complex values as (re+imj), dropping the real part
// when it is a positive zero.
func FormatComplex(c complex128, bits int) string {
	re, im := real(c), imag(c)
	imStr := trimmedFloat(im, bits) + "j"
	if re == 0 && !math.Signbit(re) {
		return imStr
	}
	sign := "+"
	if strings.HasPrefix(imStr, "-") {
		sign = ""
	}
	return "(" + trimmedFloat(re, bits) + sign + imStr + ")"
}

func trimmedFloat(x float64, bits int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if s, exponent := shortestFloat(x, bits); exponent {
		return s
	}
	return strconv.FormatFloat(x, 'f', -1, bits)
}

// shortestFloat handles the special values and the exponent form; it
// returns "", false when plain decimal notation applies.
func shortestFloat(x float64, bits int) (string, bool) {
	switch {
	case math.IsNaN(x):
		return "", true
	case math.IsInf(x, 1):
		return "inf", true
	case math.IsInf(x, -1):
		return "-inf", true
	case x == 0:
		return "", false
	}

	e := strconv.FormatFloat(x, 'e', -1, bits)
	idx := strings.IndexByte(e, 'e')
	exp, err := strconv.Atoi(e[idx+1:])
	if err != nil || (exp >= -4 && exp < 16) {
		return "", false
	}
	return e, true
}
