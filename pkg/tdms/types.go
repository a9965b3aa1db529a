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
	"fmt"
)

// 🧬 DataType is the TDS type code stored in raw data indexes and properties
type DataType uint32

const (
	TypeVoid             DataType = 0x00
	TypeInt8             DataType = 0x01
	TypeInt16            DataType = 0x02
	TypeInt32            DataType = 0x03
	TypeInt64            DataType = 0x04
	TypeUint8            DataType = 0x05
	TypeUint16           DataType = 0x06
	TypeUint32           DataType = 0x07
	TypeUint64           DataType = 0x08
	TypeFloat32          DataType = 0x09
	TypeFloat64          DataType = 0x0A
	TypeExtended         DataType = 0x0B
	TypeFloat32WithUnit  DataType = 0x19
	TypeFloat64WithUnit  DataType = 0x1A
	TypeExtendedWithUnit DataType = 0x1B
	TypeString           DataType = 0x20
	TypeBool             DataType = 0x21
	TypeTimestamp        DataType = 0x44
	TypeFixedPoint       DataType = 0x4F
	TypeComplex64        DataType = 0x08000C
	TypeComplex128       DataType = 0x10000D
	TypeDAQmxRaw         DataType = 0xFFFFFFFF
)

// Size returns the encoded width of one value, or 0 for variable-width and
// unsupported types.
func (t DataType) Size() int {
	switch t {
	case TypeInt8, TypeUint8, TypeBool:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32, TypeFloat32WithUnit:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64, TypeFloat64WithUnit, TypeComplex64:
		return 8
	case TypeTimestamp, TypeComplex128:
		return 16
	default:
		return 0
	}
}

// Supported reports whether raw channel data of this type can be decoded
func (t DataType) Supported() bool {
	return t == TypeString || t.Size() > 0
}

// Kind groups data types by the slice they decode into
func (t DataType) Kind() Kind {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return KindInt
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return KindUint
	case TypeFloat32, TypeFloat64, TypeFloat32WithUnit, TypeFloat64WithUnit:
		return KindFloat
	case TypeBool:
		return KindBool
	case TypeTimestamp:
		return KindTime
	case TypeString:
		return KindString
	case TypeComplex64, TypeComplex128:
		return KindComplex
	default:
		return KindInvalid
	}
}

func (t DataType) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeFloat32, TypeFloat32WithUnit:
		return "float32"
	case TypeFloat64, TypeFloat64WithUnit:
		return "float64"
	case TypeExtended, TypeExtendedWithUnit:
		return "extended"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeFixedPoint:
		return "fixed_point"
	case TypeComplex64:
		return "complex64"
	case TypeComplex128:
		return "complex128"
	case TypeDAQmxRaw:
		return "daqmx_raw"
	default:
		return fmt.Sprintf("unknown(0x%X)", uint32(t))
	}
}

// 📦 Kind is the decoded representation of a DataType
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindTime
	KindString
	KindComplex
)
