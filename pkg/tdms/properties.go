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

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Property is a named metadata value attached to a file, group or channel
type Property struct {
	Name  string
	Type  DataType
	Value any
}

// cursor walks a metadata block in the segment byte order
type cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errors.Errorf("%w: metadata truncated at offset %d (need %d bytes)", ErrMalformed, c.pos, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *cursor) uint64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(b), nil
}

func (c *cursor) string() (string, error) {
	n, err := c.uint32()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// property reads one name/type/value triple
func (c *cursor) property() (Property, error) {
	name, err := c.string()
	if err != nil {
		return Property{}, errors.Errorf("reading property name: %w", err)
	}
	raw, err := c.uint32()
	if err != nil {
		return Property{}, errors.Errorf("reading type of property %q: %w", name, err)
	}
	t := DataType(raw)

	value, err := c.value(t)
	if err != nil {
		return Property{}, errors.Errorf("reading value of property %q: %w", name, err)
	}
	return Property{Name: name, Type: t, Value: value}, nil
}

func (c *cursor) value(t DataType) (any, error) {
	switch t {
	case TypeString:
		return c.string()
	case TypeExtended, TypeExtendedWithUnit:
		// 80-bit floats are padded to 16 bytes; kept raw.
		b, err := c.take(16)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case TypeVoid:
		return nil, nil
	}

	size := t.Size()
	if size == 0 {
		return nil, errors.Errorf("%w: property type %s", ErrUnsupported, t)
	}
	b, err := c.take(size)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeInt8:
		return int8(b[0]), nil
	case TypeInt16:
		return int16(c.order.Uint16(b)), nil
	case TypeInt32:
		return int32(c.order.Uint32(b)), nil
	case TypeInt64:
		return int64(c.order.Uint64(b)), nil
	case TypeUint8:
		return b[0], nil
	case TypeUint16:
		return c.order.Uint16(b), nil
	case TypeUint32:
		return c.order.Uint32(b), nil
	case TypeUint64:
		return c.order.Uint64(b), nil
	case TypeFloat32, TypeFloat32WithUnit:
		return math.Float32frombits(c.order.Uint32(b)), nil
	case TypeFloat64, TypeFloat64WithUnit:
		return math.Float64frombits(c.order.Uint64(b)), nil
	case TypeBool:
		return b[0] != 0, nil
	case TypeTimestamp:
		return decodeTimestamp(c.order, b), nil
	case TypeComplex64:
		re := math.Float32frombits(c.order.Uint32(b[0:4]))
		im := math.Float32frombits(c.order.Uint32(b[4:8]))
		return complex(re, im), nil
	case TypeComplex128:
		re := math.Float64frombits(c.order.Uint64(b[0:8]))
		im := math.Float64frombits(c.order.Uint64(b[8:16]))
		return complex(re, im), nil
	}
	return nil, errors.Errorf("%w: property type %s", ErrUnsupported, t)
}

// setProperty replaces a property with the same name or appends it
func setProperty(props []Property, p Property) []Property {
	for i := range props {
		if props[i].Name == p.Name {
			props[i] = p
			return props
		}
	}
	return append(props, p)
}

// propertyValue looks up a property by name
func propertyValue(props []Property, name string) (any, bool) {
	for _, p := range props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}
