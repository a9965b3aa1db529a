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
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 📈 Channel is a column of values inside a group
type Channel struct {
	file      *File
	group     string
	name      string
	props     []Property
	dataType  DataType
	lastIndex *rawIndex
	chunks    []dataChunk
	length    int64
}

// dataChunk locates a run of consecutive channel values in the file
type dataChunk struct {
	first   int64 // channel index of the first value
	count   int64
	offset  int64 // first value, or the offset table for strings
	stride  int64 // distance between values, fixed width types only
	strData int64 // start of string bytes
	strSize int64 // length of string bytes
	order   binary.ByteOrder

	// interleaved chunks share a row block starting at block
	interleaved bool
	block       int64
}

// Name returns the channel name
func (ch *Channel) Name() string { return ch.name }

// Group returns the name of the enclosing group
func (ch *Channel) Group() string { return ch.group }

// Path returns the escaped TDMS object path
func (ch *Channel) Path() string { return ChannelPath(ch.group, ch.name) }

// DataType returns the raw data type, TypeVoid when the channel has no data
func (ch *Channel) DataType() DataType { return ch.dataType }

// Len returns the number of values stored for the channel
func (ch *Channel) Len() int64 { return ch.length }

// Properties returns the channel properties
func (ch *Channel) Properties() []Property { return ch.props }

// Property looks up a channel property
func (ch *Channel) Property(name string) (any, bool) { return propertyValue(ch.props, name) }

func (ch *Channel) addChunk(c dataChunk) {
	c.first = ch.length
	ch.chunks = append(ch.chunks, c)
	ch.length += c.count
}

// 📖 Read decodes count values starting at index start. The range is clipped
// to the channel length.
func (ch *Channel) Read(start, count int64) (*Values, error) {
	v := &Values{}
	if err := ch.ReadInto(v, start, count); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadInto is Read reusing the slices of dst
func (ch *Channel) ReadInto(dst *Values, start, count int64) error {
	dst.Reset(ch.dataType)
	return ch.appendRange(dst, start, count, nil)
}

// appendRange appends values [start, start+count) to dst. Interleaved rows
// go through rows when it is not nil.
func (ch *Channel) appendRange(dst *Values, start, count int64, rows *rowCache) error {
	if start < 0 || count < 0 {
		return errors.Errorf("invalid range [%d, +%d) for channel %s", start, count, ch.Path())
	}
	if start >= ch.length || count == 0 {
		return nil
	}
	if count > ch.length-start {
		count = ch.length - start
	}

	i := sort.Search(len(ch.chunks), func(i int) bool {
		return ch.chunks[i].first+ch.chunks[i].count > start
	})

	pos, remaining := start, count
	for ; remaining > 0 && i < len(ch.chunks); i++ {
		c := ch.chunks[i]
		local := pos - c.first
		n := min(c.count-local, remaining)
		if err := ch.readChunk(dst, c, local, n, rows); err != nil {
			return errors.Errorf("reading channel %s: %w", ch.Path(), err)
		}
		pos += n
		remaining -= n
	}
	return nil
}

func (ch *Channel) readChunk(dst *Values, c dataChunk, local, n int64, rows *rowCache) error {
	if ch.dataType == TypeString {
		return ch.readStrings(dst, c, local, n)
	}

	if c.interleaved && rows != nil {
		buf, err := rows.load(ch.file, c, local, n)
		if err != nil {
			return err
		}
		return dst.decodeFixed(c.order, buf[c.offset-c.block:], int(c.stride), int(n))
	}

	size := int64(ch.dataType.Size())
	buf := make([]byte, (n-1)*c.stride+size)
	if err := ch.file.readFull(buf, c.offset+local*c.stride); err != nil {
		return err
	}
	return dst.decodeFixed(c.order, buf, int(c.stride), int(n))
}

// readStrings reads the slice of the offset table covering [local, local+n)
// plus the preceding end offset, then the string bytes they delimit.
func (ch *Channel) readStrings(dst *Values, c dataChunk, local, n int64) error {
	from, entries := c.offset+4*local, n
	if local > 0 {
		from -= 4
		entries++
	}

	table := make([]byte, 4*entries)
	if err := ch.file.readFull(table, from); err != nil {
		return err
	}
	offsets := make([]uint32, entries)
	for i := range offsets {
		offsets[i] = c.order.Uint32(table[4*i:])
	}

	var base uint32
	ends := offsets
	if local > 0 {
		base, ends = offsets[0], offsets[1:]
	}
	last := ends[len(ends)-1]
	if last < base {
		return errors.Errorf("%w: decreasing string offsets", ErrMalformed)
	}
	if int64(last) > c.strSize {
		return errors.Errorf("%w: string offset %d beyond %d bytes of string data", ErrMalformed, last, c.strSize)
	}

	data := make([]byte, last-base)
	if err := ch.file.readFull(data, c.strData+int64(base)); err != nil {
		return err
	}
	return dst.decodeStrings(ends, base, data)
}
