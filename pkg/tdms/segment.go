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

const (
	leadInSize = 28

	tocMetaData        = 1 << 1
	tocNewObjList      = 1 << 2
	tocRawData         = 1 << 3
	tocInterleavedData = 1 << 5
	tocBigEndian       = 1 << 6
	tocDAQmxRawData    = 1 << 7

	// raw data index headers
	noRawData           = 0xFFFFFFFF
	reuseRawIndex       = 0x00000000
	formatChangingScale = 0x00001269
	digitalLineScale    = 0x0000126A

	incompleteSegment = math.MaxUint64
)

var segmentTag = [4]byte{'T', 'D', 'S', 'm'}

// rawIndex describes the raw data an object contributes to each chunk of a segment
type rawIndex struct {
	dataType DataType
	count    uint64
	size     uint64 // total bytes for strings, offsets included
}

func (ri *rawIndex) dataSize() int64 {
	if ri.dataType == TypeString {
		return int64(ri.size)
	}
	return int64(ri.count) * int64(ri.dataType.Size())
}

// segmentObject is one entry of a segment's ordered object list
type segmentObject struct {
	ch    *Channel
	index *rawIndex // nil when the object has no data in the segment
}

// 🔎 scan walks every segment lead-in and metadata block, building the object
// tree and the per-channel chunk tables without touching raw data.
func (f *File) scan() error {
	var (
		pos     int64
		objects []segmentObject
		err     error
	)

	for pos < f.size {
		if f.size-pos < leadInSize {
			return errors.Errorf("%w: %d trailing bytes at offset %d", ErrMalformed, f.size-pos, pos)
		}
		pos, objects, err = f.readSegment(pos, objects)
		if err != nil {
			return errors.Errorf("segment %d: %w", f.segments, err)
		}
		f.segments++
	}
	return nil
}

func (f *File) readSegment(pos int64, prev []segmentObject) (int64, []segmentObject, error) {
	var lead [leadInSize]byte
	if err := f.readFull(lead[:], pos); err != nil {
		return 0, nil, errors.Errorf("reading lead-in: %w", err)
	}
	if [4]byte(lead[0:4]) != segmentTag {
		return 0, nil, errors.Errorf("%w: bad segment tag %q at offset %d", ErrMalformed, lead[0:4], pos)
	}

	toc := binary.LittleEndian.Uint32(lead[4:8])
	var order binary.ByteOrder = binary.LittleEndian
	if toc&tocBigEndian != 0 {
		order = binary.BigEndian
	}
	nextOffset := order.Uint64(lead[12:20])
	rawOffset := order.Uint64(lead[20:28])

	metaStart := pos + leadInSize
	end := f.size
	if nextOffset != incompleteSegment && nextOffset <= uint64(f.size-metaStart) {
		end = metaStart + int64(nextOffset)
	}
	if rawOffset > uint64(end-metaStart) {
		return 0, nil, errors.Errorf("%w: raw data offset %d beyond segment end", ErrMalformed, rawOffset)
	}
	dataStart := metaStart + int64(rawOffset)

	var objects []segmentObject
	if toc&tocNewObjList == 0 {
		objects = append(objects, prev...)
	}

	if toc&tocMetaData != 0 {
		meta := make([]byte, dataStart-metaStart)
		if err := f.readFull(meta, metaStart); err != nil {
			return 0, nil, errors.Errorf("reading metadata: %w", err)
		}
		var err error
		objects, err = f.readMetadata(&cursor{buf: meta, order: order}, objects)
		if err != nil {
			return 0, nil, errors.Errorf("parsing metadata: %w", err)
		}
	}

	if toc&tocRawData != 0 {
		if toc&tocDAQmxRawData != 0 {
			return 0, nil, errors.Errorf("%w: DAQmx raw data", ErrUnsupported)
		}
		if err := f.layoutRawData(objects, dataStart, end, toc&tocInterleavedData != 0, order); err != nil {
			return 0, nil, err
		}
	}

	return end, objects, nil
}

func (f *File) readMetadata(c *cursor, objects []segmentObject) ([]segmentObject, error) {
	count, err := c.uint32()
	if err != nil {
		return nil, errors.Errorf("reading object count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		path, err := c.string()
		if err != nil {
			return nil, errors.Errorf("reading object path: %w", err)
		}
		parts, err := ParsePath(path)
		if err != nil {
			return nil, err
		}

		var ch *Channel
		var props *[]Property
		switch len(parts) {
		case 0:
			props = &f.props
		case 1:
			props = &f.group(parts[0]).props
		case 2:
			ch = f.group(parts[0]).channel(f, parts[1])
			props = &ch.props
		}

		index, err := readRawIndex(c, ch)
		if err != nil {
			return nil, errors.Errorf("object %s: %w", path, err)
		}
		if index != nil {
			if ch == nil {
				return nil, errors.Errorf("%w: object %s is not a channel but has raw data", ErrMalformed, path)
			}
			if ch.dataType != TypeVoid && ch.dataType != index.dataType {
				return nil, errors.Errorf("%w: channel %s changes type from %s to %s", ErrMalformed, path, ch.dataType, index.dataType)
			}
			ch.dataType = index.dataType
			ch.lastIndex = index
		}

		n, err := c.uint32()
		if err != nil {
			return nil, errors.Errorf("object %s: reading property count: %w", path, err)
		}
		for j := uint32(0); j < n; j++ {
			p, err := c.property()
			if err != nil {
				return nil, errors.Errorf("object %s: %w", path, err)
			}
			*props = setProperty(*props, p)
		}

		if ch != nil {
			objects = upsertObject(objects, ch, index)
		}
	}
	return objects, nil
}

func readRawIndex(c *cursor, ch *Channel) (*rawIndex, error) {
	header, err := c.uint32()
	if err != nil {
		return nil, errors.Errorf("reading raw data index: %w", err)
	}

	switch header {
	case noRawData:
		return nil, nil
	case reuseRawIndex:
		if ch == nil || ch.lastIndex == nil {
			return nil, errors.Errorf("%w: raw data index reused before being defined", ErrMalformed)
		}
		return ch.lastIndex, nil
	case formatChangingScale, digitalLineScale:
		return nil, errors.Errorf("%w: DAQmx raw data index", ErrUnsupported)
	}

	dt, err := c.uint32()
	if err != nil {
		return nil, err
	}
	dim, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if dim != 1 {
		return nil, errors.Errorf("%w: array dimension %d", ErrMalformed, dim)
	}
	count, err := c.uint64()
	if err != nil {
		return nil, err
	}

	index := &rawIndex{dataType: DataType(dt), count: count}
	if index.dataType == TypeString {
		if index.size, err = c.uint64(); err != nil {
			return nil, err
		}
		if index.size < 4*count {
			return nil, errors.Errorf("%w: string data size %d smaller than offset table", ErrMalformed, index.size)
		}
	}
	return index, nil
}

func upsertObject(objects []segmentObject, ch *Channel, index *rawIndex) []segmentObject {
	for i := range objects {
		if objects[i].ch == ch {
			objects[i].index = index
			return objects
		}
	}
	return append(objects, segmentObject{ch: ch, index: index})
}

// 📐 layoutRawData records where every channel's values live inside the raw
// data section [start, end) of a segment.
func (f *File) layoutRawData(objects []segmentObject, start, end int64, interleaved bool, order binary.ByteOrder) error {
	var active []segmentObject
	var chunkSize, rowSize int64
	for _, o := range objects {
		if o.index == nil || o.index.count == 0 {
			continue
		}
		if !o.index.dataType.Supported() {
			return errors.Errorf("%w: channel %s has %s data", ErrUnsupported, o.ch.Path(), o.index.dataType)
		}
		active = append(active, o)
		chunkSize += o.index.dataSize()
		rowSize += int64(o.index.dataType.Size())
	}
	if len(active) == 0 || chunkSize == 0 {
		return nil
	}

	if interleaved {
		for _, o := range active {
			if o.index.dataType == TypeString {
				return errors.Errorf("%w: interleaved string data", ErrUnsupported)
			}
			if o.index.count != active[0].index.count {
				return errors.Errorf("%w: interleaved channels with different lengths", ErrMalformed)
			}
		}
	}

	total := end - start
	chunks := total / chunkSize
	for i := int64(0); i < chunks; i++ {
		base := start + i*chunkSize
		if interleaved {
			addInterleaved(active, base, rowSize, int64(active[0].index.count), order)
		} else {
			addContiguous(active, base, chunkSize, order)
		}
	}

	if rem := total % chunkSize; rem > 0 {
		base := start + chunks*chunkSize
		if interleaved {
			if rows := rem / rowSize; rows > 0 {
				addInterleaved(active, base, rowSize, rows, order)
			}
		} else {
			addContiguous(active, base, rem, order)
		}
	}
	return nil
}

func addInterleaved(active []segmentObject, base, rowSize, rows int64, order binary.ByteOrder) {
	var col int64
	for _, o := range active {
		o.ch.addChunk(dataChunk{
			offset:      base + col,
			stride:      rowSize,
			count:       rows,
			order:       order,
			interleaved: true,
			block:       base,
		})
		col += int64(o.index.dataType.Size())
	}
}

// addContiguous lays out one chunk of contiguous data with avail bytes present.
// A short final chunk keeps whole values only, in object order.
func addContiguous(active []segmentObject, base, avail int64, order binary.ByteOrder) {
	off := base
	for _, o := range active {
		want := o.index.dataSize()
		if o.index.dataType == TypeString {
			if avail < want {
				return
			}
			count := int64(o.index.count)
			o.ch.addChunk(dataChunk{
				offset:  off,
				count:   count,
				strData: off + 4*count,
				strSize: want - 4*count,
				order:   order,
			})
		} else {
			size := int64(o.index.dataType.Size())
			count := int64(o.index.count)
			if avail < want {
				count = avail / size
				want = count * size
			}
			if count == 0 {
				return
			}
			o.ch.addChunk(dataChunk{
				offset: off,
				stride: size,
				count:  count,
				order:  order,
			})
			if count < int64(o.index.count) {
				return
			}
		}
		off += want
		avail -= want
	}
}
