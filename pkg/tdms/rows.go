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

import "gitlab.com/tozd/go/errors"

// readWindow bounds the interleaved row bytes ReadRows holds at once
const readWindow = 1 << 20

// rowBlock is a run of whole interleaved rows read from one chunk
type rowBlock struct {
	block, local, n int64
	buf             []byte
}

// rowCache holds the interleaved rows of the current window so that every
// channel of a chunk decodes from a single read.
type rowCache struct {
	blocks []rowBlock
	used   int
}

func (rc *rowCache) reset() { rc.used = 0 }

func (rc *rowCache) load(f *File, c dataChunk, local, n int64) ([]byte, error) {
	for i := range rc.blocks[:rc.used] {
		b := &rc.blocks[i]
		if b.block == c.block && b.local == local && b.n == n {
			return b.buf, nil
		}
	}

	if rc.used == len(rc.blocks) {
		rc.blocks = append(rc.blocks, rowBlock{})
	}
	b := &rc.blocks[rc.used]
	size := n * c.stride
	if int64(cap(b.buf)) < size {
		b.buf = make([]byte, size)
	}
	b.buf = b.buf[:size]
	if err := f.readFull(b.buf, c.block+local*c.stride); err != nil {
		return nil, err
	}
	b.block, b.local, b.n = c.block, local, n
	rc.used++
	return b.buf, nil
}

// 📚 ReadRows decodes rows [start, start+count) of several channels into
// dst, one Values per channel, with the same clipping as Channel.Read.
// Interleaved rows are read once per window and shared by every channel
// stored in them.
func ReadRows(channels []*Channel, dst []Values, start, count int64) error {
	if len(dst) != len(channels) {
		return errors.Errorf("reading rows: %d channels but %d buffers", len(channels), len(dst))
	}
	if start < 0 || count < 0 {
		return errors.Errorf("invalid row range [%d, +%d)", start, count)
	}

	stride := int64(1)
	for i, ch := range channels {
		dst[i].Reset(ch.dataType)
		for _, c := range ch.chunks {
			if c.interleaved {
				stride = max(stride, c.stride)
			}
		}
	}
	window := max(readWindow/stride, 1)

	var rows rowCache
	for lo, end := start, start+count; lo < end; lo += window {
		n := min(window, end-lo)
		rows.reset()
		for i, ch := range channels {
			if err := ch.appendRange(&dst[i], lo, n, &rows); err != nil {
				return err
			}
		}
	}
	return nil
}
