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
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 📁 File is an open TDMS file. Only segment metadata is held in memory;
// channel values are read on demand through the underlying io.ReaderAt.
type File struct {
	r        io.ReaderAt
	closer   io.Closer
	size     int64
	segments int

	props  []Property
	groups []*Group
	byName map[string]*Group
}

// 🗂️ Group is a named set of channels
type Group struct {
	name     string
	props    []Property
	channels []*Channel
	byName   map[string]*Channel
}

// 🏭 Open opens a TDMS file for streamed reading
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}

	st, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, errors.Errorf("stat %s: %w", path, err)
	}

	f, err := NewFile(fh, st.Size())
	if err != nil {
		fh.Close()
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	f.closer = fh
	return f, nil
}

// 🏭 NewFile scans the segments of a TDMS stream of the given size. The
// caller keeps ownership of r unless it is closed through File.Close.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	f := &File{
		r:      r,
		size:   size,
		byName: make(map[string]*Group),
	}
	if closer, ok := r.(io.Closer); ok {
		f.closer = closer
	}

	if err := f.scan(); err != nil {
		return nil, err
	}
	return f, nil
}

// Close releases the underlying reader when it is closable
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// Segments returns the number of segments found while scanning
func (f *File) Segments() int { return f.segments }

// Properties returns the file level properties
func (f *File) Properties() []Property { return f.props }

// Property looks up a file level property
func (f *File) Property(name string) (any, bool) { return propertyValue(f.props, name) }

// Groups returns the groups in the order they first appear in the file
func (f *File) Groups() []*Group { return f.groups }

// Group looks up a group by name
func (f *File) Group(name string) (*Group, bool) {
	g, ok := f.byName[name]
	return g, ok
}

func (f *File) group(name string) *Group {
	if g, ok := f.byName[name]; ok {
		return g
	}
	g := &Group{name: name, byName: make(map[string]*Channel)}
	f.groups = append(f.groups, g)
	f.byName[name] = g
	return g
}

// readFull reads len(buf) bytes at off, tolerating io.EOF on a complete read
func (f *File) readFull(buf []byte, off int64) error {
	n, err := f.r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return errors.Errorf("reading %d bytes at offset %d: %w", len(buf), off, err)
}

// Name returns the group name
func (g *Group) Name() string { return g.name }

// Properties returns the group properties
func (g *Group) Properties() []Property { return g.props }

// Property looks up a group property
func (g *Group) Property(name string) (any, bool) { return propertyValue(g.props, name) }

// Channels returns the channels in the order they first appear in the file
func (g *Group) Channels() []*Channel { return g.channels }

// Channel looks up a channel by name
func (g *Group) Channel(name string) (*Channel, bool) {
	ch, ok := g.byName[name]
	return ch, ok
}

// Rows is the length of the longest channel, i.e. the row count of the
// group's tabular view.
func (g *Group) Rows() int64 {
	var rows int64
	for _, ch := range g.channels {
		if ch.length > rows {
			rows = ch.length
		}
	}
	return rows
}

func (g *Group) channel(f *File, name string) *Channel {
	if ch, ok := g.byName[name]; ok {
		return ch
	}
	ch := &Channel{file: f, group: g.name, name: name}
	g.channels = append(g.channels, ch)
	g.byName[name] = ch
	return ch
}
