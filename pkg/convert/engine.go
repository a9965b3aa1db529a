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
	"context"

	"github.com/rs/zerolog"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"gitlab.com/tozd/go/errors"
)

// DefaultBatchRows bounds how many rows per channel are decoded at once
const DefaultBatchRows = 65536

// OpenFunc opens a source file for streamed reading
type OpenFunc func(path string) (*tdms.File, error)

// 🔧 Options configures an Engine
type Options struct {
	// TimestampLayout is a time layout for timestamp cells
	TimestampLayout string
	// BatchRows caps the rows decoded per channel in one read
	BatchRows int
	// Open replaces tdms.Open, mainly for tests
	Open OpenFunc
}

// ⚙️ Engine converts TDMS files into one CSV file per group
type Engine struct {
	format Format
	batch  int64
	open   OpenFunc
}

// 🏭 New creates an engine, filling unset options with defaults
func New(opts Options) *Engine {
	e := &Engine{
		format: Format{TimestampLayout: opts.TimestampLayout},
		batch:  int64(opts.BatchRows),
		open:   opts.Open,
	}
	if e.format.TimestampLayout == "" {
		e.format.TimestampLayout = DefaultTimestampLayout
	}
	if e.batch <= 0 {
		e.batch = DefaultBatchRows
	}
	if e.open == nil {
		e.open = tdms.Open
	}
	return e
}

// 🚀 Convert starts the conversion on its own goroutine and returns the
// ordered event stream. The stream ends with exactly one EventFinished or
// EventFailed and is then closed; it must be drained.
func (e *Engine) Convert(ctx context.Context, source, destination string) <-chan Event {
	events := make(chan Event, SliceCount)
	go func() {
		defer close(events)
		_ = e.run(ctx, source, destination, func(ev Event) {
			events <- ev
		})
	}()
	return events
}

// 🏃 Run converts on the calling goroutine, reporting to h. The returned error
// is the one passed to h.OnFailed.
func (e *Engine) Run(ctx context.Context, source, destination string, h Handler) error {
	return e.run(ctx, source, destination, func(ev Event) {
		Dispatch(ev, h)
	})
}

func (e *Engine) run(ctx context.Context, source, destination string, emit func(Event)) error {
	if err := e.convert(ctx, source, destination, emit); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", source).Msg("conversion failed")
		emit(Event{Kind: EventFailed, Err: err})
		return err
	}
	emit(Event{Kind: EventFinished})
	return nil
}

func (e *Engine) convert(ctx context.Context, source, destination string, emit func(Event)) error {
	logger := zerolog.Ctx(ctx)

	f, err := e.open(source)
	if err != nil {
		return &ConversionError{Op: OpOpen, Source: source, Err: err}
	}
	defer f.Close()

	logger.Debug().
		Str("source", source).
		Int("groups", len(f.Groups())).
		Int("segments", f.Segments()).
		Msg("opened source")

	for _, g := range f.Groups() {
		emit(Event{Kind: EventGroupStarted, Group: g.Name()})
		if err := e.convertGroup(ctx, g, source, destination, emit); err != nil {
			return err
		}
	}
	return nil
}

// convertGroup writes one group in SliceCount slices, emitting the slice
// index after each slice is on disk.
func (e *Engine) convertGroup(ctx context.Context, g *tdms.Group, source, destination string, emit func(Event)) (err error) {
	path := OutputPath(destination, source, "csv", g.Name())
	w := newChunkWriter(path, g.Channels(), e.format, e.batch)

	defer func() {
		if cerr := w.close(); err == nil {
			err = cerr
		}
		var ce *ConversionError
		if errors.As(err, &ce) {
			ce.Source, ce.Group = source, g.Name()
			if ce.Op != OpRead && ce.Op != OpCancel {
				ce.Path = path
			}
		}
	}()

	if !validGroupName(g.Name()) {
		return &ConversionError{Op: OpWrite, Err: errors.Errorf("group name %q contains a path separator", g.Name())}
	}

	rows := g.Rows()
	for _, s := range Partition(rows, SliceCount) {
		if cerr := ctx.Err(); cerr != nil {
			return &ConversionError{Op: OpCancel, Err: cerr}
		}
		if err := w.writeSlice(s); err != nil {
			return err
		}
		emit(Event{Kind: EventProgress, Group: g.Name(), Progress: s.Index})
	}

	zerolog.Ctx(ctx).Debug().
		Str("group", g.Name()).
		Str("path", path).
		Int64("rows", rows).
		Int("channels", len(g.Channels())).
		Msg("group written")
	return nil
}
