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

package operation

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/validate"
)

// ErrBusy is returned when a conversion is requested while another one is running
var ErrBusy = errors.Base("conversion already in progress")

// 🔌 Converter produces the ordered event stream of one conversion
type Converter interface {
	Convert(ctx context.Context, source, destination string) <-chan convert.Event
}

// 🏃 Runner validates jobs and executes them one at a time. The conversion
// runs on a worker goroutine while events are handed to the caller's handler
// on the goroutine that called Run.
type Runner struct {
	conv Converter
	busy atomic.Bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(conv Converter) *Runner {
	return &Runner{conv: conv}
}

// Busy reports whether a conversion is in flight
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// 🏃 Run validates the job paths and, if both are valid, converts the source
// while dispatching every event to h in the order it was produced. Invalid
// paths return a *validate.Error without starting any work.
func (r *Runner) Run(ctx context.Context, job Job, h convert.Handler) error {
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	logger := zerolog.Ctx(ctx).With().Str("job", job.ID.String()).Logger()
	ctx = logger.WithContext(ctx)

	if res := validate.Validate(job.Source, job.Destination); !res.OK() {
		logger.Debug().Str("reason", res.Message()).Msg("rejected job")
		return res.Err()
	}

	logger.Debug().
		Str("source", job.Source).
		Str("destination", job.Destination).
		Msg("starting conversion")

	events := make(chan convert.Event)

	var g errgroup.Group
	g.Go(func() error {
		defer close(events)
		var failure error
		for ev := range r.conv.Convert(ctx, job.Source, job.Destination) {
			if ev.Kind == convert.EventFailed {
				failure = ev.Err
			}
			events <- ev
		}
		return failure
	})

	for ev := range events {
		convert.Dispatch(ev, h)
	}

	if err := g.Wait(); err != nil {
		logger.Debug().Err(err).Msg("conversion failed")
		return errors.Errorf("running job %s: %w", job.ID, err)
	}

	logger.Debug().Msg("conversion finished")
	return nil
}

// 📋 RunAll runs jobs in order and stops at the first one that fails
func (r *Runner) RunAll(ctx context.Context, jobs []Job, h convert.Handler) error {
	for i, job := range jobs {
		if err := r.Run(ctx, job, h); err != nil {
			return errors.Errorf("job %d of %d: %w", i+1, len(jobs), err)
		}
	}
	return nil
}
