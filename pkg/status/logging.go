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

package status

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
)

// 📢 Reporter keeps a Tracker current and renders every change to a
// terminal, with one progress bar per group when bars are enabled.
type Reporter struct {
	tracker   *Tracker
	formatter Formatter
	out       io.Writer
	bars      bool
	bar       *pterm.ProgressbarPrinter
	log       zerolog.Logger
}

// ReporterOption configures a Reporter
type ReporterOption func(*Reporter)

// WithWriter sends terminal output to w instead of stdout
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) { r.out = w }
}

// WithFormatter replaces the default emoji formatter
func WithFormatter(f Formatter) ReporterOption {
	return func(r *Reporter) { r.formatter = f }
}

// WithProgressBars toggles the live per-group progress bar
func WithProgressBars(enabled bool) ReporterOption {
	return func(r *Reporter) { r.bars = enabled }
}

// 🎯 NewReporter creates a reporter around tracker
func NewReporter(ctx context.Context, tracker *Tracker, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		tracker:   tracker,
		formatter: NewDefaultFormatter(),
		out:       os.Stdout,
		bars:      true,
		log:       *zerolog.Ctx(ctx),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracker returns the tracker the reporter updates
func (r *Reporter) Tracker() *Tracker {
	return r.tracker
}

// 🔘 Trigger forwards to Tracker.Trigger and prints a rejected assessment
func (r *Reporter) Trigger(assessment string) bool {
	ok := r.tracker.Trigger(assessment)
	if !ok && r.tracker.Outcome == OutcomeRejected {
		r.printer(pterm.Warning, "⚠️").Println(r.tracker.Message)
		r.log.Warn().Msg(r.tracker.Message)
	}
	return ok
}

func (r *Reporter) OnGroupStart(name string) {
	r.stopBar()
	r.tracker.OnGroupStart(name)

	r.printer(pterm.Info, "📂").Println(r.tracker.Message)
	r.log.Debug().Str("group", name).Msg(r.tracker.Message)

	if r.bars {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(convert.SliceCount).
			WithTitle(name).
			WithWriter(r.out).
			Start()
		if err != nil {
			r.log.Debug().Err(err).Msg("starting progress bar")
			return
		}
		r.bar = bar
	}
}

func (r *Reporter) OnProgress(count int) {
	r.tracker.OnProgress(count)
	if r.bar != nil {
		r.bar.Increment()
	}
	r.log.Trace().Int("percent", count).Msg(r.formatter.FormatProgress(count, 100))
}

func (r *Reporter) OnFinished() {
	r.stopBar()
	r.tracker.OnFinished()
	r.printer(pterm.Success, "✅").Println(r.tracker.Message)
	r.log.Info().Strs("groups", r.tracker.Groups).Msg(r.formatter.FormatResult(true))
}

func (r *Reporter) OnFailed(err error) {
	r.stopBar()
	r.tracker.OnFailed(err)
	r.printer(pterm.Error, "❌").Println(r.tracker.Message)
	if err != nil {
		pterm.Error.WithWriter(r.out).Println(err)
	}
	r.log.Error().Err(err).Msg(r.formatter.FormatResult(false))
}

func (r *Reporter) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(r.out)
}

func (r *Reporter) stopBar() {
	if r.bar == nil {
		return
	}
	if _, err := r.bar.Stop(); err != nil {
		r.log.Debug().Err(err).Msg("stopping progress bar")
	}
	r.bar = nil
}
