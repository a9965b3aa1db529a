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

package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/log"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/operation"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/status"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/validate"
)

// convertSource runs one job through runner and prints the per-group summary
func convertSource(ctx context.Context, o *opts.RootOpts, runner *operation.Runner, job operation.Job) error {
	reporter := status.NewReporter(ctx, status.NewTracker(),
		status.WithWriter(o.Out),
		status.WithProgressBars(o.Progress),
	)

	if !reporter.Trigger(validate.AssessPaths(job.Source, job.Destination)) {
		return validate.Validate(job.Source, job.Destination).Err()
	}

	planned, err := planOutputs(job.Source, job.Destination)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", job.Source).Msg("could not list groups before converting")
	}

	o.Console.StartSourceOperation(ctx, log.SourceOperation{
		Source:      job.Source,
		Destination: job.Destination,
		Groups:      len(planned),
	})

	runErr := runner.Run(ctx, job, reporter)

	for _, out := range settleOutputs(planned, reporter.Tracker(), runErr) {
		o.Console.LogOutputFile(ctx, out)
	}
	o.Console.EndSourceOperation(ctx)

	if runErr != nil {
		return errors.Errorf("converting %s: %w", job.Source, runErr)
	}
	return nil
}

// planOutputs lists the CSV file each group will produce
func planOutputs(source, destination string) ([]log.OutputFile, error) {
	f, err := tdms.Open(source)
	if err != nil {
		return nil, errors.Errorf("opening source: %w", err)
	}
	defer f.Close()

	out := make([]log.OutputFile, 0, len(f.Groups()))
	for _, g := range f.Groups() {
		path := convert.OutputPath(destination, source, "csv", g.Name())
		_, statErr := os.Stat(path)
		out = append(out, log.OutputFile{
			Path:       path,
			Group:      g.Name(),
			Rows:       g.Rows(),
			Channels:   len(g.Channels()),
			IsNew:      statErr != nil,
			IsReplaced: statErr == nil,
		})
	}
	return out, nil
}

// settleOutputs marks planned files by how far the conversion got. Groups
// before the last started one are complete, the last one failed when the
// run failed, later ones were never touched.
func settleOutputs(planned []log.OutputFile, tr *status.Tracker, runErr error) []log.OutputFile {
	started := len(tr.Groups)
	for i := range planned {
		switch {
		case runErr == nil, i < started-1:
		case i == started-1:
			planned[i].IsFailed = true
			planned[i].Status = "FAILED"
		default:
			planned[i].IsNew, planned[i].IsReplaced = false, false
			planned[i].Status = "skipped"
		}
	}
	return planned
}
