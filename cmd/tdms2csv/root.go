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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ohmycaptainnemo/tdms-converter/cmd/tdms2csv/opts"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/log"
)

var (
	// Flags
	debug      bool
	noProgress bool
)

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(out io.Writer) *opts.RootOpts {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return &opts.RootOpts{
		Console:  log.New(out, level),
		Out:      out,
		Progress: !noProgress,
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable live progress bars")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// withLogger attaches the default context logger so zerolog.Ctx finds it
func withLogger(ctx context.Context) context.Context {
	if zerolog.DefaultContextLogger == nil {
		return ctx
	}
	return zerolog.DefaultContextLogger.WithContext(ctx)
}
