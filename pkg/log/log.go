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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	groupWidth  = 15 // Width for group name
	statusWidth = 15 // Width for status text
)

// 🎯 OutputFile is one CSV file produced for a group
type OutputFile struct {
	Path       string // CSV path
	Group      string // Source group name
	Status     string // Operation status
	Rows       int64  // Data rows written
	Channels   int    // Columns after the index
	IsNew      bool   // Whether the file did not exist before
	IsReplaced bool   // Whether an older file was overwritten
	IsFailed   bool   // Whether the group did not complete
}

// 📦 SourceOperation represents the conversion of one source file
type SourceOperation struct {
	Source      string // TDMS file
	Destination string // Output directory
	Groups      int    // Number of groups in the source
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *SourceOperation
	outputs   []OutputFile
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatOutputFile formats an output file for display
func (l *Logger) formatOutputFile(out OutputFile) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case out.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case out.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case out.IsReplaced:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	status := out.Status
	if status == "" {
		status = fmt.Sprintf("%d rows", out.Rows)
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(out.Path)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", groupWidth, out.Group)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogOutputFile logs a produced CSV file
func (l *Logger) LogOutputFile(ctx context.Context, out OutputFile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to outputs list
	l.outputs = append(l.outputs, out)

	// Format and print
	fmt.Fprintln(l.console, l.formatOutputFile(out))

	// Log to zerolog
	l.zlog.Info().
		Str("file", out.Path).
		Str("group", out.Group).
		Str("status", out.Status).
		Int64("rows", out.Rows).
		Int("channels", out.Channels).
		Bool("is_new", out.IsNew).
		Bool("is_replaced", out.IsReplaced).
		Bool("is_failed", out.IsFailed).
		Msg("output file")
}

// 📝 StartSourceOperation starts a new source operation
func (l *Logger) StartSourceOperation(ctx context.Context, op SourceOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.outputs = nil

	// Print source header
	fmt.Fprintf(l.console, "[converting into %s]\n",
		color.New(color.FgCyan).Sprint(op.Destination))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(filepath.Base(op.Source)),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d group(s)", op.Groups))

	// Log to zerolog
	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Int("groups", op.Groups).
		Msg("starting source operation")
}

// 📝 EndSourceOperation ends the current source operation and returns the
// files logged since it started
func (l *Logger) EndSourceOperation(ctx context.Context) []OutputFile {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	var rows int64
	for _, out := range l.outputs {
		rows += out.Rows
	}

	// Log summary
	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Int("files", len(l.outputs)).
		Int64("rows", rows).
		Msg("source operation complete")

	outputs := l.outputs
	l.currentOp = nil
	l.outputs = nil
	return outputs
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("tdms2csv")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
