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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config describes a batch of conversions
type Config struct {
	// Destination is the directory every CSV file is written to
	Destination string `json:"destination" yaml:"destination" hcl:"destination"`
	// Sources are .tdms paths or doublestar patterns such as data/**/*.tdms
	Sources []string `json:"sources" yaml:"sources" hcl:"sources"`
	// TimestampLayout is a Go time layout for timestamp cells
	TimestampLayout string `json:"timestamp_layout,omitempty" yaml:"timestamp_layout,omitempty" hcl:"timestamp_layout,optional"`
	// BatchRows caps how many rows per channel are decoded at once
	BatchRows int `json:"batch_rows,omitempty" yaml:"batch_rows,omitempty" hcl:"batch_rows,optional"`

	location string
}

// 🎯 Load loads the configuration from a file. Relative paths inside it are
// resolved against the file's directory.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks required fields and fills in defaults
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Destination == "" {
		return errors.Errorf("destination is required")
	}
	if len(cfg.Sources) == 0 {
		return errors.Errorf("at least one source is required")
	}
	for i, src := range cfg.Sources {
		if src == "" {
			return errors.Errorf("sources[%d] is empty", i)
		}
		if !doublestar.ValidatePathPattern(src) {
			return errors.Errorf("sources[%d] is not a valid pattern: %q", i, src)
		}
	}
	if cfg.BatchRows < 0 {
		return errors.Errorf("batch_rows must not be negative, got %d", cfg.BatchRows)
	}

	// Set defaults
	if cfg.BatchRows == 0 {
		cfg.BatchRows = convert.DefaultBatchRows
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = convert.DefaultTimestampLayout
	}

	return nil
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// Dir returns the directory relative paths are resolved against
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// DestinationDir returns the destination resolved against Dir
func (cfg *Config) DestinationDir() string {
	return cfg.resolve(cfg.Destination)
}

func (cfg *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cfg.Dir(), path)
}

// 📂 SourceFiles expands every source pattern into file paths. Matches of one
// pattern are sorted; a path matched twice is listed once. A pattern that
// matches nothing is an error.
func (cfg *Config) SourceFiles(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool)
	var files []string
	for _, src := range cfg.Sources {
		pattern := cfg.resolve(src)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", src, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("source %q matched no files", src)
		}
		sort.Strings(matches)

		logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded source")

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}

// EngineOptions maps the config onto conversion options
func (cfg *Config) EngineOptions() convert.Options {
	return convert.Options{
		TimestampLayout: cfg.TimestampLayout,
		BatchRows:       cfg.BatchRows,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d source pattern(s) -> %s", len(cfg.Sources), cfg.Destination)
}
