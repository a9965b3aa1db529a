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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/convert"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	t.Setenv("TDMS2CSV_TEST_OUT", "/srv/out")

	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "jobs.yaml",
			config: `
destination: out
sources:
  - data/*.tdms
  - extra/run.tdms
timestamp_layout: "2006-01-02T15:04:05Z07:00"
batch_rows: 1024
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "out", cfg.Destination, "destination should match")
				assert.Equal(t, []string{"data/*.tdms", "extra/run.tdms"}, cfg.Sources, "sources should match")
				assert.Equal(t, "2006-01-02T15:04:05Z07:00", cfg.TimestampLayout)
				assert.Equal(t, 1024, cfg.BatchRows)
			},
		},
		{
			name:     "yaml_defaults",
			filename: "jobs.yml",
			config: `
destination: /tmp/out
sources: ["a.tdms"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, convert.DefaultBatchRows, cfg.BatchRows, "batch rows should default")
				assert.Equal(t, convert.DefaultTimestampLayout, cfg.TimestampLayout, "layout should default")
			},
		},
		{
			name:     "valid_json",
			filename: "jobs.json",
			config:   `{"destination": "out", "sources": ["**/*.tdms"], "batch_rows": 10}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"**/*.tdms"}, cfg.Sources)
				assert.Equal(t, 10, cfg.BatchRows)
			},
		},
		{
			name:     "valid_hcl_with_env",
			filename: "jobs.hcl",
			config: `
destination = env.TDMS2CSV_TEST_OUT
sources     = ["runs/*.tdms"]
batch_rows  = 512
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/out", cfg.Destination, "env should be expanded")
				assert.Equal(t, []string{"runs/*.tdms"}, cfg.Sources)
				assert.Equal(t, 512, cfg.BatchRows)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "jobs.yaml",
			config:      "destination: out\nsources: [a.tdms]\nformat: xlsx\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			filename:    "jobs.json",
			config:      `{"destination": "out", "sources": ["a.tdms"], "recursive": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "json_fractional_batch_rows",
			filename:    "jobs.json",
			config:      `{"destination": "out", "sources": ["a.tdms"], "batch_rows": 2.5}`,
			wantErr:     true,
			errContains: "batch_rows must be a whole number",
		},
		{
			name:        "json_trailing_content",
			filename:    "jobs.json",
			config:      `{"destination": "out", "sources": ["a.tdms"]} {"destination": "other"}`,
			wantErr:     true,
			errContains: "unexpected content after the job object",
		},
		{
			name:        "json_missing_destination",
			filename:    "jobs.json",
			config:      `{"sources": ["a.tdms"]}`,
			wantErr:     true,
			errContains: "destination is required",
		},
		{
			name:        "missing_destination",
			filename:    "jobs.yaml",
			config:      "sources: [a.tdms]\n",
			wantErr:     true,
			errContains: "destination is required",
		},
		{
			name:        "missing_sources",
			filename:    "jobs.yaml",
			config:      "destination: out\n",
			wantErr:     true,
			errContains: "at least one source",
		},
		{
			name:        "negative_batch_rows",
			filename:    "jobs.yaml",
			config:      "destination: out\nsources: [a.tdms]\nbatch_rows: -5\n",
			wantErr:     true,
			errContains: "batch_rows",
		},
		{
			name:        "bad_pattern",
			filename:    "jobs.yaml",
			config:      "destination: out\nsources: [\"data/[.tdms\"]\n",
			wantErr:     true,
			errContains: "not a valid pattern",
		},
		{
			name:        "hcl_missing_required",
			filename:    "jobs.hcl",
			config:      `destination = "out"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "jobs.toml",
			config:      `destination = "out"`,
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644), "writing config")

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err, "loading should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should mention the cause")
				return
			}

			require.NoError(t, err, "loading should succeed")
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"data/b.tdms",
		"data/a.tdms",
		"data/notes.txt",
		"data/nested/deep/c.tdms",
		"extra/run.tdms",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	cfgPath := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
destination: out
sources:
  - data/*.tdms
  - data/**/*.tdms
  - extra/run.tdms
`), 0644))

	cfg, err := Load(testContext(t), cfgPath)
	require.NoError(t, err)

	files, err := cfg.SourceFiles(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "data", "a.tdms"),
		filepath.Join(dir, "data", "b.tdms"),
		filepath.Join(dir, "data", "nested", "deep", "c.tdms"),
		filepath.Join(dir, "extra", "run.tdms"),
	}, files, "matches should be sorted per pattern and deduplicated")

	assert.Equal(t, filepath.Join(dir, "out"), cfg.DestinationDir(), "destination is relative to the config")

	cfg.Sources = []string{"missing/*.tdms"}
	_, err = cfg.SourceFiles(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no files")
}

func TestAbsolutePathsStay(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out")
	cfg := &Config{Destination: abs, Sources: []string{"a.tdms"}, location: "/etc/tdms2csv/jobs.yaml"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, abs, cfg.DestinationDir())
	assert.Equal(t, "/etc/tdms2csv", cfg.Dir())
	assert.Equal(t, "1 source pattern(s) -> "+abs, cfg.String())

	opts := cfg.EngineOptions()
	assert.Equal(t, convert.DefaultBatchRows, opts.BatchRows)
	assert.Equal(t, convert.DefaultTimestampLayout, opts.TimestampLayout)
}
