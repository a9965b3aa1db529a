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

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	source := filepath.Join(dir, "run.tdms")
	require.NoError(t, os.WriteFile(source, []byte("TDSm"), 0644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("hi"), 0644))
	upper := filepath.Join(dir, "RUN.TDMS")
	require.NoError(t, os.WriteFile(upper, []byte("TDSm"), 0644))
	dirWithExt := filepath.Join(dir, "folder.tdms")
	require.NoError(t, os.Mkdir(dirWithExt, 0755))
	missingDir := filepath.Join(dir, "does", "not", "exist")
	bare := filepath.Join(dir, ".tdms")
	require.NoError(t, os.WriteFile(bare, []byte("TDSm"), 0644))
	hidden := filepath.Join(dir, ".run.tdms")
	require.NoError(t, os.WriteFile(hidden, []byte("TDSm"), 0644))

	tests := []struct {
		name        string
		source      string
		destination string
		want        Kind
		message     string
	}{
		{name: "valid", source: source, destination: dir, want: OK, message: ""},
		{name: "wrong_extension", source: text, destination: dir, want: SourceInvalid, message: "Source file is not valid."},
		{name: "uppercase_extension", source: upper, destination: dir, want: SourceInvalid, message: "Source file is not valid."},
		{name: "source_missing", source: filepath.Join(dir, "gone.tdms"), destination: dir, want: SourceInvalid, message: "Source file is not valid."},
		{name: "extension_only_name", source: bare, destination: dir, want: SourceInvalid, message: "Source file is not valid."},
		{name: "hidden_with_stem", source: hidden, destination: dir, want: OK, message: ""},
		{name: "source_is_directory", source: dirWithExt, destination: dir, want: SourceInvalid, message: "Source file is not valid."},
		{name: "destination_missing", source: source, destination: missingDir, want: DestInvalid, message: "Destination path is not valid."},
		{name: "destination_is_file", source: source, destination: source, want: DestInvalid, message: "Destination path is not valid."},
		{name: "both_invalid", source: text, destination: missingDir, want: BothInvalid, message: "Both source and destination are invalid."},
		{name: "both_empty", source: "", destination: "", want: BothInvalid, message: "Both source and destination are invalid."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.source, tt.destination)
			assert.Equal(t, tt.want, res.Kind, "kind should match")
			assert.Equal(t, tt.message, res.Message(), "message should match")
			assert.Equal(t, tt.message, AssessPaths(tt.source, tt.destination), "assess message should match")

			if tt.want == OK {
				assert.True(t, res.OK())
				assert.NoError(t, res.Err())
				return
			}

			err := res.Err()
			require.Error(t, err)
			var verr *Error
			require.True(t, errors.As(err, &verr), "should be a validation error")
			assert.Equal(t, tt.want, verr.Result.Kind)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateHasNoSideEffects(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "out")

	_ = Validate(filepath.Join(dir, "run.tdms"), missing)

	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "destination must not be created")
}
