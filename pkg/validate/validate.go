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

// Package validate checks conversion paths before any work is scheduled.
package validate

import (
	"os"
	"path/filepath"
)

// SourceExtension is the only accepted source file extension (case-sensitive)
const SourceExtension = ".tdms"

const (
	MessageBothInvalid   = "Both source and destination are invalid."
	MessageSourceInvalid = "Source file is not valid."
	MessageDestInvalid   = "Destination path is not valid."
)

// ✅ Kind classifies a validation outcome
type Kind int

const (
	OK Kind = iota
	SourceInvalid
	DestInvalid
	BothInvalid
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case SourceInvalid:
		return "source_invalid"
	case DestInvalid:
		return "dest_invalid"
	case BothInvalid:
		return "both_invalid"
	default:
		return "unknown"
	}
}

// 📋 Result is the outcome of Validate
type Result struct {
	Kind        Kind
	Source      string
	Destination string
}

// Message returns the user facing text, empty when the paths are valid
func (r Result) Message() string {
	switch r.Kind {
	case BothInvalid:
		return MessageBothInvalid
	case SourceInvalid:
		return MessageSourceInvalid
	case DestInvalid:
		return MessageDestInvalid
	default:
		return ""
	}
}

// OK reports whether both paths passed
func (r Result) OK() bool { return r.Kind == OK }

// Err returns a *Error for failed results and nil otherwise
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Result: r}
}

// ❌ Error is the ValidationError surfaced to callers
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	return e.Result.Message()
}

// 🔍 Validate checks the source file and destination directory. Both rules
// are always evaluated so a double failure is reported as such.
func Validate(source, destination string) Result {
	srcOK := FileValid(source)
	dstOK := DirValid(destination)

	kind := OK
	switch {
	case !srcOK && !dstOK:
		kind = BothInvalid
	case !srcOK:
		kind = SourceInvalid
	case !dstOK:
		kind = DestInvalid
	}
	return Result{Kind: kind, Source: source, Destination: destination}
}

// AssessPaths returns the validation message for the pair, "" when valid
func AssessPaths(source, destination string) string {
	return Validate(source, destination).Message()
}

// FileValid reports whether path is an existing regular file ending in .tdms.
// A name that is only the extension, like ".tdms", has no extension.
func FileValid(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	base := filepath.Base(path)
	return filepath.Ext(base) == SourceExtension && len(base) > len(SourceExtension)
}

// DirValid reports whether path is an existing directory
func DirValid(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
