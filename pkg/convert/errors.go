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
	"fmt"
)

// 🏷️ Op names the step a conversion failed in
type Op string

const (
	OpOpen   Op = "open"
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpCancel Op = "cancel"
)

// ❌ ConversionError is the single failure outcome of a conversion. Op,
// Group and Path narrow down the cause for logs; callers only need to know
// that the conversion failed.
type ConversionError struct {
	Op     Op
	Source string
	Group  string
	Path   string
	Err    error
}

func (e *ConversionError) Error() string {
	switch {
	case e.Group == "":
		return fmt.Sprintf("converting %s: %s: %v", e.Source, e.Op, e.Err)
	case e.Path == "":
		return fmt.Sprintf("converting %s: group %q: %s: %v", e.Source, e.Group, e.Op, e.Err)
	default:
		return fmt.Sprintf("converting %s: group %q: %s %s: %v", e.Source, e.Group, e.Op, e.Path, e.Err)
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
