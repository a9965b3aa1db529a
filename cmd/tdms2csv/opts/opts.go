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

package opts

import (
	"io"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Console prints the per-file summary
	Console *log.Logger
	// Out receives status and table output
	Out io.Writer
	// Progress enables live progress bars
	Progress bool
}
