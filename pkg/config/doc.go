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

// Package config loads batch conversion settings from YAML, JSON or HCL.
//
// 	+-----------+  parse    +---------+  expand   +--------------+
// 	| jobs.yaml | --------> | Config  | --------> | source files |
// 	+-----------+           +---------+           +--------------+
//
// 🎯 Purpose:
// - Pick a parser from the file extension and reject unknown fields
// - Validate required fields and fill in defaults
// - Expand doublestar source patterns relative to the config file
//
// 🔄 Flow:
// 1. Load reads the file and finds a registered Parser
// 2. The parser decodes into Config (HCL sees env.NAME variables)
// 3. Validate checks destination, sources and batch_rows
// 4. SourceFiles and DestinationDir resolve paths for the runner
//
// 🔍 Example:
//
// 	destination: out
// 	sources:
// 	  - runs/**/*.tdms
// 	timestamp_layout: "2006-01-02 15:04:05.000000"
// 	batch_rows: 65536
package config
