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

/*
Package status turns conversion events into what a user sees.

	+-----------+  events   +---------+  render   +----------+
	| operation | --------> | Tracker | --------> | Reporter |
	+-----------+           +---------+           +----------+

🎯 Purpose:
- Hold the message box, status line, progress value and trigger state
- Produce the exact texts shown for group start, progress and outcome
- Render the same state to a terminal with pterm

🔄 Flow:
1. Trigger clears the display and either shows the validation message or
   disables the trigger
2. Group start sets the message box to "Converting for group <name>..."
3. Each progress count sets the percentage and "Converting file... <n>%"
4. Finished or failed sets both texts and re-enables the trigger

🤝 Interfaces:
- Tracker and Reporter both satisfy convert.Handler
- Formatter: emoji texts for terminal and log output
*/
package status
