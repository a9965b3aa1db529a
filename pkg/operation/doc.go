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
Package operation runs conversion jobs for the command line and any other front end.

🎯 Purpose:
- Reject invalid source/destination pairs before any work starts
- Keep at most one conversion in flight per Runner
- Deliver conversion events to the caller without blocking it on file I/O

🔄 Flow:
1. Run claims the runner; a second Run meanwhile gets ErrBusy
2. Paths are checked with validate.Validate
3. A worker goroutine drains the converter's event stream
4. Events are dispatched to the handler on the calling goroutine, in order
5. The terminal event's error (if any) is returned

🔍 Example:

	runner := operation.NewRunner(convert.New(convert.Options{}))
	err := runner.Run(ctx, operation.NewJob("run.tdms", "out"), tracker)
*/
package operation
