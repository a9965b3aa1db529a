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
Package convert turns every group of a TDMS file into its own CSV file.

🎯 Purpose:
- Stream a group's channels into <dest>/<stem>_<group>.csv without loading the file
- Report ordered progress so callers can drive a status display

🔄 Flow:
1. Open the source; failures surface as a single failed event
2. Per group: emit the group name, split its rows into 101 slices
3. Write each slice (header only before the first) and emit its index
4. End with exactly one finished or failed event

📋 CSV layout:
- First column is the row index with an empty header cell
- Remaining columns follow the group's channel order
- Shorter channels leave trailing cells empty

🔍 Example:

	eng := convert.New(convert.Options{})
	for ev := range eng.Convert(ctx, "run.tdms", "out") {
		switch ev.Kind {
		case convert.EventProgress:
			fmt.Printf("%d%%\n", ev.Progress)
		case convert.EventFailed:
			return ev.Err
		}
	}
*/
package convert
