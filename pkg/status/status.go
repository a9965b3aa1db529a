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

package status

import (
	"fmt"
)

// User facing texts shown while a conversion runs
const (
	MessageSuccess = "Conversion successful."
	MessageFailure = "Conversion failed."
)

// GroupMessage is the message box text when a group starts
func GroupMessage(group string) string {
	return fmt.Sprintf("Converting for group %s...", group)
}

// ProgressMessage is the status line text for a progress count
func ProgressMessage(count int) string {
	return fmt.Sprintf("Converting file... %d%%", count)
}

// 📊 Outcome is where a tracked conversion currently stands
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeRejected
	OutcomeRunning
	OutcomeSucceeded
	OutcomeFailed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeRunning:
		return "running"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "idle"
	}
}

// 🎛️ Tracker is the state a front end shows for one conversion: a message
// box, a status line, a 0..100 progress value and whether the convert
// trigger may be used. It is owned by the caller and updated from the
// events it receives; it is not safe for concurrent use.
type Tracker struct {
	Message        string
	StatusLine     string
	Percent        int
	TriggerEnabled bool

	Outcome Outcome
	Groups  []string
	Err     error
}

// 🏭 NewTracker creates a tracker with the trigger enabled
func NewTracker() *Tracker {
	return &Tracker{TriggerEnabled: true}
}

// 🔘 Trigger handles a press of the convert trigger. The message box and
// status line are cleared; a non-empty assessment is shown and the press is
// rejected, otherwise the trigger is disabled until a terminal event.
// Trigger reports whether the conversion should start.
func (t *Tracker) Trigger(assessment string) bool {
	if !t.TriggerEnabled {
		return false
	}

	t.Message = ""
	t.StatusLine = ""
	t.Groups = nil
	t.Err = nil

	if assessment != "" {
		t.Message = assessment
		t.Outcome = OutcomeRejected
		return false
	}

	t.TriggerEnabled = false
	t.Outcome = OutcomeRunning
	return true
}

func (t *Tracker) OnGroupStart(name string) {
	t.Groups = append(t.Groups, name)
	t.Message = GroupMessage(name)
}

func (t *Tracker) OnProgress(count int) {
	t.Percent = count
	t.StatusLine = ProgressMessage(count)
}

func (t *Tracker) OnFinished() {
	t.Message = MessageSuccess
	t.StatusLine = MessageSuccess
	t.TriggerEnabled = true
	t.Outcome = OutcomeSucceeded
}

func (t *Tracker) OnFailed(err error) {
	t.Message = MessageFailure
	t.StatusLine = MessageFailure
	t.TriggerEnabled = true
	t.Outcome = OutcomeFailed
	t.Err = err
}

// Group returns the group currently being converted, "" before the first one
func (t *Tracker) Group() string {
	if len(t.Groups) == 0 {
		return ""
	}
	return t.Groups[len(t.Groups)-1]
}
