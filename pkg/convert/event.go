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

// 📣 EventKind identifies the entries of a conversion event stream
type EventKind int

const (
	EventGroupStarted EventKind = iota
	EventProgress
	EventFinished
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventGroupStarted:
		return "group_started"
	case EventProgress:
		return "progress"
	case EventFinished:
		return "finished"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📨 Event is one entry of the ordered stream produced by a conversion.
// Group is set for EventGroupStarted, Progress for EventProgress and Err for
// EventFailed.
type Event struct {
	Kind     EventKind
	Group    string
	Progress int
	Err      error
}

// Terminal reports whether the event ends the stream
func (e Event) Terminal() bool {
	return e.Kind == EventFinished || e.Kind == EventFailed
}

// 🎧 Handler receives conversion events on the caller's goroutine
type Handler interface {
	OnGroupStart(name string)
	OnProgress(count int)
	OnFinished()
	OnFailed(err error)
}

// HandlerFuncs adapts plain functions to Handler; nil fields are skipped
type HandlerFuncs struct {
	GroupStart func(name string)
	Progress   func(count int)
	Finished   func()
	Failed     func(err error)
}

func (h HandlerFuncs) OnGroupStart(name string) {
	if h.GroupStart != nil {
		h.GroupStart(name)
	}
}

func (h HandlerFuncs) OnProgress(count int) {
	if h.Progress != nil {
		h.Progress(count)
	}
}

func (h HandlerFuncs) OnFinished() {
	if h.Finished != nil {
		h.Finished()
	}
}

func (h HandlerFuncs) OnFailed(err error) {
	if h.Failed != nil {
		h.Failed(err)
	}
}

// Dispatch forwards a single event to the matching handler method
func Dispatch(ev Event, h Handler) {
	switch ev.Kind {
	case EventGroupStarted:
		h.OnGroupStart(ev.Group)
	case EventProgress:
		h.OnProgress(ev.Progress)
	case EventFinished:
		h.OnFinished()
	case EventFailed:
		h.OnFailed(ev.Err)
	}
}
