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
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms"
	"github.com/ohmycaptainnemo/tdms-converter/pkg/tdms/tdmstest"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) OnGroupStart(name string) { m.Called(name) }
func (m *mockHandler) OnProgress(count int)     { m.Called(count) }
func (m *mockHandler) OnFinished()              { m.Called() }
func (m *mockHandler) OnFailed(err error)       { m.Called(err) }

// failingReader serves data until armed, then fails every read at or past from
type failingReader struct {
	data  []byte
	from  int64
	armed bool
}

func (r *failingReader) ReadAt(p []byte, off int64) (int, error) {
	if r.armed && off+int64(len(p)) > r.from {
		return 0, errors.New("device unplugged")
	}
	return bytes.NewReader(r.data).ReadAt(p, off)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func collect(ch <-chan Event) []Event {
	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "opening output %s", path)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err, "parsing output %s", path)
	return records
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return bytes.Count(data, []byte("\n"))
}

func progressOf(events []Event) []int {
	var out []int
	for _, ev := range events {
		if ev.Kind == EventProgress {
			out = append(out, ev.Progress)
		}
	}
	return out
}

func fullProgress() []int {
	out := make([]int, SliceCount)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestConvertSingleGroup(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Group("Group1"),
		tdmstest.Channel("Group1", "Voltage", tdmstest.Sequence(0, 250)),
		tdmstest.Channel("Group1", "Current", tdmstest.Sequence(1000, 250)),
	}}).WriteFile(t, filepath.Join(dir, "run.tdms"))

	events := collect(New(Options{}).Convert(testContext(t), src, dir))

	require.Len(t, events, 1+SliceCount+1)
	assert.Equal(t, Event{Kind: EventGroupStarted, Group: "Group1"}, events[0])
	assert.Equal(t, fullProgress(), progressOf(events), "progress must count 0..100 in order")
	last := events[len(events)-1]
	assert.Equal(t, EventFinished, last.Kind)
	assert.True(t, last.Terminal())

	out := filepath.Join(dir, "run_Group1.csv")
	assert.Equal(t, 251, countLines(t, out), "header plus one line per row")

	records := readCSV(t, out)
	assert.Equal(t, []string{"", "Voltage", "Current"}, records[0])
	assert.Equal(t, []string{"0", "0.0", "1000.0"}, records[1])
	assert.Equal(t, []string{"249", "249.0", "1249.0"}, records[250])
	for i, rec := range records[1:] {
		assert.Equal(t, strconv.Itoa(i), rec[0], "row index must be contiguous")
		assert.NotEqual(t, "Voltage", rec[1], "header must appear once")
	}
}

func TestConvertMultipleGroups(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("A", "x", []int32{1, 2, 3}),
		tdmstest.Channel("B", "flag", []bool{true, false}),
		tdmstest.Channel("B", "label", []string{"one", "two, quoted"}),
		tdmstest.Group("Empty"),
	}}).WriteFile(t, filepath.Join(dir, "multi.tdms"))

	events := collect(New(Options{}).Convert(testContext(t), src, dir))

	var started []string
	for _, ev := range events {
		if ev.Kind == EventGroupStarted {
			started = append(started, ev.Group)
		}
	}
	assert.Equal(t, []string{"A", "B", "Empty"}, started)
	assert.Len(t, progressOf(events), 3*SliceCount)
	assert.Equal(t, EventFinished, events[len(events)-1].Kind)

	assert.Equal(t, [][]string{
		{"", "x"},
		{"0", "1"},
		{"1", "2"},
		{"2", "3"},
	}, readCSV(t, filepath.Join(dir, "multi_A.csv")))

	assert.Equal(t, [][]string{
		{"", "flag", "label"},
		{"0", "True", "one"},
		{"1", "False", "two, quoted"},
	}, readCSV(t, filepath.Join(dir, "multi_B.csv")))

	assert.Equal(t, 1, countLines(t, filepath.Join(dir, "multi_Empty.csv")), "empty group gets a header only")
}

func TestConvertUnevenChannels(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("G", "long", []float64{1, 2, 3}),
		tdmstest.Channel("G", "short", []float64{9}),
	}}).WriteFile(t, filepath.Join(dir, "u.tdms"))

	require.NoError(t, New(Options{}).Run(testContext(t), src, dir, HandlerFuncs{}))

	assert.Equal(t, [][]string{
		{"", "long", "short"},
		{"0", "1.0", "9.0"},
		{"1", "2.0", ""},
		{"2", "3.0", ""},
	}, readCSV(t, filepath.Join(dir, "u_G.csv")))
}

func TestConvertSmallBatches(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{
		Chunks: 4,
		Objects: []tdmstest.Object{
			tdmstest.Channel("G", "v", tdmstest.Sequence(0, 100)),
		},
	}).WriteFile(t, filepath.Join(dir, "s.tdms"))

	require.NoError(t, New(Options{BatchRows: 1}).Run(testContext(t), src, dir, HandlerFuncs{}))

	records := readCSV(t, filepath.Join(dir, "s_G.csv"))
	require.Len(t, records, 401)
	assert.Equal(t, []string{"100", "0.0"}, records[101], "second chunk restarts the sequence")
	assert.Equal(t, []string{"399", "99.0"}, records[400])
}

func TestConvertIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("G", "v", tdmstest.Sequence(0.5, 500)),
	}}).WriteFile(t, filepath.Join(dir, "again.tdms"))
	out := filepath.Join(dir, "again_G.csv")
	eng := New(Options{})

	require.NoError(t, eng.Run(testContext(t), src, dir, HandlerFuncs{}))
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	require.NoError(t, eng.Run(testContext(t), src, dir, HandlerFuncs{}))
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, first, second, "second run must overwrite, not append")
}

func TestConvertOverwritesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("G", "v", []int8{1}),
	}}).WriteFile(t, filepath.Join(dir, "stale.tdms"))
	out := filepath.Join(dir, "stale_G.csv")
	require.NoError(t, os.WriteFile(out, []byte(strings.Repeat("junk\n", 50)), 0644))

	require.NoError(t, New(Options{}).Run(testContext(t), src, dir, HandlerFuncs{}))

	assert.Equal(t, [][]string{{"", "v"}, {"0", "1"}}, readCSV(t, out))
}

func TestConvertOpenFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tdms")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not tdms"), 0644))

	events := collect(New(Options{}).Convert(testContext(t), bad, dir))

	require.Len(t, events, 1, "only a single failed event is expected")
	assert.Equal(t, EventFailed, events[0].Kind)

	var ce *ConversionError
	require.True(t, errors.As(events[0].Err, &ce))
	assert.Equal(t, OpOpen, ce.Op)
	assert.Equal(t, bad, ce.Source)
	assert.ErrorIs(t, events[0].Err, tdms.ErrMalformed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no output may be created")
}

func TestConvertFailsMidway(t *testing.T) {
	dir := t.TempDir()
	first := tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("Group1", "a", tdmstest.Sequence(0, 20)),
	}}
	second := tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("Group2", "b", tdmstest.Sequence(0, 20)),
	}}
	from := int64(len(tdmstest.New().Segment(first).Bytes()))
	data := tdmstest.New().Segment(first).Segment(second).Bytes()

	eng := New(Options{Open: func(string) (*tdms.File, error) {
		r := &failingReader{data: data, from: from}
		f, err := tdms.NewFile(r, int64(len(data)))
		r.armed = true
		return f, err
	}})

	h := &mockHandler{}
	h.On("OnGroupStart", "Group1").Return().Once()
	h.On("OnGroupStart", "Group2").Return().Once()
	h.On("OnProgress", mock.AnythingOfType("int")).Return().Times(SliceCount)
	h.On("OnFailed", mock.MatchedBy(func(err error) bool {
		var ce *ConversionError
		return errors.As(err, &ce) && ce.Op == OpRead && ce.Group == "Group2"
	})).Return().Once()

	err := eng.Run(testContext(t), "/data/mid.tdms", dir, h)
	require.Error(t, err)
	h.AssertExpectations(t)
	h.AssertNotCalled(t, "OnFinished")

	assert.Equal(t, 21, countLines(t, filepath.Join(dir, "mid_Group1.csv")), "first group must be complete")
	assert.NoFileExists(t, filepath.Join(dir, "mid_Group2.csv"))
}

func TestConvertRejectsGroupNameWithSeparator(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(dest, 0755))

	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("x/../../escaped", "v", tdmstest.Sequence(0, 5)),
		tdmstest.Channel("Safe", "v", tdmstest.Sequence(0, 5)),
	}}).WriteFile(t, filepath.Join(root, "run.tdms"))

	events := collect(New(Options{}).Convert(testContext(t), src, dest))

	require.Len(t, events, 2)
	assert.Equal(t, EventGroupStarted, events[0].Kind)
	assert.Equal(t, "x/../../escaped", events[0].Group)
	assert.Equal(t, EventFailed, events[1].Kind)

	var ce *ConversionError
	require.True(t, errors.As(events[1].Err, &ce))
	assert.Equal(t, OpWrite, ce.Op)
	assert.Equal(t, "x/../../escaped", ce.Group)

	assert.NoFileExists(t, filepath.Join(root, "escaped.csv"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped.csv"))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written for later groups either")
}

func TestConvertCancelled(t *testing.T) {
	dir := t.TempDir()
	src := tdmstest.New().Segment(tdmstest.Segment{Objects: []tdmstest.Object{
		tdmstest.Channel("G", "v", tdmstest.Sequence(0, 10)),
	}}).WriteFile(t, filepath.Join(dir, "c.tdms"))

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	events := collect(New(Options{}).Convert(ctx, src, dir))

	require.Len(t, events, 2)
	assert.Equal(t, EventGroupStarted, events[0].Kind)
	assert.Equal(t, EventFailed, events[1].Kind)
	assert.ErrorIs(t, events[1].Err, context.Canceled)

	var ce *ConversionError
	require.True(t, errors.As(events[1].Err, &ce))
	assert.Equal(t, OpCancel, ce.Op)
	assert.Equal(t, "G", ce.Group)
}

func TestDispatch(t *testing.T) {
	h := &mockHandler{}
	boom := errors.New("boom")
	h.On("OnGroupStart", "G").Return().Once()
	h.On("OnProgress", 42).Return().Once()
	h.On("OnFinished").Return().Once()
	h.On("OnFailed", boom).Return().Once()

	for _, ev := range []Event{
		{Kind: EventGroupStarted, Group: "G"},
		{Kind: EventProgress, Progress: 42},
		{Kind: EventFinished},
		{Kind: EventFailed, Err: boom},
	} {
		Dispatch(ev, h)
	}
	h.AssertExpectations(t)

	// nil callbacks are skipped
	Dispatch(Event{Kind: EventFinished}, HandlerFuncs{})
}
