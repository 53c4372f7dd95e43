package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[3], test.ShouldEqual, expectedParts[3])
	if len(actualParts) == 4 {
		return
	}

	// JSON encoding of maps can be unpredictable because map iteration order can change between
	// runs. Parse the output into maps and assert on map equality.
	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[4]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[4]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := newImpl("", DEBUG, true, NewWriterAppender(notStdout))

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	logging/impl_test.go:67	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764Z	INFO	logging/impl_test.go:71	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806Z	INFO	logging/impl_test.go:75	impl logw	{"key":"value"}`)

	logger.Warnw("BasicStruct", "goals", 3, "BasicStruct", BasicStruct{X: 1, y: "alice"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	WARN	logging/impl_test.go:79	BasicStruct	{"BasicStruct":{"X":1},"goals":3}`)

	logger.Errorw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	ERROR	logging/impl_test.go:83	unpaired	{"lonely":"unpaired log key"}`)
}

func TestLevelFiltering(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := newImpl("", WARN, true, NewWriterAppender(notStdout))

	logger.Debug("dropped")
	logger.Info("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.Warn("kept")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	WARN	logging/impl_test.go:97	kept`)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debugf("now %d", 1)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	DEBUG	logging/impl_test.go:103	now 1`)
}

func TestContextDebugMode(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := newImpl("", INFO, true, NewWriterAppender(notStdout))

	logger.CDebug(context.Background(), "dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	ctx := EnableDebugMode(context.Background(), "")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, len(DebugKey(ctx)), test.ShouldEqual, 6)
	test.That(t, DebugKey(EnableDebugMode(context.Background(), "plan-7")), test.ShouldEqual, "plan-7")

	logger.CDebugw(ctx, "traced", "cells", 10)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	DEBUG	logging/impl_test.go:121	traced	{"cells":10}`)

	// only debug statements are lifted
	logger.SetLevel(ERROR)
	logger.Warn("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
}

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	planner := logger.Sublogger("planner")
	planner.Info("hello")
	search := planner.Sublogger("search")
	search.Infow("expanded", "nodes", 4)

	entries := observed.All()
	test.That(t, len(entries), test.ShouldEqual, 2)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "planner")
	test.That(t, entries[0].Message, test.ShouldEqual, "hello")
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "planner.search")
	test.That(t, entries[1].ContextMap()["nodes"], test.ShouldEqual, int64(4))

	t.Run("level is shared", func(t *testing.T) {
		logger.SetLevel(WARN)
		defer logger.SetLevel(DEBUG)
		test.That(t, search.GetLevel(), test.ShouldEqual, WARN)
		search.Info("dropped")
		test.That(t, observed.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	})

	t.Run("appenders added later are shared", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.AddAppender(NewWriterAppender(buf))
		search.Warn("replanning")
		test.That(t, buf.String(), test.ShouldContainSubstring, "\tplanner.search\t")
		test.That(t, buf.String(), test.ShouldContainSubstring, "replanning")
	})
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"warn", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
	}
	level, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, level, test.ShouldEqual, INFO)

	test.That(t, WARN.String(), test.ShouldEqual, "warn")
	test.That(t, Level(7).String(), test.ShouldEqual, "Level(7)")
}

func TestFileAppender(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "planner.log")
	logger := newImpl("regionplanner", INFO, true)
	astar := logger.Sublogger("astar")
	closeFile := AddFileAppender(logger, FileConfig{Path: filename, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})

	astar.Infow("plan found", "poses", 12)
	astar.Debug("dropped")
	test.That(t, closeFile(), test.ShouldBeNil)

	contents, err := os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "plan found")
	test.That(t, string(contents), test.ShouldContainSubstring, `{"poses":12}`)
	test.That(t, string(contents), test.ShouldContainSubstring, "\tregionplanner.astar\t")
	test.That(t, string(contents), test.ShouldNotContainSubstring, "dropped")
}
