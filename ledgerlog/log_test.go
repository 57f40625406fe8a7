package ledgerlog_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgerlog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestInitUnrecognizedLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	ledgerlog.Init(ledgerlog.Config{Level: ledgerlog.Level("not-a-level"), JSONOutput: true, Output: &buf})

	ledgerlog.Debug("should be suppressed")
	ledgerlog.Info("should appear")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "should appear", lines[0]["message"])
}

func TestInitDebugLevelEmitsDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	ledgerlog.Init(ledgerlog.Config{Level: ledgerlog.DebugLevel, JSONOutput: true, Output: &buf})

	ledgerlog.Debug("visible now")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "debug", lines[0]["level"])
}

func TestStoreErrorRoutesSeverityByKind(t *testing.T) {
	var buf bytes.Buffer
	ledgerlog.Init(ledgerlog.Config{Level: ledgerlog.DebugLevel, JSONOutput: true, Output: &buf})

	cases := []struct {
		name  string
		err   error
		level string
	}{
		{"not found is routine", ledgererr.New(ledgererr.NotFound, "txstore", "no such tx"), "debug"},
		{"malformed input is a warning", ledgererr.New(ledgererr.MalformedInput, "txstore", "bad tx"), "warn"},
		{"wrong kind is a warning", ledgererr.New(ledgererr.WrongKind, "txstore", "wrong dispatch"), "warn"},
		{"corrupt is an error", ledgererr.New(ledgererr.Corrupt, "txstore", "broken link"), "error"},
		{"backend io is an error", ledgererr.New(ledgererr.BackendIO, "txstore", "disk fault"), "error"},
		{"unclassified error is an error", assert.AnError, "error"},
	}

	for _, tc := range cases {
		buf.Reset()
		ledgerlog.StoreError(ledgerlog.WithSchema("txstore"), "operation failed", tc.err)

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1, tc.name)
		assert.Equal(t, tc.level, lines[0]["level"], tc.name)
		assert.Equal(t, "txstore", lines[0]["schema"], tc.name)
	}
}
