package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toasty/internal/dbus"
)

func TestFormatStatusText(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "toastyd: not running\n", formatStatusText(statusReport{}, now))

	idle := statusReport{Running: true, Server: "toastyd", Version: "1.0.0"}
	assert.Equal(t, "toastyd 1.0.0: running, 0 shown\nlast: none\n", formatStatusText(idle, now))

	shown := idle
	shown.Count = 2
	shown.Last = &dbus.Status{Text: "Saved", Type: "success", ShownAt: now.Add(-3 * time.Minute), Count: 2}
	text := formatStatusText(shown, now)
	assert.Contains(t, text, "running, 2 shown")
	assert.Contains(t, text, `last: "Saved" (type success, 3 minutes ago)`)

	shown.Last.Type = ""
	assert.Contains(t, formatStatusText(shown, now), "type none")
}

func TestOutputStatus_Formats(t *testing.T) {
	report := statusReport{
		Running: true,
		Server:  "toastyd",
		Version: "1.0.0",
		Count:   1,
		Last:    &dbus.Status{ID: "01H", Text: "Oops", Type: "danger", Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, outputStatus(&buf, report, "json", time.Now()))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["running"])
	assert.Equal(t, "toastyd", decoded["server"])

	buf.Reset()
	require.NoError(t, outputStatus(&buf, report, "yaml", time.Now()))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "1.0.0", y["version"])

	assert.Error(t, outputStatus(&buf, report, "xml", time.Now()))
}
