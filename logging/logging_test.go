package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestErrorIncludesErrorField(t *testing.T) {
	buf := captureLog(t)
	Error("record failed", errors.New("disk full"), Fields{"entity": 3})

	var got map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "error", got["level"])
	assert.Equal(t, "record failed", got["msg"])
	assert.Equal(t, "disk full", got["error"])
	assert.Equal(t, float64(3), got["entity"])
}

func TestFieldsAreNotModified(t *testing.T) {
	buf := captureLog(t)
	fields := Fields{"entity": 3}
	Error("record failed", errors.New("disk full"), fields)
	Info("recorded", fields)

	assert.Equal(t, Fields{"entity": 3}, fields)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, "info", got["level"])
	assert.NotContains(t, got, "error")
}

func TestDebugIsGated(t *testing.T) {
	buf := captureLog(t)
	SetDebug(false)
	Debug("hidden", nil)
	assert.Empty(t, buf.String())

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	Debug("shown", nil)
	assert.True(t, strings.Contains(buf.String(), `"shown"`))
}
