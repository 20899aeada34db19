package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithHandler_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	l := NewWithHandler(&buf, "json", "warn").With("component", "booking")
	l.LogInfo("dropped %d", 1)
	l.LogWarn("kept %s", "warning")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "kept warning", record["msg"])
	assert.Equal(t, "booking", record["component"])
}

func TestNewWithHandler_TextByDefault(t *testing.T) {
	var buf bytes.Buffer

	NewWithHandler(&buf, "", "").LogErrorf("failed: %v", "boom")

	assert.Contains(t, buf.String(), `level=ERROR msg="failed: boom"`)
}
