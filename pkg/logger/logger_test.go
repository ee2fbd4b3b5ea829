package logger

import (
	"bytes"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestZeroLogger_ErrorfAddsErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel)

	log.Errorf(errors.New("boom"), "query %s failed", "similar")

	entry := decode(t, &buf)
	assert.Equal(t, "query similar failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestZeroLogger_ErrorfWithoutError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, zerolog.InfoLevel).Errorf(nil, "no cause")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "error")
}

func TestZeroLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel).With("component", "search", "attempt", 2)

	log.Infof("ready")

	entry := decode(t, &buf)
	assert.Equal(t, "search", entry["component"])
	assert.EqualValues(t, 2, entry["attempt"])
}

func TestZeroLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Debugf("hidden")
	log.Infof("hidden")
	assert.Zero(t, buf.Len())

	log.Warnf("shown")
	assert.Equal(t, "warn", decode(t, &buf)["level"])
}

func TestNewDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		NewDiscard().With("k", "v").Errorf(errors.New("x"), "nothing")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}
