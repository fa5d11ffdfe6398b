package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warn":    WARNING,
		"Warning": WARNING,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: WARNING, Output: &buf})

	log.Info("hidden %d", 1)
	log.Warning("shown %d", 2)
	log.Error("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "WARN")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: DEBUG, Output: &buf, JSON: true}).Named("db")

	log.Debug("pool opened")

	assert.Contains(t, buf.String(), `"msg":"pool opened"`)
	assert.Contains(t, buf.String(), `"logger":"db"`)
	assert.True(t, log.IsDebugEnabled())
}
