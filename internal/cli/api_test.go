package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/config"
)

func baseSettings() config.Settings {
	return config.Settings{
		AppName:     "Essence",
		AppVersion:  "1.0.0",
		CORSOrigins: []string{"http://localhost:3000"},
		Host:        "0.0.0.0",
		Port:        8000,
		LogLevel:    "INFO",
	}
}

// setServeFlags sets the serve flag values for one test
func setServeFlags(t *testing.T, port int, host, origins string) {
	t.Helper()
	oldPort, oldHost, oldOrigins := servePort, serveHost, serveOrigins
	t.Cleanup(func() {
		servePort, serveHost, serveOrigins = oldPort, oldHost, oldOrigins
	})
	servePort, serveHost, serveOrigins = port, host, origins
}

func TestServeSettingsKeepsLoadedValues(t *testing.T) {
	setServeFlags(t, 0, "", "")

	got, err := serveSettings(baseSettings())
	require.NoError(t, err)
	assert.Equal(t, baseSettings(), got)
}

func TestServeSettingsAppliesFlags(t *testing.T) {
	setServeFlags(t, 9090, "127.0.0.1", "http://a.example, http://b.example ,")

	got, err := serveSettings(baseSettings())
	require.NoError(t, err)
	assert.Equal(t, 9090, got.Port)
	assert.Equal(t, "127.0.0.1", got.Host)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, got.CORSOrigins)
}

func TestServeSettingsRejectsBadPort(t *testing.T) {
	setServeFlags(t, 70000, "", "")

	_, err := serveSettings(baseSettings())
	assert.Error(t, err)
}
