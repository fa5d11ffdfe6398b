package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/config"
)

func TestWizardAskTakesDefault(t *testing.T) {
	var out bytes.Buffer
	w := newWizard(strings.NewReader("\n"), &out)

	assert.Equal(t, "localhost", w.ask("Host", "localhost", nil))
	assert.Equal(t, "Host [localhost]: ", out.String())

	// end of input also takes the default
	assert.Equal(t, "8000", w.ask("Port", "8000", nil))
}

func TestWizardAskRetriesInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	w := newWizard(strings.NewReader("abc\n9090\n"), &out)

	got := w.ask("Port", "8000", func(s string) error {
		if s != "8000" && s != "9090" {
			return assert.AnError
		}
		return nil
	})
	assert.Equal(t, "9090", got)
	assert.Contains(t, out.String(), "❌")
	assert.Equal(t, 2, strings.Count(out.String(), "Port [8000]: "))
}

func TestWizardConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\ny\n", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			w := newWizard(strings.NewReader(tt.input), &out)
			assert.Equal(t, tt.want, w.confirm("Overwrite?"))
		})
	}
}

func TestWizardAskSettings(t *testing.T) {
	setup := &config.Config{
		Settings: baseSettings(),
		Database: config.DatabaseConfig{URL: "postgres://localhost/essence"},
	}
	input := strings.Join([]string{
		"sqlite://./essence.db",
		"",
		"0",
		"8080",
		"https://essence.shop, https://admin.essence.shop",
	}, "\n") + "\n"

	var out bytes.Buffer
	w := newWizard(strings.NewReader(input), &out)
	require.NoError(t, w.askSettings(setup))

	assert.Equal(t, "sqlite://./essence.db", setup.Database.URL)
	assert.Equal(t, "0.0.0.0", setup.Settings.Host)
	assert.Equal(t, 8080, setup.Settings.Port)
	assert.Equal(t, []string{"https://essence.shop", "https://admin.essence.shop"}, setup.Settings.CORSOrigins)
	assert.Contains(t, out.String(), "invalid port: 0")
}
