package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "foamwatch.log")

	closer, err := Init("info", path, false)
	require.NoError(t, err)

	Debug().Msg("hidden")
	Info().Str("phase", "POLL").Msg("polled")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"POLL"`)
	assert.NotContains(t, string(data), "hidden")

	SetOutput(&bytes.Buffer{}, zerolog.Disabled)
}

func TestInit_InvalidLevel(t *testing.T) {
	closer, err := Init("loud", "", false)
	assert.Error(t, err)
	assert.NoError(t, closer.Close())
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	Info().Msg("quiet")
	Warn().Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	SetOutput(&buf, zerolog.Disabled)
}
