package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		err  bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("algorithm", "bubble").Msg("run completed")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"algorithm":"bubble"`)
	require.Contains(t, out, `"message":"run completed"`)
}

func TestFile(t *testing.T) {
	logger, closeFn, err := File("", "info")
	require.NoError(t, err)
	logger.Info().Msg("discarded")
	require.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "algosim.log")
	logger, closeFn, err = File(path, "debug")
	require.NoError(t, err)
	logger.Debug().Msg("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "to file"))

	_, _, err = File(path, "nope")
	require.Error(t, err)
}
