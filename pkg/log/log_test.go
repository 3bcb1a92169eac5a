package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahirov/xlrename/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		"error":         {in: "error", want: slog.LevelError},
		"warn":          {in: "warn", want: slog.LevelWarn},
		"warning alias": {in: "warning", want: slog.LevelWarn},
		"info upper":    {in: "INFO", want: slog.LevelInfo},
		"debug":         {in: "debug", want: slog.LevelDebug},
		"unknown":       {in: "trace", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	for _, format := range log.AllFormats {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.NewHandler(&buf, "info", format)
			require.NoError(t, err)

			logger := slog.New(h)
			logger.Info("hello", slog.String("key", "value"))

			assert.Contains(t, buf.String(), "hello")

			// Debug is below the configured level.
			buf.Reset()
			logger.Debug("quiet")
			assert.Empty(t, buf.String())
		})
	}
}

func TestNewHandlerErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, err := log.NewHandler(&buf, "bogus", "text")
	require.ErrorIs(t, err, log.ErrUnknownLevel)

	_, err = log.NewHandler(&buf, "info", "bogus")
	require.ErrorIs(t, err, log.ErrUnknownFormat)
}
