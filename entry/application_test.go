package entry

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Application(t *testing.T) {
	t.Run("logs are tagged with app name and pid", func(t *testing.T) {
		var buf bytes.Buffer
		app := NewApplication("gen-hmac", &buf, slog.LevelInfo)
		defer app.Stop()

		app.Log().Info("hello")
		lines := decodeLogLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "gen-hmac", lines[0]["app"])
		assert.NotNil(t, lines[0]["pid"])
	})

	t.Run("Stop cancels the context", func(t *testing.T) {
		app := NewApplication("gen-hmac", &bytes.Buffer{}, slog.LevelInfo)
		assert.NoError(t, app.Context().Err())
		app.Stop()
		assert.Error(t, app.Context().Err())
	})

	t.Run("Fail logs the error and exits nonzero", func(t *testing.T) {
		var buf bytes.Buffer
		app := NewApplication("gen-hmac", &buf, slog.LevelInfo).(*application)
		exitCode := -1
		app.exit = func(code int) { exitCode = code }

		app.Fail("Setup failed", errors.New("no secret"))
		assert.Equal(t, 1, exitCode)
		assert.Error(t, app.Context().Err())

		lines := decodeLogLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "Setup failed", lines[0]["msg"])
		assert.Equal(t, "no secret", lines[0]["error"])
	})
}
