package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json at warn", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newLogger("warn", "json", buf)
		logger.Info("hidden")
		logger.Warn("shown", "channel", "q1")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "shown", record["msg"])
		assert.Equal(t, "q1", record["channel"])
	})

	t.Run("unknown level is info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newLogger("loud", "text", buf)
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})
}
