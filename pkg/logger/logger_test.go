package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUsableBeforeSetup(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Info("info before setup")
		Warn("warn before setup")
		Error("error before setup")
		Debug("debug before setup")
	})
}

func TestSetupReplacesGlobal(t *testing.T) {
	Setup("development")
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() { Info("after setup") })

	Setup("production")
	assert.NotNil(t, Log)
	assert.True(t, Log.Enabled(context.Background(), slog.LevelInfo))
}
