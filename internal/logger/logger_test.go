package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WithoutSentry(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	flush := Init(Options{IsDev: true})
	require.NotNil(t, flush)
	flush()

	require.NotNil(t, Log)
	assert.Same(t, Log, slog.Default())
	assert.True(t, Log.Enabled(t.Context(), slog.LevelDebug))
}

func TestInit_Production(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(Options{IsDev: false})
	assert.False(t, Log.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, Log.Enabled(t.Context(), slog.LevelInfo))
}
