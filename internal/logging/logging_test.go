package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(Config{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(Config{Level: "error", Verbose: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_JSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	l, err := New(Config{Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Named("pipeline").Info("stage done", zap.String("stage", "summarizer"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "stage done", entry["msg"])
	assert.Equal(t, "pipeline", entry["logger"])
	assert.Equal(t, "summarizer", entry["stage"])
}
