package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	v := map[string]any{"text": "猫", "count": 2}
	require.NoError(t, LogJSON(dir, "../escape/analysis", v))

	b, err := os.ReadFile(filepath.Join(dir, "analysis.json"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "猫", got["text"])
	assert.Equal(t, float64(2), got["count"])

	tmp, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestLogJSONRejectsUnencodable(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, LogJSON(dir, "bad", make(chan int)))
	files, _ := os.ReadDir(dir)
	assert.Empty(t, files)
}

func TestInitLogs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))
	require.NoError(t, InitLogs(dir))

	_, err := os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, InitLogs(nested))
	assert.DirExists(t, nested)
}
