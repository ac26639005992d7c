package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	at := time.Date(2024, 3, 4, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "prod_2024-03-04_09-05-07.log"), LogFilePath("logs", "prod", at))
}

func TestNewLogger_WritesConsoleAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	var console bytes.Buffer

	logger, err := newLogger("test", dir, &console, at)
	require.NoError(t, err)

	logger.Debug("step detail")
	logger.Info("assignment saved")
	require.NoError(t, logger.Sync())

	// Debug goes to the file only
	assert.Contains(t, console.String(), "assignment saved")
	assert.NotContains(t, console.String(), "step detail")

	data, err := os.ReadFile(LogFilePath(dir, "test", at))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "step detail", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_Defaults(t *testing.T) {
	testChdir(t, t.TempDir())
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	logger, err := newLogger("", "", &bytes.Buffer{}, at)
	require.NoError(t, err)
	require.NoError(t, logger.Sync())

	_, err = os.Stat(LogFilePath(DefaultDir, "default", at))
	assert.NoError(t, err)
}
