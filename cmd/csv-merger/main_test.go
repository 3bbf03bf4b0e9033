package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "logs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("id\n1\n2\n"), 0o644))

	var logs bytes.Buffer
	out := run([]string{"-base", base, "-subdir", "logs", "-subdir", "absent", "-log-format", "json"}, &logs)

	require.True(t, out.Success, out.Error)
	assert.Equal(t, filepath.Join(base, "CombinedNPCData.xlsx"), out.OutputFile)
	assert.EqualValues(t, 2, out.RowCount)
	require.Len(t, out.Directories, 2)
	assert.Equal(t, 1, out.Directories[0].Files)
	assert.False(t, out.Directories[1].Found)
	require.Len(t, out.Files, 1)
	assert.Equal(t, 2, out.Files[0].Rows)

	// каждая строка лога - отдельный JSON объект
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		assert.True(t, json.Valid(line), string(line))
	}
}

func TestRunNoFiles(t *testing.T) {
	base := t.TempDir()

	var logs bytes.Buffer
	out := run([]string{"-base", base}, &logs)

	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "no CSV files found")
	assert.Contains(t, logs.String(), "directory not found")
}

func TestRunConfigError(t *testing.T) {
	out := run([]string{"-out", "result.csv"}, &bytes.Buffer{})

	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "configuration error")
	assert.NotEmpty(t, out.Duration)
}

func TestEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	emitJSON(&buf, Output{Success: true, OutputFile: "x.xlsx", RowCount: 3, Duration: "1ms"})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "x.xlsx", decoded["output_file"])
	assert.EqualValues(t, 3, decoded["row_count"])
	assert.NotContains(t, decoded, "error")
}
