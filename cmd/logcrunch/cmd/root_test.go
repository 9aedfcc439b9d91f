package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckShape(t *testing.T) {
	flagShape = shapeLog
	assert.NoError(t, checkShape())

	flagShape = shapeRecord
	assert.NoError(t, checkShape())

	flagShape = "csv"
	assert.Error(t, checkShape())

	flagShape = shapeLog
}

func TestInputLines_FromFile(t *testing.T) {
	path := writeBatch(t, "a\nb\n")
	lines, err := inputLines([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestStatsCommand(t *testing.T) {
	path := writeBatch(t, `{"timestamp":"t","level":"INFO","message":"m","duration_ms":10}`+"\n")

	rootCmd.SetArgs([]string{"stats", path})
	assert.NoError(t, rootCmd.Execute())
}

func TestStatsCommand_RecordShape(t *testing.T) {
	path := writeBatch(t, `{"id":"r1","value":5,"category":"a","timestamp":"t"}`+"\n")

	rootCmd.SetArgs([]string{"stats", "--shape", "record", path})
	assert.NoError(t, rootCmd.Execute())

	flagShape = shapeLog
}

func TestValidateCommand_FailsOnBadBatch(t *testing.T) {
	path := writeBatch(t, "not json\n")

	rootCmd.SetArgs([]string{"validate", path})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestProcessCommand_FailsOnInvalidRecord(t *testing.T) {
	path := writeBatch(t, `{"id":"r1","value":-1,"category":"a","timestamp":"t"}`+"\n")

	rootCmd.SetArgs([]string{"process", path})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Value must be positive")
}
