package parse

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBatch = `{"timestamp":"t1","level":"INFO","message":"a"}
{"timestamp":"t2","level":"ERROR","message":"b"}
{"timestamp":"t3","level":"WARN","message":"c"}
`

func TestReadLines_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"ERROR"`)
}

func TestReadLines_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleBatch))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "batch.jsonl.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], `"WARN"`)
}

func TestReadLines_Zstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(sampleBatch))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "batch.jsonl.zst")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
}

func TestReadLines_MissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestReadLinesFrom_BadGzip(t *testing.T) {
	_, err := ReadLinesFrom(strings.NewReader("not gzip"), "x.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip reader")
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank interior line kept", "a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines([]byte(tt.body)))
		})
	}
}
