package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineBytes bounds a single input line (16 MB).
const maxLineBytes = 16 * 1024 * 1024

// ReadLines reads a newline-delimited batch from a file. Files ending in
// .gz or .zst are decompressed transparently. "-" reads from stdin.
func ReadLines(path string) ([]string, error) {
	if path == "-" {
		return ReadLinesFrom(os.Stdin, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLinesFrom(f, path)
}

// ReadLinesFrom reads a newline-delimited batch from r. The name is used
// only to pick a decompressor by extension.
func ReadLinesFrom(r io.Reader, name string) ([]string, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// SplitLines splits an in-memory body into lines, dropping a single
// trailing newline so HTTP bodies and files behave the same.
func SplitLines(data []byte) []string {
	s := strings.TrimSuffix(string(data), "\n")
	s = strings.TrimSuffix(s, "\r")
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
