// Package vecfile reads OMNeT++ result files (.vec, .sca) into memory.
//
// Files are decoded leniently: ill-formed UTF-8 is replaced with U+FFFD
// rather than failing the read, and .zst / .gz files are decompressed
// transparently.
package vecfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single line. Attribute lines in large runs can be long.
const maxLineSize = 16 * 1024 * 1024

// Open opens path for reading and returns a reader that yields valid UTF-8.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
// The caller must Close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vecfile: open %s: %w", path, err)
	}

	var (
		src    io.Reader = f
		closer           = []func() error{f.Close}
	)
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("vecfile: zstd %s: %w", path, err)
		}
		src = dec
		closer = append([]func() error{func() error { dec.Close(); return nil }}, closer...)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("vecfile: gzip %s: %w", path, err)
		}
		src = gz
		closer = append([]func() error{gz.Close}, closer...)
	}

	return &readCloser{
		Reader: transform.NewReader(src, runes.ReplaceIllFormed()),
		closer: closer,
	}, nil
}

// ReadLines reads the whole file at path into a slice of lines with line
// terminators removed. An existing but empty file yields an empty slice and
// a nil error.
func ReadLines(path string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lines, err := Lines(rc)
	if err != nil {
		return nil, fmt.Errorf("vecfile: read %s: %w", path, err)
	}
	return lines, nil
}

// Lines splits r into lines. Trailing carriage returns are stripped.
func Lines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lines := []string{}
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type readCloser struct {
	io.Reader
	closer []func() error
}

// Close releases decoders first, then the underlying file.
func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closer {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
