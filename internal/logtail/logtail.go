package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	lines, err := tail(f, maxLines)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return lines, nil
}

// tail keeps a window of the last n lines of r; zap lines can be long, so the
// scanner buffer grows up to maxLineBytes.
func tail(r io.Reader, n int) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineBytes)

	var window []string
	for sc.Scan() {
		window = append(window, sc.Text())
		if n > 0 && len(window) > 2*n {
			window = append(window[:0], window[len(window)-n:]...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if n > 0 && len(window) > n {
		window = window[len(window)-n:]
	}
	return window, nil
}
