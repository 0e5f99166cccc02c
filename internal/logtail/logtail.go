// Package logtail reads the solver log from disk.
//
// ReadAll returns the whole file for parsing; Read returns only the last
// lines for display. A missing or unreadable file is reported as
// ErrUnavailable so callers can retry instead of failing.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrUnavailable marks a log file that is missing or cannot be read yet.
var ErrUnavailable = errors.New("log unavailable")

// Info describes the log file at the time of a read.
type Info struct {
	Size    int64
	ModTime time.Time
}

// ReadAll returns the full current contents of the file at path.
func ReadAll(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return string(data), nil
}

// Stat returns size and modification time of the file at path.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if fi.IsDir() {
		return Info{}, fmt.Errorf("%w: %s is a directory", ErrUnavailable, path)
	}
	return Info{Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. Missing files yield nil, nil.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
