package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"
)

// Line is one decoded log line. Only the fields the reader cares about
// are kept; extra structured fields are ignored.
type Line struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

// Reader recovers operation blocks from the current day's log file.
type Reader struct {
	dir string
}

// NewReader creates a reader over the given log directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// LastOperation returns the lines of the most recent complete
// ==START...== / ==END...== block, markers included. A missing log file
// or no complete block yields an empty slice.
func (r *Reader) LastOperation() ([]Line, error) {
	lines, err := r.readToday()
	if err != nil {
		return nil, err
	}

	start, end := -1, -1
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line.Message, "==START"):
			start = i
			end = -1
		case strings.HasPrefix(line.Message, "==END"):
			if start >= 0 {
				end = i
			}
		}
	}
	if start < 0 || end < 0 {
		return []Line{}, nil
	}
	return lines[start : end+1], nil
}

// Warnings returns the warning-level lines of the most recent complete
// operation block.
func (r *Reader) Warnings() ([]Line, error) {
	block, err := r.LastOperation()
	if err != nil {
		return nil, err
	}

	warnings := []Line{}
	for _, line := range block {
		if line.Level == "warning" {
			warnings = append(warnings, line)
		}
	}
	return warnings, nil
}

func (r *Reader) readToday() ([]Line, error) {
	f, err := os.Open(FilePath(r.dir, time.Now()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line Line
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			// Skip anything that isn't a JSON log line.
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
