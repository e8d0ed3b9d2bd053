// Package events records resolved validation failures in a JSON lines file.
package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Source identifies where a resolution was requested from.
type Source string

const (
	SourceHTTP      Source = "http"
	SourceWebSocket Source = "ws"
	SourceCLI       Source = "cli"
)

// Resolution is a single resolved validation failure.
type Resolution struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Source    Source    `json:"source"`
	Schema    string    `json:"schema"`
	Map       string    `json:"map"`
	Kind      string    `json:"kind"`
	Field     string    `json:"field,omitempty"`
	Message   string    `json:"msg"`
	Index     int       `json:"index"`
	Count     int       `json:"count"`
}

// Logger writes resolution events to a JSON lines file.
type Logger struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
	encoder  *json.Encoder
}

// NewLogger creates a new event logger.
func NewLogger(filePath string) (*Logger, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create event log directory", goerr.V("dir", dir))
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open event log", goerr.V("path", filePath))
	}

	return &Logger{
		filePath: filePath,
		file:     file,
		encoder:  json.NewEncoder(file),
	}, nil
}

// Log writes an event to the log file, filling in the ID and timestamp
// when they are empty.
func (l *Logger) Log(event *Resolution) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	return l.encoder.Encode(event)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Path returns the path to the log file.
func (l *Logger) Path() string {
	return l.filePath
}

// ReadLast reads the last n events from the log file, newest first.
// Lines of any length are accepted and malformed lines are skipped.
func ReadLast(filePath string, n int) ([]Resolution, error) {
	if n <= 0 {
		return []Resolution{}, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Resolution{}, nil
		}
		return nil, goerr.Wrap(err, "failed to open event log", goerr.V("path", filePath))
	}
	defer file.Close() //nolint:errcheck // Read-only operation, close error not critical

	// Keep a window of the last n lines.
	lines := make([][]byte, 0, min(n, 1024))
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if len(lines) == n {
				lines = append(lines[:0], lines[1:]...)
			}
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read event log", goerr.V("path", filePath))
		}
	}

	events := make([]Resolution, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		var event Resolution
		if err := json.Unmarshal(lines[i], &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	return events, nil
}
