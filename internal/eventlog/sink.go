package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	eventDir  = ".config/grove"
	eventFile = "events.jsonl"
)

// DefaultPath returns the default event log location, ~/.config/grove/events.jsonl.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return eventFile
	}
	return filepath.Join(home, eventDir, eventFile)
}

// Record is one line of the append-only event log: no schema version, just
// whatever the call site wants recorded alongside trace/span correlation.
type Record struct {
	Time    string         `json:"time"`
	TraceID string         `json:"trace_id,omitempty"`
	SpanID  string         `json:"span_id,omitempty"`
	Name    string         `json:"name"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// fileSink appends Records to a JSONL file, one per line.
type fileSink struct {
	mu   sync.Mutex
	file *os.File
}

func newFileSink(path string) (*fileSink, error) {
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create event log directory: %w", err)
		}
	}
	f, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open event log file: %w", err)
	}
	return &fileSink{file: f}, nil
}

func (s *fileSink) write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if rec.Time == "" {
		rec.Time = time.Now().UTC().Format(time.RFC3339Nano)
	}
	enc := json.NewEncoder(s.file)
	return enc.Encode(rec)
}

func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
