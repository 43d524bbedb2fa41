// Package audit provides the append-only security audit sink: the sole
// durable record of authentication events. Only security events reach the
// file; operational logging goes through slog and is not persisted here.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// timeFormat matches the long-standing layout of the audit file so existing
// tooling keeps parsing it.
const timeFormat = "01/02/2006 03:04:05 PM"

// Sink is the process-wide append-only audit log. Open it once at startup
// and share the instance; writes are serialized by an internal mutex and
// the file is opened with O_APPEND so concurrent appenders cannot
// interleave partial lines.
type Sink struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

// Open opens (creating if necessary) the audit file for appending.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &Sink{f: f, now: time.Now}, nil
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Security records a security event. The event name and details are written
// as a single line:
//
//	03/14/2026 09:26:53 PM : SECURITY - Log in [1, alice@example.com, 10.0.0.7]
//
// The entry is mirrored to slog at Warn level so security events also show
// up in the operational stream.
func (s *Sink) Security(event string, details ...string) {
	line := fmt.Sprintf("%s : SECURITY - %s [%s]\n",
		s.now().Format(timeFormat), event, strings.Join(details, ", "))

	s.mu.Lock()
	if _, err := s.f.WriteString(line); err != nil {
		slog.Error("audit write failed", "error", err)
	}
	s.mu.Unlock()

	slog.Warn("SECURITY", "event", event, "details", details)
}

// Tail returns the last n lines of the audit file, oldest first. Used by
// the admin log view.
func (s *Sink) Tail(n int) ([]string, error) {
	s.mu.Lock()
	name := s.f.Name()
	s.mu.Unlock()

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
