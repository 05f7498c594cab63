// Package journal provides append-only line journals for the event
// and trade logs. Every record is flushed as soon as it is written so
// a crash loses at most the record in flight.
package journal

import (
	"bufio"
	"os"
)

// Log is an append-only text journal, one record per line.
type Log struct {
	f *os.File
	w *bufio.Writer
}

func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Log{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one record and flushes it.
func (l *Log) Append(line string) error {
	if _, err := l.w.WriteString(line); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *Log) Close() error {
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
