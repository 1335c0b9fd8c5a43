package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// fileSink appends log lines to a single file and starts the file over once
// the next write would push it past the byte cap. No backups are kept: the
// cap bounds disk usage, not history.
type fileSink struct {
	mu      sync.Mutex
	file    *os.File
	written int64
	cap     int64
}

const defaultSinkCapMB = 10

func newFileSink(path string, maxMB int) (*fileSink, error) {
	if maxMB <= 0 {
		maxMB = defaultSinkCapMB
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	return &fileSink{
		file:    f,
		written: info.Size(),
		cap:     int64(maxMB) << 20,
	}, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, os.ErrClosed
	}
	if s.written+int64(len(p)) > s.cap {
		if err := s.file.Truncate(0); err != nil {
			return 0, err
		}
		if _, err := s.file.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		s.written = 0
	}
	n, err := s.file.Write(p)
	s.written += int64(n)
	return n, err
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
