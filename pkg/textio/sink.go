package textio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNoText is returned by Sink.Read for names that were never written.
var ErrNoText = errors.New("textio: no such text")

// Sink is a named text store: the host's text datablocks, or a directory.
type Sink interface {
	// Write replaces the named text, or appends to it when appendMode is set.
	Write(name, text string, appendMode bool) error
	Read(name string) (string, error)
}

// MemorySink keeps texts in memory. The zero value is ready to use.
type MemorySink struct {
	mu    sync.Mutex
	texts map[string]string
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(name, text string, appendMode bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texts == nil {
		s.texts = make(map[string]string)
	}
	if appendMode {
		s.texts[name] += text
	} else {
		s.texts[name] = text
	}
	return nil
}

func (s *MemorySink) Read(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.texts[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoText, name)
	}
	return t, nil
}

// Names lists the stored texts in sorted order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.texts))
	for n := range s.texts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FileSink stores each text as a file in Dir.
type FileSink struct {
	Dir string
}

func (s FileSink) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("textio: invalid text name %q", name)
	}
	return filepath.Join(s.Dir, name), nil
}

func (s FileSink) Write(name, text string, appendMode bool) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("textio: create dir: %w", err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(p, flags, 0o644)
	if err != nil {
		return fmt.Errorf("textio: open %s: %w", name, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("textio: write %s: %w", name, err)
	}
	return f.Close()
}

func (s FileSink) Read(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrNoText, name)
	}
	if err != nil {
		return "", fmt.Errorf("textio: read %s: %w", name, err)
	}
	return string(b), nil
}
