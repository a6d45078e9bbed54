// Package document provides the file-backed text buffers the BlackConnect
// hosts edit. Every ReplaceText is one labeled undo step.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNothingToUndo is returned by Undo on a buffer without history.
var ErrNothingToUndo = errors.New("nothing to undo")

const maxHistory = 100

// Edit is one entry of the undo history.
type Edit struct {
	Label  string
	Before string
}

// Buffer is an in-memory copy of a file.
type Buffer struct {
	mu      sync.RWMutex
	path    string
	text    string
	saved   string
	history []Edit
}

// Open reads path into a new buffer.
func Open(path string) (*Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(data)
	return &Buffer{path: abs, text: text, saved: text}, nil
}

// New creates an unsaved buffer for path holding text.
func New(path, text string) *Buffer {
	return &Buffer{path: path, text: text}
}

// ID is the absolute path, stable for the buffer's lifetime.
func (b *Buffer) ID() string { return b.path }

// Path returns the file the buffer was opened from.
func (b *Buffer) Path() string { return b.path }

// Name returns the base file name.
func (b *Buffer) Name() string { return filepath.Base(b.path) }

// LanguageID reports "Jupyter" for notebooks, "Python" for .py/.pyi, and ""
// for anything else.
func (b *Buffer) LanguageID() string {
	switch strings.ToLower(filepath.Ext(b.path)) {
	case ".ipynb":
		return "Jupyter"
	case ".py", ".pyi":
		return "Python"
	default:
		return ""
	}
}

// Text returns the current content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// ReplaceText swaps the whole content as a single undoable edit. Replacing
// with identical text records nothing.
func (b *Buffer) ReplaceText(text, label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if text == b.text {
		return nil
	}
	b.history = append(b.history, Edit{Label: label, Before: b.text})
	if len(b.history) > maxHistory {
		b.history = b.history[len(b.history)-maxHistory:]
	}
	b.text = text
	return nil
}

// Undo reverts the most recent edit and returns its label.
func (b *Buffer) Undo() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.history) == 0 {
		return "", ErrNothingToUndo
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.text = last.Before
	return last.Label, nil
}

// History returns a copy of the undo stack, oldest first.
func (b *Buffer) History() []Edit {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.history) == 0 {
		return nil
	}
	dup := make([]Edit, len(b.history))
	copy(dup, b.history)
	return dup
}

// Dirty reports whether the content differs from what is on disk.
func (b *Buffer) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text != b.saved
}

// Save writes the content back to disk, preserving the file mode.
func (b *Buffer) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	mode := os.FileMode(0o644)
	if info, err := os.Stat(b.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(b.path, []byte(b.text), mode); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	b.saved = b.text
	return nil
}
