// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package audit

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/z5labs/coursecatalog/catalog"
)

// LogWriter appends catalog events to a file, one JSON object per line.
type LogWriter struct {
	path string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewLogWriter returns a LogWriter appending to the given path.
// The file is created on the first processed event.
func NewLogWriter(path string) *LogWriter {
	return &LogWriter{
		path: path,
	}
}

// Process implements the Processor interface.
func (w *LogWriter) Process(ctx context.Context, event catalog.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w.file = f
		w.enc = json.NewEncoder(f)
	}
	return w.enc.Encode(event)
}

// Close closes the underlying file, if it was ever opened.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	w.enc = nil
	return err
}
