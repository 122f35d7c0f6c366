// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package filestore persists the course catalog as a JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/z5labs/coursecatalog/catalog"
	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"
)

type storeOptions struct {
	logHandler slog.Handler
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

// LogHandler configures the slog.Handler used by the Store.
func LogHandler(h slog.Handler) StoreOption {
	return func(so *storeOptions) {
		so.logHandler = h
	}
}

// Store is a catalog.Store backed by a single JSON file holding an
// array of courses. A missing file reads as an empty catalog. Writes
// replace the whole file via a temp file rename so readers never
// observe a partially written catalog.
type Store struct {
	log  *slog.Logger
	path string

	// guards the file against concurrent read-modify-write cycles
	mu sync.Mutex
}

// New returns a fully initialized Store persisting to the given path.
func New(path string, opts ...StoreOption) *Store {
	so := &storeOptions{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(so)
	}

	return &Store{
		log:  slog.New(so.logHandler),
		path: path,
	}
}

// List implements the catalog.Store interface.
func (s *Store) List(ctx context.Context) ([]catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get implements the catalog.Store interface.
func (s *Store) Get(ctx context.Context, code string) (catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.load(ctx)
	if err != nil {
		return catalog.Course{}, err
	}
	for _, course := range courses {
		if course.Code == code {
			return course, nil
		}
	}
	return catalog.Course{}, catalog.CourseNotFoundError{Code: code}
}

// Put implements the catalog.Store interface.
func (s *Store) Put(ctx context.Context, course catalog.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, c := range courses {
		if c.Code == course.Code {
			return catalog.CourseExistsError{Code: course.Code}
		}
	}
	return s.save(ctx, append(courses, course))
}

// Delete implements the catalog.Store interface.
func (s *Store) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.load(ctx)
	if err != nil {
		return err
	}

	remaining := courses[:0]
	for _, course := range courses {
		if course.Code != code {
			remaining = append(remaining, course)
		}
	}
	if len(remaining) == len(courses) {
		return catalog.CourseNotFoundError{Code: code}
	}
	return s.save(ctx, remaining)
}

func (s *Store) load(ctx context.Context) ([]catalog.Course, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.WarnContext(ctx, "unable to find course file, returning empty list", slogfield.String("path", s.path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var courses []catalog.Course
	err = json.Unmarshal(b, &courses)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) save(ctx context.Context, courses []catalog.Course) error {
	b, err := json.MarshalIndent(courses, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}

	_, err = f.Write(b)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	err = f.Close()
	if err != nil {
		os.Remove(f.Name())
		return err
	}

	err = os.Rename(f.Name(), s.path)
	if err != nil {
		os.Remove(f.Name())
		return err
	}

	s.log.InfoContext(ctx, "courses saved to file", slogfield.Int("course_count", len(courses)))
	return nil
}
