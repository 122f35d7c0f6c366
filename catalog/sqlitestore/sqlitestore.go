// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package sqlitestore persists the course catalog in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/z5labs/coursecatalog/catalog"

	// registers the pure Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS courses (
	code       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	instructor TEXT NOT NULL,
	semester   TEXT NOT NULL DEFAULT ''
);
`

// Store is a catalog.Store backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens, or creates, the SQLite database at the given DSN and
// ensures the catalog schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List implements the catalog.Store interface.
func (s *Store) List(ctx context.Context) ([]catalog.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, instructor, semester FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []catalog.Course
	for rows.Next() {
		var c catalog.Course
		err = rows.Scan(&c.Code, &c.Name, &c.Instructor, &c.Semester)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get implements the catalog.Store interface.
func (s *Store) Get(ctx context.Context, code string) (catalog.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT code, name, instructor, semester FROM courses WHERE code = ?`, code)

	var c catalog.Course
	err := row.Scan(&c.Code, &c.Name, &c.Instructor, &c.Semester)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Course{}, catalog.CourseNotFoundError{Code: code}
	}
	if err != nil {
		return catalog.Course{}, err
	}
	return c, nil
}

// Put implements the catalog.Store interface.
func (s *Store) Put(ctx context.Context, course catalog.Course) error {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO courses (code, name, instructor, semester) VALUES (?, ?, ?, ?) ON CONFLICT (code) DO NOTHING`,
		course.Code,
		course.Name,
		course.Instructor,
		course.Semester,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.CourseExistsError{Code: course.Code}
	}
	return nil
}

// Delete implements the catalog.Store interface.
func (s *Store) Delete(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE code = ?`, code)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.CourseNotFoundError{Code: code}
	}
	return nil
}
