// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package catalog implements the course catalog domain.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Course is a single entry of the course catalog. Code uniquely
// identifies a course.
type Course struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
	Semester   string `json:"semester,omitempty"`
}

// Store represents anything which can persist Courses.
type Store interface {
	List(context.Context) ([]Course, error)
	Get(ctx context.Context, code string) (Course, error)
	Put(context.Context, Course) error
	Delete(ctx context.Context, code string) error
}

// CourseNotFoundError occurs when no course exists for a given code.
type CourseNotFoundError struct {
	Code string
}

// Error implements the [builtin.error] interface.
func (e CourseNotFoundError) Error() string {
	return fmt.Sprintf("no course found with code: %s", e.Code)
}

// CourseExistsError occurs when adding a course whose code is
// already present in the catalog.
type CourseExistsError struct {
	Code string
}

// Error implements the [builtin.error] interface.
func (e CourseExistsError) Error() string {
	return fmt.Sprintf("course already exists with code: %s", e.Code)
}

// ValidationError occurs when a course is missing required fields.
type ValidationError struct {
	Missing []string
}

// Error implements the [builtin.error] interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("missing required course field(s): %s", strings.Join(e.Missing, ", "))
}

// EventType enumerates the kinds of catalog mutation events.
type EventType string

const (
	// CourseAdded is published after a course was persisted.
	CourseAdded = EventType("course_added")

	// CourseDeleted is published after a course was removed.
	CourseDeleted = EventType("course_deleted")
)

// Event records a single catalog mutation.
type Event struct {
	Type       EventType `json:"type"`
	CourseCode string    `json:"course_code"`
	CourseName string    `json:"course_name,omitempty"`
	Time       time.Time `json:"time"`
}
