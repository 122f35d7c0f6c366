// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type serviceOptions struct {
	logHandler slog.Handler
	events     chan<- Event
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

// LogHandler configures the slog.Handler used by the Service.
func LogHandler(h slog.Handler) ServiceOption {
	return func(so *serviceOptions) {
		so.logHandler = h
	}
}

// PublishEvents configures a channel on which catalog mutation
// events are published. Publishing never blocks a caller. If the
// channel is full the event is dropped and a warning is logged.
func PublishEvents(ch chan<- Event) ServiceOption {
	return func(so *serviceOptions) {
		so.events = ch
	}
}

// Service implements the course catalog operations on top of a Store.
// Every operation runs inside its own span and emits logs correlated
// with the active trace.
type Service struct {
	log    *slog.Logger
	store  Store
	events chan<- Event
	tracer trace.Tracer
}

// NewService returns a fully initialized Service.
func NewService(store Store, opts ...ServiceOption) *Service {
	so := &serviceOptions{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(so)
	}

	return &Service{
		log:    slog.New(so.logHandler),
		store:  store,
		events: so.events,
		tracer: otel.Tracer("catalog"),
	}
}

// List returns all courses in the catalog.
func (s *Service) List(ctx context.Context) ([]Course, error) {
	spanCtx, span := s.tracer.Start(ctx, "list courses")
	defer span.End()

	courses, err := s.store.List(spanCtx)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		s.log.ErrorContext(spanCtx, "failed to list courses", slogfield.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("course.count", len(courses)))
	s.log.InfoContext(spanCtx, "listed courses", slogfield.Int("course_count", len(courses)))
	return courses, nil
}

// Get returns the course identified by code.
func (s *Service) Get(ctx context.Context, code string) (Course, error) {
	spanCtx, span := s.tracer.Start(ctx, "get course")
	defer span.End()
	span.SetAttributes(attribute.String("course.code", code))

	course, err := s.store.Get(spanCtx, code)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		s.log.ErrorContext(spanCtx, "failed to get course", slogfield.String("course_code", code), slogfield.Error(err))
		return Course{}, err
	}

	s.log.InfoContext(spanCtx, "got course",
		slogfield.String("course_code", course.Code),
		slogfield.String("course_name", course.Name),
	)
	return course, nil
}

// Add validates and persists a new course. Name, code and instructor
// are required. Leading and trailing whitespace is trimmed from all
// fields before validation.
func (s *Service) Add(ctx context.Context, course Course) error {
	spanCtx, span := s.tracer.Start(ctx, "save course")
	defer span.End()

	course = trimCourse(course)
	span.SetAttributes(
		attribute.String("course.code", course.Code),
		attribute.String("course.name", course.Name),
	)

	err := validateCourse(course)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		s.log.ErrorContext(spanCtx, "failed to add course due to missing required fields", slogfield.Error(err))
		return err
	}

	err = s.store.Put(spanCtx, course)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		s.log.ErrorContext(spanCtx, "failed to add course", slogfield.String("course_code", course.Code), slogfield.Error(err))
		return err
	}

	s.log.InfoContext(spanCtx, "course added",
		slogfield.String("course_code", course.Code),
		slogfield.String("course_name", course.Name),
	)
	s.publish(spanCtx, Event{
		Type:       CourseAdded,
		CourseCode: course.Code,
		CourseName: course.Name,
		Time:       time.Now().UTC(),
	})
	return nil
}

// Delete removes the course identified by code.
func (s *Service) Delete(ctx context.Context, code string) error {
	spanCtx, span := s.tracer.Start(ctx, "delete course")
	defer span.End()
	span.SetAttributes(attribute.String("course.code", code))

	err := s.store.Delete(spanCtx, code)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		s.log.ErrorContext(spanCtx, "failed to delete course", slogfield.String("course_code", code), slogfield.Error(err))
		return err
	}

	s.log.InfoContext(spanCtx, "course deleted", slogfield.String("course_code", code))
	s.publish(spanCtx, Event{
		Type:       CourseDeleted,
		CourseCode: code,
		Time:       time.Now().UTC(),
	})
	return nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		s.log.WarnContext(ctx, "dropped audit event since channel is full",
			slogfield.String("event_type", string(event.Type)),
			slogfield.String("course_code", event.CourseCode),
		)
	}
}

func trimCourse(c Course) Course {
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.Instructor = strings.TrimSpace(c.Instructor)
	c.Semester = strings.TrimSpace(c.Semester)
	return c
}

func validateCourse(c Course) error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Code == "" {
		missing = append(missing, "code")
	}
	if c.Instructor == "" {
		missing = append(missing, "instructor")
	}
	if len(missing) == 0 {
		return nil
	}
	return ValidationError{Missing: missing}
}
