// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package collectorwatch periodically checks the Jaeger Query API to
// verify the trace export path end to end.
package collectorwatch

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/z5labs/coursecatalog/health"
	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"
)

// Pinger reports the services currently known to the trace backend.
type Pinger interface {
	Services(context.Context) ([]string, error)
}

type runtimeOptions struct {
	logHandler  slog.Handler
	interval    time.Duration
	serviceName string
	metric      *health.Binary
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

// LogHandler configures the slog.Handler used by the Runtime.
func LogHandler(h slog.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.logHandler = h
	}
}

// Interval configures how often the trace backend is checked.
//
// Default is 30 seconds.
func Interval(d time.Duration) RuntimeOption {
	return func(ro *runtimeOptions) {
		if d <= 0 {
			return
		}
		ro.interval = d
	}
}

// ServiceName configures the service name to look for in the trace
// backend. Once spans have been exported, the backend will report
// the service name and its visibility is logged.
func ServiceName(name string) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.serviceName = name
	}
}

// Metric configures the health.Binary which is toggled whenever the
// trace backend reachability changes.
func Metric(m *health.Binary) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.metric = m
	}
}

// Runtime implements the app.Runtime interface by periodically
// querying the trace backend.
type Runtime struct {
	log         *slog.Logger
	pinger      Pinger
	interval    time.Duration
	serviceName string
	metric      *health.Binary
}

// NewRuntime returns a fully initialized Runtime.
func NewRuntime(pinger Pinger, opts ...RuntimeOption) *Runtime {
	ro := &runtimeOptions{
		logHandler: noop.LogHandler{},
		interval:   30 * time.Second,
		metric:     &health.Binary{},
	}
	for _, opt := range opts {
		opt(ro)
	}

	return &Runtime{
		log:         slog.New(ro.logHandler),
		pinger:      pinger,
		interval:    ro.interval,
		serviceName: ro.serviceName,
		metric:      ro.metric,
	}
}

// Run implements the app.Runtime interface.
func (rt *Runtime) Run(ctx context.Context) error {
	ticker := time.NewTicker(rt.interval)
	defer ticker.Stop()

	// the zero value of health.Binary is healthy
	reachable := true
	visible := false

	for {
		rt.check(ctx, &reachable, &visible)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (rt *Runtime) check(ctx context.Context, reachable *bool, visible *bool) {
	checkCtx, cancel := context.WithTimeout(ctx, rt.interval)
	defer cancel()

	services, err := rt.pinger.Services(checkCtx)
	if err != nil {
		if *reachable {
			*reachable = false
			rt.metric.Toggle()
			rt.log.ErrorContext(ctx, "trace backend became unreachable", slogfield.Error(err))
		}
		return
	}

	if !*reachable {
		*reachable = true
		rt.metric.Toggle()
		rt.log.InfoContext(ctx, "trace backend became reachable")
	}

	if rt.serviceName == "" || *visible {
		return
	}
	if slices.Contains(services, rt.serviceName) {
		*visible = true
		rt.log.InfoContext(ctx, "traces are visible in the trace backend", slogfield.String("service_name", rt.serviceName))
	}
}
