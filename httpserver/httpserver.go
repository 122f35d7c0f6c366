// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpserver provides an HTTP server which implements the
// app.Runtime interface.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/z5labs/coursecatalog/health"
	"github.com/z5labs/coursecatalog/httphealth"
	"github.com/z5labs/coursecatalog/httpvalidate"
	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

type runtimeOptions struct {
	host       string
	port       uint
	mux        *http.ServeMux
	logHandler slog.Handler
	readiness  health.Metric
	liveness   health.Metric
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

// ListenOn will configure the HTTP server to listen on the given
// host and port.
//
// Default is 127.0.0.1:5000.
func ListenOn(host string, port uint) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.host = host
		ro.port = port
	}
}

// LogHandler configures the slog.Handler used by the runtime.
func LogHandler(h slog.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.logHandler = h
	}
}

// Handle registers a http.Handler for the given path pattern.
func Handle(pattern string, h http.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		registerEndpoint(ro.mux, pattern, h)
	}
}

// HandleFunc registers a http.HandlerFunc for the given path pattern.
func HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) RuntimeOption {
	return func(ro *runtimeOptions) {
		registerEndpoint(ro.mux, pattern, http.HandlerFunc(f))
	}
}

// Readiness configures the health.Metric backing the
// /health/readiness endpoint.
func Readiness(m health.Metric) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.readiness = m
	}
}

// Liveness configures the health.Metric backing the
// /health/liveness endpoint.
func Liveness(m health.Metric) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.liveness = m
	}
}

// Runtime is an HTTP server runtime.
type Runtime struct {
	addr   string
	listen func(string, string) (net.Listener, error)

	log *slog.Logger

	started *health.Started

	h http.Handler
}

// NewRuntime returns a fully initialized Runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	ros := &runtimeOptions{
		host:       "127.0.0.1",
		port:       5000,
		mux:        http.NewServeMux(),
		logHandler: noop.LogHandler{},
		readiness:  &health.Binary{},
		liveness:   &health.Binary{},
	}
	for _, opt := range opts {
		opt(ros)
	}

	started := &health.Started{}
	registerEndpoint(
		ros.mux,
		"/health/startup",
		httpvalidate.Request(
			httphealth.NewHandler(started),
			httpvalidate.ForMethods(http.MethodGet),
		),
	)
	registerEndpoint(
		ros.mux,
		"/health/liveness",
		httpvalidate.Request(
			httphealth.NewHandler(ros.liveness),
			httpvalidate.ForMethods(http.MethodGet),
		),
	)
	registerEndpoint(
		ros.mux,
		"/health/readiness",
		httpvalidate.Request(
			httphealth.NewHandler(ros.readiness),
			httpvalidate.ForMethods(http.MethodGet),
		),
	)

	return &Runtime{
		addr:    fmt.Sprintf("%s:%d", ros.host, ros.port),
		listen:  net.Listen,
		log:     slog.New(ros.logHandler),
		started: started,
		h:       ros.mux,
	}
}

// Run implements the app.Runtime interface.
func (rt *Runtime) Run(ctx context.Context) error {
	ls, err := rt.listen("tcp", rt.addr)
	if err != nil {
		rt.log.Error("failed to listen for connections", slogfield.Error(err))
		return err
	}

	s := &http.Server{
		Handler: otelhttp.NewHandler(
			rt.h,
			"server",
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer rt.log.Info("shut down service")

		rt.log.Info("shutting down service")
		return s.Shutdown(ctx)
	})
	g.Go(func() error {
		rt.log.Info("started service", slogfield.String("addr", rt.addr))
		rt.started.Started()
		return s.Serve(ls)
	})

	err = g.Wait()
	if err == nil || err == http.ErrServerClosed {
		return nil
	}
	rt.log.Error("service encountered unexpected error", slogfield.Error(err))
	return err
}

func registerEndpoint(mux *http.ServeMux, path string, h http.Handler) {
	mux.Handle(
		path,
		otelhttp.WithRouteTag(path, h),
	)
}
