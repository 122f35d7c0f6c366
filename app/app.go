// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app handles the lower level concerns of running the course
// catalog service: config parsing, lifecycle hooks, OS interrupts and
// running one or more runtimes concurrently.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/z5labs/coursecatalog/config"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Runtime represents the entry point for use case specific code.
// A Runtime should be purely focused on running use case specific
// code e.g. serving HTTP or processing audit events. Interrupts
// and config parsing belong to the App.
type Runtime interface {
	Run(context.Context) error
}

// Lifecycle provides the ability to hook into certain points of
// the App.Run process.
type Lifecycle struct {
	preRunHooks  []func(context.Context) error
	postRunHooks []func(context.Context) error
}

// PreRun registers hooks to be called after the config is parsed
// and before Runtime.Run is called.
func (l *Lifecycle) PreRun(hooks ...func(context.Context) error) {
	l.preRunHooks = append(l.preRunHooks, hooks...)
}

// PostRun registers hooks to be called after Runtime.Run has
// completed, regardless whether it returned an error or not.
func (l *Lifecycle) PostRun(hooks ...func(context.Context) error) {
	l.postRunHooks = append(l.postRunHooks, hooks...)
}

type contextKey string

var (
	configContextKey    = contextKey("configContextKey")
	lifecycleContextKey = contextKey("lifecycleContextKey")
)

// ConfigFromContext extracts a *config.Manager from the given context.Context.
func ConfigFromContext(ctx context.Context) *config.Manager {
	return ctx.Value(configContextKey).(*config.Manager)
}

// LifecycleFromContext extracts a *Lifecycle from the given context.Context.
func LifecycleFromContext(ctx context.Context) *Lifecycle {
	return ctx.Value(lifecycleContextKey).(*Lifecycle)
}

// RuntimeBuilder represents anything which can initialize a Runtime.
type RuntimeBuilder interface {
	Build(context.Context) (Runtime, error)
}

// RuntimeBuilderFunc is a functional implementation of
// the RuntimeBuilder interface.
type RuntimeBuilderFunc func(context.Context) (Runtime, error)

// Build implements the RuntimeBuilder interface.
func (f RuntimeBuilderFunc) Build(ctx context.Context) (Runtime, error) {
	return f(ctx)
}

// Option is used to configure an App.
type Option func(*App)

// Name configures the name of the application.
func Name(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithRuntimeBuilder registers the given RuntimeBuilder with the App.
func WithRuntimeBuilder(rb RuntimeBuilder) Option {
	return func(a *App) {
		a.rbs = append(a.rbs, rb)
	}
}

// WithRuntimeBuilderFunc registers the given function as a RuntimeBuilder.
func WithRuntimeBuilderFunc(f func(context.Context) (Runtime, error)) Option {
	return func(a *App) {
		a.rbs = append(a.rbs, RuntimeBuilderFunc(f))
	}
}

// Config registers a config source with the application.
// If used multiple times, subsequent sources will be merged
// with the very first one provided. The subsequent sources
// values override any previous values.
func Config(src config.Source) Option {
	return func(a *App) {
		a.cfgSrcs = append(a.cfgSrcs, src)
	}
}

// Hooks allows you to register multiple lifecycle hooks.
func Hooks(fs ...func(*Lifecycle)) Option {
	return func(a *App) {
		for _, f := range fs {
			f(&a.life)
		}
	}
}

// App ties together config parsing, lifecycle hooks and runtimes.
type App struct {
	name    string
	cfgSrcs []config.Source
	rbs     []RuntimeBuilder
	life    Lifecycle
}

// New returns a fully initialized App.
func New(opts ...Option) *App {
	var name string
	if len(os.Args) > 0 {
		name = os.Args[0]
	}
	app := &App{
		name: name,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run executes the application. It also handles listening
// for interrupts from the underlying OS and terminates
// the application when one is received.
func (app *App) Run(args ...string) error {
	cmd := buildCmd(app)
	cmd.SetArgs(args)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	return cmd.ExecuteContext(ctx)
}

var errNilRuntime = errors.New("nil runtime")

func buildCmd(app *App) *cobra.Command {
	var cfg *config.Manager

	rs := make([]Runtime, len(app.rbs))

	return &cobra.Command{
		Use:           app.name,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) (err error) {
			defer errRecover(&err)

			cfg, err = config.Read(app.cfgSrcs...)
			if err != nil {
				return ConfigReadError{Cause: err}
			}
			app.cfgSrcs = nil

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			ctx = context.WithValue(ctx, lifecycleContextKey, &app.life)

			for i, rb := range app.rbs {
				r, err := rb.Build(ctx)
				if err != nil {
					return err
				}
				if r == nil {
					return errNilRuntime
				}
				rs[i] = r

				// let the garbage collector reclaim the builder
				app.rbs[i] = nil
			}
			app.rbs = nil

			errs := make([]error, 0, len(app.life.preRunHooks))
			for _, f := range app.life.preRunHooks {
				err := f(ctx)
				if err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRuntimes(cmd.Context(), rs)

			// post-run hooks must run even if a runtime failed or
			// panicked, e.g. flushing batched spans and closing files
			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			ctx = context.WithValue(ctx, lifecycleContextKey, &app.life)

			errs := make([]error, 0, len(app.life.postRunHooks)+1)
			if err != nil {
				errs = append(errs, err)
			}
			for _, f := range app.life.postRunHooks {
				err := f(ctx)
				if err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func runRuntimes(ctx context.Context, rs []Runtime) (err error) {
	defer errRecover(&err)

	if len(rs) == 0 {
		return nil
	}
	if len(rs) == 1 {
		return rs[0].Run(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rt := range rs {
		rt := rt
		g.Go(func() (e error) {
			defer errRecover(&e)
			return rt.Run(gctx)
		})
	}
	return g.Wait()
}

// ConfigReadError occurs when the registered config sources fail
// to be read and merged.
type ConfigReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config source(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigReadError) Unwrap() error {
	return e.Cause
}

// PanicError is returned when a panic was recovered while running
// the application and the recovered value does not implement error.
type PanicError struct {
	Value any
}

// Error implements the [builtin.error] interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

func errRecover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	rerr, ok := r.(error)
	if !ok {
		*err = PanicError{Value: r}
		return
	}
	*err = rerr
}
