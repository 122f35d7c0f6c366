// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package audit implements a consumer/processor pipeline which records
// catalog mutation events. The pipeline implements the app.Runtime
// interface so it can run alongside the HTTP server.
package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

// Consumer produces items to be processed.
type Consumer[T any] interface {
	Consume(context.Context) (T, error)
}

// ConsumerFunc implements Consumer for funcs.
type ConsumerFunc[T any] func(context.Context) (T, error)

// Consume implements the Consumer interface.
func (f ConsumerFunc[T]) Consume(ctx context.Context) (T, error) {
	return f(ctx)
}

// Processor handles a single consumed item.
type Processor[T any] interface {
	Process(context.Context, T) error
}

// ProcessorFunc implements Processor for funcs.
type ProcessorFunc[T any] func(context.Context, T) error

// Process implements the Processor interface.
func (f ProcessorFunc[T]) Process(ctx context.Context, t T) error {
	return f(ctx, t)
}

type pipeOptions struct {
	logHandler              slog.Handler
	maxConcurrentProcessors int
}

// PipeOption configures a PipeRuntime.
type PipeOption func(*pipeOptions)

// LogHandler configures the slog.Handler used by the PipeRuntime.
func LogHandler(h slog.Handler) PipeOption {
	return func(po *pipeOptions) {
		po.logHandler = h
	}
}

// MaxConcurrentProcessors limits how many items can be processed
// concurrently. Unlimited, if unset.
func MaxConcurrentProcessors(n uint) PipeOption {
	return func(po *pipeOptions) {
		if n == 0 {
			return
		}
		po.maxConcurrentProcessors = int(n)
	}
}

// PipeRuntime concurrently consumes and processes items. The consumer
// and processors run in separate goroutines with the active trace
// context propagated between them.
type PipeRuntime[T any] struct {
	log *slog.Logger
	c   Consumer[T]
	p   Processor[T]

	propagator              propagation.TextMapPropagator
	maxConcurrentProcessors int
}

// Pipe returns a fully initialized PipeRuntime.
func Pipe[T any](c Consumer[T], p Processor[T], opts ...PipeOption) *PipeRuntime[T] {
	po := &pipeOptions{
		logHandler:              noop.LogHandler{},
		maxConcurrentProcessors: -1,
	}
	for _, opt := range opts {
		opt(po)
	}

	return &PipeRuntime[T]{
		log:                     slog.New(po.logHandler),
		c:                       c,
		p:                       p,
		propagator:              propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		maxConcurrentProcessors: po.maxConcurrentProcessors,
	}
}

// Run implements the app.Runtime interface.
func (rt *PipeRuntime[T]) Run(ctx context.Context) error {
	itemCh := make(chan *item[T])

	g, gctx := errgroup.WithContext(ctx)
	g.Go(rt.consumeItems(gctx, itemCh))
	g.Go(rt.processItems(gctx, itemCh))
	return g.Wait()
}

type item[T any] struct {
	value T

	// the otel context needs to be propagated between the consumer
	// and processor goroutines
	carrier propagation.TextMapCarrier
}

func (rt *PipeRuntime[T]) consumeItems(ctx context.Context, itemCh chan<- *item[T]) func() error {
	return func() error {
		defer close(itemCh)

		tracer := otel.Tracer("audit")
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			spanCtx, span := tracer.Start(ctx, "consume audit event")
			i, err := consume(spanCtx, rt.c)
			if err != nil {
				span.End()
				if errors.Is(err, context.Canceled) {
					return nil
				}
				rt.log.ErrorContext(spanCtx, "failed to consume", slogfield.Error(err))
				continue
			}

			i.carrier = make(propagation.MapCarrier)
			rt.propagator.Inject(spanCtx, i.carrier)

			select {
			case <-spanCtx.Done():
				span.End()
				return nil
			case itemCh <- i:
				span.End()
			}
		}
	}
}

func (rt *PipeRuntime[T]) processItems(ctx context.Context, itemCh <-chan *item[T]) func() error {
	return func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(rt.maxConcurrentProcessors)

		for {
			var i *item[T]
			select {
			case <-gctx.Done():
				return g.Wait()
			case i = <-itemCh:
			}
			if i == nil {
				rt.log.Debug("stopping item processing since item channel was closed")
				return g.Wait()
			}

			propCtx := rt.propagator.Extract(gctx, i.carrier)
			g.Go(rt.processItem(propCtx, i))
		}
	}
}

func (rt *PipeRuntime[T]) processItem(ctx context.Context, i *item[T]) func() error {
	return func() error {
		spanCtx, span := otel.Tracer("audit").Start(ctx, "process audit event")
		defer span.End()

		err := process(spanCtx, rt.p, i.value)
		if err != nil {
			rt.log.ErrorContext(spanCtx, "failed to process", slogfield.Error(err))
		}
		return nil
	}
}

func consume[T any](ctx context.Context, c Consumer[T]) (i *item[T], err error) {
	defer errRecover(&err)

	v, err := c.Consume(ctx)
	if err != nil {
		return nil, err
	}
	return &item[T]{value: v}, nil
}

func process[T any](ctx context.Context, p Processor[T], value T) (err error) {
	defer errRecover(&err)
	return p.Process(ctx, value)
}

func errRecover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	rerr, ok := r.(error)
	if !ok {
		*err = errors.New("recovered from panic")
		return
	}
	*err = rerr
}

// ChannelConsumer consumes items from an in-process channel.
type ChannelConsumer[T any] struct {
	ch <-chan T
}

// FromChannel returns a Consumer reading from the given channel.
func FromChannel[T any](ch <-chan T) ChannelConsumer[T] {
	return ChannelConsumer[T]{ch: ch}
}

// Consume implements the Consumer interface. It blocks until an item
// is available or the context is cancelled.
func (c ChannelConsumer[T]) Consume(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case v, ok := <-c.ch:
		if !ok {
			var zero T
			return zero, errors.New("channel closed")
		}
		return v, nil
	}
}
