// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides common app lifecycle hooks.
package lifecycle

import (
	"context"

	"github.com/z5labs/coursecatalog/app"
	"github.com/z5labs/coursecatalog/otelconfig"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ManageOTel is a hook for initializing OTel on PreRun and shutting it down on PostRun.
func ManageOTel(f func(context.Context) (otelconfig.Initializer, error)) func(*app.Lifecycle) {
	return func(life *app.Lifecycle) {
		life.PreRun(func(ctx context.Context) error {
			initer, err := f(ctx)
			if err != nil {
				return err
			}
			tp, err := initer.Init()
			if err != nil {
				return err
			}
			otel.SetTracerProvider(tp)
			// need to set this so traces can propagate
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
			return nil
		})

		life.PostRun(func(ctx context.Context) error {
			tp := otel.GetTracerProvider()
			stp, ok := tp.(interface {
				Shutdown(context.Context) error
			})
			if !ok {
				return nil
			}
			return stp.Shutdown(ctx)
		})
	}
}
