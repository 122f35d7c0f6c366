// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lifecycle

import (
	"bytes"
	"context"
	"testing"

	"github.com/z5labs/coursecatalog/app"
	"github.com/z5labs/coursecatalog/otelconfig"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

type runtimeFunc func(context.Context) error

func (f runtimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

func TestManageOTel(t *testing.T) {
	t.Run("will install and shut down the tracer provider", func(t *testing.T) {
		t.Run("if the app runs successfully", func(t *testing.T) {
			var buf bytes.Buffer

			a := app.New(
				app.Name("test"),
				app.Hooks(ManageOTel(func(ctx context.Context) (otelconfig.Initializer, error) {
					return otelconfig.Local(
						otelconfig.ServiceName("test"),
						otelconfig.LocalOut(&buf),
					), nil
				})),
				app.WithRuntimeBuilderFunc(func(ctx context.Context) (app.Runtime, error) {
					return runtimeFunc(func(ctx context.Context) error {
						_, span := otel.Tracer("test").Start(ctx, "runtime span")
						span.End()
						return nil
					}), nil
				}),
			)

			err := a.Run()
			if !assert.Nil(t, err) {
				return
			}

			// shutdown flushes the batch span processor
			if !assert.Contains(t, buf.String(), "runtime span") {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the initializer can not be built", func(t *testing.T) {
			a := app.New(
				app.Name("test"),
				app.Hooks(ManageOTel(func(ctx context.Context) (otelconfig.Initializer, error) {
					return nil, assert.AnError
				})),
				app.WithRuntimeBuilderFunc(func(ctx context.Context) (app.Runtime, error) {
					return runtimeFunc(func(ctx context.Context) error {
						return nil
					}), nil
				}),
			)

			err := a.Run()
			if !assert.ErrorIs(t, err, assert.AnError) {
				return
			}
		})
	})
}
