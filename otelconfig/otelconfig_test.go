// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNoop_Init(t *testing.T) {
	t.Run("will return the globally registered tracer provider", func(t *testing.T) {
		tp, err := Noop.Init()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, otel.GetTracerProvider(), tp) {
			return
		}
	})
}

func TestLocal_Init(t *testing.T) {
	t.Run("will export spans to the configured writer", func(t *testing.T) {
		t.Run("if LocalOut is used", func(t *testing.T) {
			var buf bytes.Buffer
			tp, err := Local(
				ServiceName("course-catalog-service"),
				LocalOut(&buf),
			).Init()
			require.Nil(t, err)

			sdkTp, ok := tp.(*sdktrace.TracerProvider)
			require.True(t, ok)

			_, span := sdkTp.Tracer("test").Start(context.Background(), "test span")
			span.End()

			err = sdkTp.Shutdown(context.Background())
			require.Nil(t, err)

			if !assert.Contains(t, buf.String(), "test span") {
				return
			}
		})
	})
}

func TestOTLP_Init(t *testing.T) {
	t.Run("will return a shutdown-able tracer provider", func(t *testing.T) {
		t.Run("even if the collector is not reachable", func(t *testing.T) {
			tp, err := OTLP(
				ServiceName("course-catalog-service"),
				OTLPTarget("localhost:0"),
			).Init()
			require.Nil(t, err)

			_, ok := tp.(interface {
				Shutdown(context.Context) error
			})
			if !assert.True(t, ok) {
				return
			}
		})
	})
}
