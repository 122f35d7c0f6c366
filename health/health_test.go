// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinary_Healthy(t *testing.T) {
	t.Run("will report healthy", func(t *testing.T) {
		t.Run("if it is the zero value", func(t *testing.T) {
			var m Binary
			if !assert.True(t, m.Healthy(context.Background())) {
				return
			}
		})
	})

	t.Run("will report unhealthy", func(t *testing.T) {
		t.Run("if it was toggled once", func(t *testing.T) {
			var m Binary
			m.Toggle()
			if !assert.False(t, m.Healthy(context.Background())) {
				return
			}
		})
	})

	t.Run("will report healthy again", func(t *testing.T) {
		t.Run("if it was toggled twice", func(t *testing.T) {
			var m Binary
			m.Toggle()
			m.Toggle()
			if !assert.True(t, m.Healthy(context.Background())) {
				return
			}
		})
	})
}

func TestStarted_Healthy(t *testing.T) {
	t.Run("will report unhealthy", func(t *testing.T) {
		t.Run("if it is the zero value", func(t *testing.T) {
			var m Started
			if !assert.False(t, m.Healthy(context.Background())) {
				return
			}
		})
	})

	t.Run("will report healthy", func(t *testing.T) {
		t.Run("if it was marked as started", func(t *testing.T) {
			var m Started
			m.Started()
			if !assert.True(t, m.Healthy(context.Background())) {
				return
			}
		})
	})
}

func TestAndMetric_Healthy(t *testing.T) {
	t.Run("will report unhealthy", func(t *testing.T) {
		t.Run("if any underlying metric is unhealthy", func(t *testing.T) {
			var a, b Binary
			b.Toggle()

			m := And(&a, &b)
			if !assert.False(t, m.Healthy(context.Background())) {
				return
			}
		})
	})

	t.Run("will report healthy", func(t *testing.T) {
		t.Run("if all underlying metrics are healthy", func(t *testing.T) {
			var a, b Binary

			m := And(&a, &b)
			if !assert.True(t, m.Healthy(context.Background())) {
				return
			}
		})
	})
}

func TestOrMetric_Healthy(t *testing.T) {
	t.Run("will report healthy", func(t *testing.T) {
		t.Run("if any underlying metric is healthy", func(t *testing.T) {
			var a, b Binary
			b.Toggle()

			m := Or(&a, &b)
			if !assert.True(t, m.Healthy(context.Background())) {
				return
			}
		})
	})

	t.Run("will report unhealthy", func(t *testing.T) {
		t.Run("if all underlying metrics are unhealthy", func(t *testing.T) {
			var a, b Binary
			a.Toggle()
			b.Toggle()

			m := Or(&a, &b)
			if !assert.False(t, m.Healthy(context.Background())) {
				return
			}
		})
	})
}

func TestNotMetric_Healthy(t *testing.T) {
	t.Run("will negate the underlying metric", func(t *testing.T) {
		t.Run("if the underlying metric is healthy", func(t *testing.T) {
			var b Binary

			m := Not(&b)
			if !assert.False(t, m.Healthy(context.Background())) {
				return
			}
		})
	})
}
