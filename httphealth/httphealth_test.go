// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httphealth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/coursecatalog/health"

	"github.com/stretchr/testify/assert"
)

func TestNewHandler(t *testing.T) {
	t.Run("will return HTTP 200", func(t *testing.T) {
		t.Run("if the metric is healthy", func(t *testing.T) {
			h := NewHandler(&health.Binary{})

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

			if !assert.Equal(t, http.StatusOK, w.Result().StatusCode) {
				return
			}
		})
	})

	t.Run("will return HTTP 503", func(t *testing.T) {
		t.Run("if the metric is unhealthy", func(t *testing.T) {
			var m health.Binary
			m.Toggle()
			h := NewHandler(&m)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

			if !assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode) {
				return
			}
		})
	})
}
