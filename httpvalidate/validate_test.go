// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpvalidate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMethods(t *testing.T) {
	t.Run("will return HTTP 405", func(t *testing.T) {
		t.Run("if the request method is not one of the given", func(t *testing.T) {
			h := Request(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
				ForMethods(http.MethodGet),
			)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

			if !assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode) {
				return
			}
		})
	})

	t.Run("will pass the request to the base handler", func(t *testing.T) {
		t.Run("if the request method is one of the given", func(t *testing.T) {
			var called bool
			h := Request(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					called = true
				}),
				ForMethods(http.MethodGet, http.MethodPost),
			)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

			if !assert.True(t, called) {
				return
			}
		})
	})

	t.Run("will stop at the first failing validator", func(t *testing.T) {
		t.Run("if multiple validators are registered", func(t *testing.T) {
			var secondRan bool
			h := Request(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
				ForMethods(http.MethodGet),
				ValidatorFunc(func(w http.ResponseWriter, r *http.Request) bool {
					secondRan = true
					return true
				}),
			)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

			if !assert.False(t, secondRan) {
				return
			}
		})
	})
}
