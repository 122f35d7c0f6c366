// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/z5labs/coursecatalog/health"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestRuntime_Run(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if it fails to listen", func(t *testing.T) {
			listenErr := errors.New("failed to listen")
			rt := NewRuntime(
				ListenOn("127.0.0.1", 0),
			)
			rt.listen = func(network, addr string) (net.Listener, error) {
				return nil, listenErr
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := rt.Run(ctx)
			if !assert.Equal(t, listenErr, err) {
				return
			}
		})
	})

	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if the context is cancelled", func(t *testing.T) {
			rt := NewRuntime(
				ListenOn("127.0.0.1", 0),
			)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := rt.Run(ctx)
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

func TestStarted(t *testing.T) {
	t.Run("will return 200", func(t *testing.T) {
		t.Run("if the server has started serving", func(t *testing.T) {
			addrCh := make(chan net.Addr)
			rt := NewRuntime(
				ListenOn("127.0.0.1", 0),
			)
			rt.listen = func(network, addr string) (net.Listener, error) {
				defer close(addrCh)
				ls, err := net.Listen(network, addr)
				if err != nil {
					return nil, err
				}
				addrCh <- ls.Addr()
				return ls, nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var statusCode int
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return rt.Run(gctx)
			})
			g.Go(func() error {
				defer cancel()

				addr := <-addrCh
				if addr == nil {
					return nil
				}
				<-time.After(500 * time.Millisecond)

				resp, err := http.Get(fmt.Sprintf("http://%s/health/startup", addr))
				if err != nil {
					return err
				}
				defer resp.Body.Close()

				statusCode = resp.StatusCode
				return nil
			})

			err := g.Wait()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, http.StatusOK, statusCode) {
				return
			}
		})
	})
}

func TestNewRuntime(t *testing.T) {
	t.Run("will register health endpoints", func(t *testing.T) {
		t.Run("if no options are given", func(t *testing.T) {
			rt := NewRuntime()

			for _, path := range []string{"/health/liveness", "/health/readiness"} {
				w := httptest.NewRecorder()
				rt.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

				if !assert.Equal(t, http.StatusOK, w.Result().StatusCode, path) {
					return
				}
			}

			// the server has not started serving yet
			w := httptest.NewRecorder()
			rt.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/startup", nil))

			if !assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode) {
				return
			}
		})

		t.Run("which only support GET requests", func(t *testing.T) {
			rt := NewRuntime()

			w := httptest.NewRecorder()
			rt.h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health/readiness", nil))

			if !assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode) {
				return
			}
		})
	})

	t.Run("will report readiness from the configured metric", func(t *testing.T) {
		t.Run("if the metric is unhealthy", func(t *testing.T) {
			var m health.Binary
			m.Toggle()

			rt := NewRuntime(
				Readiness(&m),
			)

			w := httptest.NewRecorder()
			rt.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

			if !assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode) {
				return
			}
		})
	})

	t.Run("will register custom endpoints", func(t *testing.T) {
		t.Run("if Handle is used", func(t *testing.T) {
			rt := NewRuntime(
				Handle("/catalog", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusTeapot)
				})),
			)

			w := httptest.NewRecorder()
			rt.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog", nil))

			if !assert.Equal(t, http.StatusTeapot, w.Result().StatusCode) {
				return
			}
		})
	})
}
