// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextTemplateRenderer_Read(t *testing.T) {
	t.Run("will render template funcs", func(t *testing.T) {
		t.Run("if a func is registered", func(t *testing.T) {
			r := RenderTextTemplate(
				strings.NewReader(`hello: {{env "COURSECATALOG_TEST_VALUE"}}`),
				TemplateFunc("env", func(key string) string {
					if key != "COURSECATALOG_TEST_VALUE" {
						return ""
					}
					return "world"
				}),
			)

			b, err := io.ReadAll(r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "hello: world", string(b)) {
				return
			}
		})

		t.Run("if funcs are piped together", func(t *testing.T) {
			r := RenderTextTemplate(
				strings.NewReader(`target: {{env "UNSET" | default "localhost:4317"}}`),
				TemplateFunc("env", func(string) string { return "" }),
				TemplateFunc("default", func(def, s string) string {
					if s == "" {
						return def
					}
					return s
				}),
			)

			b, err := io.ReadAll(r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "target: localhost:4317", string(b)) {
				return
			}
		})
	})

	t.Run("will respect custom delimiters", func(t *testing.T) {
		t.Run("if TemplateDelims is used", func(t *testing.T) {
			r := RenderTextTemplate(
				strings.NewReader(`hello: [[greet]]`),
				TemplateDelims("[[", "]]"),
				TemplateFunc("greet", func() string { return "bob" }),
			)

			b, err := io.ReadAll(r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "hello: bob", string(b)) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the template can not be parsed", func(t *testing.T) {
			r := RenderTextTemplate(strings.NewReader(`hello: {{env`))

			_, err := io.ReadAll(r)

			var parseErr TextTemplateParseError
			if !assert.ErrorAs(t, err, &parseErr) {
				return
			}
		})

		t.Run("if a template func fails", func(t *testing.T) {
			r := RenderTextTemplate(
				strings.NewReader(`hello: {{fail}}`),
				TemplateFunc("fail", func() (string, error) {
					return "", assert.AnError
				}),
			)

			_, err := io.ReadAll(r)

			var execErr TextTemplateExecError
			if !assert.ErrorAs(t, err, &execErr) {
				return
			}
		})
	})
}

func TestFileReader(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			r := NewFileReader(fstest.MapFS{}, "does_not_exist.yaml")

			_, err := io.ReadAll(r)
			if !assert.Error(t, err) {
				return
			}
		})
	})

	t.Run("will read the file contents", func(t *testing.T) {
		t.Run("if the file exists", func(t *testing.T) {
			r := NewFileReader(fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte("hello: world")},
			}, "config.yaml")
			defer r.Close()

			b, err := io.ReadAll(r)
			require.Nil(t, err)
			if !assert.Equal(t, "hello: world", string(b)) {
				return
			}
		})
	})
}
