// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Run("will merge sources", func(t *testing.T) {
		t.Run("if multiple sources are given", func(t *testing.T) {
			m, err := Read(
				FromYaml(strings.NewReader(`
hello: world
a: 1
`)),
				FromYaml(strings.NewReader(`
hello: bob
`)),
			)
			require.Nil(t, err)

			var cfg struct {
				Hello string `config:"hello"`
				A     int    `config:"a"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "bob", cfg.Hello) {
				return
			}
			if !assert.Equal(t, 1, cfg.A) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a source contains invalid yaml", func(t *testing.T) {
			_, err := Read(FromYaml(strings.NewReader(`{hello`)))

			var invalid InvalidYamlError
			if !assert.ErrorAs(t, err, &invalid) {
				return
			}
		})

		t.Run("if a source contains invalid json", func(t *testing.T) {
			_, err := Read(FromJson(strings.NewReader(`{hello`)))

			var invalid InvalidJsonError
			if !assert.ErrorAs(t, err, &invalid) {
				return
			}
		})
	})
}

func TestManager_Unmarshal(t *testing.T) {
	t.Run("will decode a time.Duration", func(t *testing.T) {
		t.Run("if the config value is a duration string", func(t *testing.T) {
			m, err := Read(FromYaml(strings.NewReader(`timeout: 30s`)))
			require.Nil(t, err)

			var cfg struct {
				Timeout time.Duration `config:"timeout"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 30*time.Second, cfg.Timeout) {
				return
			}
		})

		t.Run("if the config value is an int", func(t *testing.T) {
			m, err := Read(FromYaml(strings.NewReader(`timeout: 1000`)))
			require.Nil(t, err)

			var cfg struct {
				Timeout time.Duration `config:"timeout"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, time.Duration(1000), cfg.Timeout) {
				return
			}
		})
	})

	t.Run("will decode via encoding.TextUnmarshaler", func(t *testing.T) {
		t.Run("if the target type implements it", func(t *testing.T) {
			m, err := Read(FromYaml(strings.NewReader(`level: WARN`)))
			require.Nil(t, err)

			var cfg struct {
				Level slog.Level `config:"level"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, slog.LevelWarn, cfg.Level) {
				return
			}
		})
	})

	t.Run("will decode nested structs", func(t *testing.T) {
		t.Run("if the yaml is nested", func(t *testing.T) {
			m, err := Read(FromYaml(strings.NewReader(`
http:
  host: 127.0.0.1
  port: 5000
`)))
			require.Nil(t, err)

			var cfg struct {
				HTTP struct {
					Host string `config:"host"`
					Port uint   `config:"port"`
				} `config:"http"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "127.0.0.1", cfg.HTTP.Host) {
				return
			}
			if !assert.Equal(t, uint(5000), cfg.HTTP.Port) {
				return
			}
		})
	})

	t.Run("will return a TypeCoercionError", func(t *testing.T) {
		t.Run("if the config value can not be coerced", func(t *testing.T) {
			m, err := Read(FromYaml(strings.NewReader(`timeout: "not a duration"`)))
			require.Nil(t, err)

			var cfg struct {
				Timeout time.Duration `config:"timeout"`
			}
			err = m.Unmarshal(&cfg)

			var coercion TypeCoercionError
			if !assert.ErrorAs(t, err, &coercion) {
				return
			}
		})
	})
}
