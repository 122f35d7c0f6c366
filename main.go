// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/z5labs/coursecatalog/app"
	"github.com/z5labs/coursecatalog/audit"
	"github.com/z5labs/coursecatalog/catalog"
	"github.com/z5labs/coursecatalog/catalog/filestore"
	"github.com/z5labs/coursecatalog/catalog/sqlitestore"
	"github.com/z5labs/coursecatalog/collectorwatch"
	"github.com/z5labs/coursecatalog/config"
	"github.com/z5labs/coursecatalog/health"
	"github.com/z5labs/coursecatalog/httpclient"
	"github.com/z5labs/coursecatalog/httpserver"
	"github.com/z5labs/coursecatalog/httpvalidate"
	"github.com/z5labs/coursecatalog/jaeger"
	"github.com/z5labs/coursecatalog/lifecycle"
	"github.com/z5labs/coursecatalog/otelconfig"
	"github.com/z5labs/coursecatalog/otelslog"
	"github.com/z5labs/coursecatalog/web"

	"go.uber.org/zap"
)

//go:embed config.yaml
var configBytes []byte

func main() {
	a := app.New(
		app.Name("coursecatalog"),
		app.Config(config.FromYaml(
			config.RenderTextTemplate(
				bytes.NewReader(configBytes),
				config.TemplateFunc("env", os.Getenv),
				config.TemplateFunc("default", defaultString),
			),
		)),
		app.Hooks(lifecycle.ManageOTel(initTracing)),
		app.WithRuntimeBuilderFunc(initRuntime),
	)

	err := a.Run(os.Args[1:]...)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func defaultString(def, s string) string {
	if s == "" {
		return def
	}
	return s
}

type appConfig struct {
	Logging struct {
		Level slog.Level `config:"level"`
	} `config:"logging"`

	OTel struct {
		ServiceName string `config:"serviceName"`

		OTLP struct {
			Target string `config:"target"`
		} `config:"otlp"`
	} `config:"otel"`

	HTTP struct {
		Host string `config:"host"`
		Port uint   `config:"port"`
	} `config:"http"`

	Storage struct {
		Backend string `config:"backend"`

		File struct {
			Path string `config:"path"`
		} `config:"file"`

		Sqlite struct {
			DSN string `config:"dsn"`
		} `config:"sqlite"`
	} `config:"storage"`

	Audit struct {
		Path string `config:"path"`
	} `config:"audit"`

	Jaeger struct {
		URL      string        `config:"url"`
		Interval time.Duration `config:"interval"`
	} `config:"jaeger"`
}

func initTracing(ctx context.Context) (otelconfig.Initializer, error) {
	var cfg appConfig
	err := app.ConfigFromContext(ctx).Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// without a collector target, spans are written to stdout instead
	// of being silently dropped
	if cfg.OTel.OTLP.Target == "" {
		return otelconfig.Local(
			otelconfig.ServiceName(cfg.OTel.ServiceName),
		), nil
	}

	return otelconfig.OTLP(
		otelconfig.ServiceName(cfg.OTel.ServiceName),
		otelconfig.OTLPTarget(cfg.OTel.OTLP.Target),
	), nil
}

// UnknownStorageBackendError occurs when storage.backend is set to an
// unsupported value.
type UnknownStorageBackendError struct {
	Backend string
}

// Error implements the [builtin.error] interface.
func (e UnknownStorageBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s", e.Backend)
}

func initRuntime(ctx context.Context) (app.Runtime, error) {
	var cfg appConfig
	err := app.ConfigFromContext(ctx).Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	logHandler := otelslog.NewHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.Level,
	}))
	life := app.LifecycleFromContext(ctx)

	store, err := initStore(ctx, cfg, logHandler, life)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan catalog.Event, 64)
	svc := catalog.NewService(
		store,
		catalog.LogHandler(logHandler),
		catalog.PublishEvents(eventCh),
	)

	webHandler, err := web.NewHandler(svc, web.LogHandler(logHandler))
	if err != nil {
		return nil, err
	}

	auditLog := audit.NewLogWriter(cfg.Audit.Path)
	life.PostRun(func(_ context.Context) error {
		return auditLog.Close()
	})

	exportPath := &health.Binary{}

	serverRuntime := httpserver.NewRuntime(
		httpserver.ListenOn(cfg.HTTP.Host, cfg.HTTP.Port),
		httpserver.LogHandler(logHandler),
		httpserver.Readiness(exportPath),
		httpserver.Handle(
			"/{$}",
			httpvalidate.Request(
				http.HandlerFunc(webHandler.Home),
				httpvalidate.ForMethods(http.MethodGet),
			),
		),
		httpserver.Handle(
			"/catalog",
			httpvalidate.Request(
				http.HandlerFunc(webHandler.Catalog),
				httpvalidate.ForMethods(http.MethodGet),
			),
		),
		httpserver.Handle(
			"/course/{code}",
			httpvalidate.Request(
				http.HandlerFunc(webHandler.CourseDetails),
				httpvalidate.ForMethods(http.MethodGet),
			),
		),
		httpserver.Handle(
			"/add_course",
			httpvalidate.Request(
				http.HandlerFunc(webHandler.AddCourse),
				httpvalidate.ForMethods(http.MethodGet, http.MethodPost),
			),
		),
		httpserver.Handle(
			"/delete_course/{code}",
			httpvalidate.Request(
				http.HandlerFunc(webHandler.DeleteCourse),
				httpvalidate.ForMethods(http.MethodPost),
			),
		),
	)

	auditRuntime := audit.Pipe[catalog.Event](
		audit.FromChannel(eventCh),
		auditLog,
		audit.LogHandler(logHandler),
		audit.MaxConcurrentProcessors(1),
	)

	watchRuntime := collectorwatch.NewRuntime(
		jaeger.NewClient(
			cfg.Jaeger.URL,
			httpclient.NewClient(
				httpclient.ClientTimeout(10*time.Second),
				httpclient.WithTransport(httpclient.RoundTripperWith(
					http.DefaultTransport,
					httpclient.CircuitBreaker(
						httpclient.CircuitName("jaeger-query"),
						httpclient.CircuitLogger(zap.Must(zap.NewProduction())),
					),
				)),
				httpclient.RetryRequests(
					httpclient.MaxAttempts(2),
				),
			),
		),
		collectorwatch.LogHandler(logHandler),
		collectorwatch.Interval(cfg.Jaeger.Interval),
		collectorwatch.ServiceName(cfg.OTel.ServiceName),
		collectorwatch.Metric(exportPath),
	)

	return app.Runtimes(serverRuntime, auditRuntime, watchRuntime), nil
}

func initStore(ctx context.Context, cfg appConfig, logHandler slog.Handler, life *app.Lifecycle) (catalog.Store, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		return filestore.New(
			cfg.Storage.File.Path,
			filestore.LogHandler(logHandler),
		), nil
	case "sqlite":
		store, err := sqlitestore.Open(ctx, cfg.Storage.Sqlite.DSN)
		if err != nil {
			return nil, err
		}
		life.PostRun(func(_ context.Context) error {
			return store.Close()
		})
		return store, nil
	default:
		return nil, UnknownStorageBackendError{Backend: cfg.Storage.Backend}
	}
}
