package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/internal/server"
	"github.com/granempresa/erp-portal/modules"
	"github.com/granempresa/erp-portal/modules/core"
	"github.com/granempresa/erp-portal/modules/logging"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/commands/common"
	"github.com/granempresa/erp-portal/pkg/configuration"
	pkglogging "github.com/granempresa/erp-portal/pkg/logging"
	"github.com/granempresa/erp-portal/pkg/metrics"
	"github.com/granempresa/erp-portal/pkg/session"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := pkglogging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newSessionStore(ctx, conf, logger)
	if err != nil {
		log.Fatalf("failed to create session store: %v", err)
	}

	origins := conf.AllowedOrigins()
	hub := application.NewHub(&application.HuberOptions{
		Logger: logger,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == conf.Origin || slices.Contains(origins, origin)
		},
	})
	defer hub.Close()

	env, err := common.NewApplication(ctx, conf, hub, modules.BuiltIn(
		&core.ModuleOptions{SessionStore: store},
		&logging.ModuleOptions{Disabled: !conf.ActionLogEnabled},
	)...)
	if err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	defer env.Close()
	app := env.App

	if env.Pool != nil {
		if err := app.Migrations().Run(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	app.RegisterNavItems(modules.NavLinks...)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          env.Pool,
		SessionStore:  store,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	logger.WithField("backends", strings.Join(env.Registry.Names(), ",")).Info("backends configured")
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	configuration.Use().Unload()
}

func newSessionStore(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) (session.Store, error) {
	if conf.Session.Store == "redis" {
		client, err := session.NewRedisClient(conf.RedisURL)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, conf.Session.KeyPrefix), nil
	}
	store := session.NewMemoryStore()
	go store.RunSweeper(ctx, time.Minute)
	logger.Debug("using in-memory session store")
	return store, nil
}
