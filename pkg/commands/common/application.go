// Package common wires the pieces every entrypoint needs: database pool,
// backend clients, authorization and the application with its modules.
package common

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
)

// Env is a loaded application plus the resources it holds.
type Env struct {
	App      application.Application
	Pool     *pgxpool.Pool
	Registry *backend.Registry
	Authz    *authz.Service
	Logger   *logrus.Logger
}

func (e *Env) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
}

// OpenPool connects to PostgreSQL when DB_ENABLED is set and returns nil otherwise.
func OpenPool(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	if !conf.Database.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return pool, nil
}

// NewApplication builds the application and registers mods on it.
func NewApplication(ctx context.Context, conf *configuration.Configuration, huber application.Huber, mods ...application.Module) (*Env, error) {
	logger := conf.Logger()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	listing.SetLimits(listing.Limits{Default: conf.PageSize, Max: conf.MaxPageSize})

	pool, err := OpenPool(ctx, conf)
	if err != nil {
		return nil, err
	}
	env := &Env{Pool: pool, Logger: logger}

	env.Registry, err = backend.RegistryFromConfig(conf.Backends, logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Authz, err = authz.NewService(authz.ConfigFrom(conf))
	if err != nil {
		env.Close()
		return nil, err
	}

	bus := eventbus.NewEventPublisher(logger)
	if huber != nil {
		bus.Subscribe(huber.PublishEvent)
	}
	env.App = application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: bus,
		Logger:   logger,
		Huber:    huber,
	})
	env.App.RegisterServices(env.Registry, env.Authz)
	for _, m := range mods {
		if err := m.Register(env.App); err != nil {
			env.Close()
			return nil, errors.Wrapf(err, "register module %s", m.Name())
		}
	}
	return env, nil
}
