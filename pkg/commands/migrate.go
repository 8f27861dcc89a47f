package commands

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/commands/common"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate applies, rolls back or reports the goose migrations of mods.
func Migrate(ctx context.Context, conf *configuration.Configuration, op string, mods ...application.Module) error {
	if !conf.Database.Enabled {
		return errors.Wrap(application.ErrNoDatabase, "set DB_ENABLED=true to run migrations")
	}
	env, err := common.NewApplication(ctx, conf, nil, mods...)
	if err != nil {
		return err
	}
	defer env.Close()

	m := env.App.Migrations()
	switch op {
	case MigrateUp:
		err = m.Run(ctx)
	case MigrateDown:
		err = m.Rollback(ctx)
	case MigrateStatus:
		err = m.Status(ctx)
	default:
		return errors.Errorf("unknown migrate command %q", op)
	}
	if err != nil {
		return errors.Wrapf(err, "migrate %s", op)
	}
	env.Logger.WithField("op", op).Info("migrations done")
	return nil
}
