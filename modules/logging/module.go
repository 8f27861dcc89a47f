package logging

import (
	"embed"

	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/modules/logging/handlers"
	"github.com/granempresa/erp-portal/modules/logging/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/logging/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/logging/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed migrations/*.sql
var MigrationFiles embed.FS

type ModuleOptions struct {
	// ActionLogs and AuthLogs default to PostgreSQL when the application has
	// a pool and to in-memory rings otherwise.
	ActionLogs actionlog.Repository
	AuthLogs   authenticationlog.Repository
	MemorySize int
	// Disabled stops events from being recorded; the listings stay available.
	Disabled bool
	Logger   *logrus.Logger
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	m.defaults()
	opts := m.options

	if app.DB() != nil {
		app.RegisterMigrationDirs(&MigrationFiles)
		if opts.ActionLogs == nil {
			opts.ActionLogs = persistence.NewActionLogRepository()
		}
		if opts.AuthLogs == nil {
			opts.AuthLogs = persistence.NewAuthenticationLogRepository()
		}
	}
	if opts.ActionLogs == nil {
		opts.ActionLogs = persistence.NewMemoryActionLogRepository(opts.MemorySize)
	}
	if opts.AuthLogs == nil {
		opts.AuthLogs = persistence.NewMemoryAuthenticationLogRepository(opts.MemorySize)
	}

	logsService := services.NewLogsService(opts.AuthLogs, opts.ActionLogs)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(logsService)
	app.RegisterControllers(
		controllers.NewLogsController(app),
	)
	if !opts.Disabled {
		handlers.NewEventsHandler(app.DB(), logsService, opts.Logger).Register(app.EventPublisher())
	}
	return nil
}

func (m *Module) defaults() {
	if m.options.MemorySize > 0 && m.options.Logger != nil {
		return
	}
	conf := configuration.Use()
	if m.options.MemorySize <= 0 {
		m.options.MemorySize = conf.ActionLogBuffer
	}
	if m.options.Logger == nil {
		m.options.Logger = conf.Logger()
	}
}

func (m *Module) Name() string {
	return "logging"
}
