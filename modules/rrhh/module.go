package rrhh

import (
	"embed"

	"github.com/granempresa/erp-portal/modules/rrhh/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/rrhh/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/rrhh/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/mailer"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	// Mailer defaults to the configured SMTP relay, or a log-only mailer.
	Mailer      mailer.Service
	FanOutLimit int
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
	client := app.Service(backend.Registry{}).(*backend.Registry).MustGet(backend.RRHH)
	empleados := persistence.NewEmpleadoRepository(client)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewEmpleadoService(empleados),
		services.NewSolicitudService(persistence.NewSolicitudRepository(client), empleados, m.options.Mailer, app.EventPublisher()),
		services.NewEmailService(empleados, m.options.Mailer, m.options.FanOutLimit),
	)
	app.RegisterControllers(
		controllers.NewEmpleadoController(app),
		controllers.NewSolicitudController(app),
		controllers.NewEmailController(app),
	)
	return nil
}

func (m *Module) defaults() {
	if m.options.Mailer != nil && m.options.FanOutLimit > 0 {
		return
	}
	conf := configuration.Use()
	if m.options.Mailer == nil {
		m.options.Mailer = mailer.New(conf.SMTP, conf.Logger())
	}
	if m.options.FanOutLimit <= 0 {
		m.options.FanOutLimit = conf.Backends.FanOutLimit
	}
}

func (m *Module) Name() string {
	return "rrhh"
}
