package ventas

import (
	"embed"

	"github.com/granempresa/erp-portal/modules/ventas/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/ventas/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/ventas/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	// Pricing defaults to IVA_RATE and CURRENCY.
	Pricing *services.Pricing
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
	if m.options.Pricing == nil {
		conf := configuration.Use()
		m.options.Pricing = &services.Pricing{IVA: conf.Business.IVA(), Currency: conf.Business.Currency}
	}
	registry := app.Service(backend.Registry{}).(*backend.Registry)
	client := registry.MustGet(backend.Ventas)
	clientes := persistence.NewClienteRepository(client)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewClienteService(clientes, app.EventPublisher()),
		services.NewVentaService(
			persistence.NewVentaRepository(client),
			clientes,
			persistence.NewDespachoGateway(registry.MustGet(backend.Logistica)),
			app.EventPublisher(),
			*m.options.Pricing,
		),
	)
	// /api/ventas/clientes must be matched before /api/ventas/{id}.
	app.RegisterControllers(
		controllers.NewClienteController(app),
		controllers.NewVentaController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "ventas"
}
