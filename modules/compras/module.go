package compras

import (
	"embed"
	"time"

	"github.com/granempresa/erp-portal/modules/compras/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/compras/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/compras/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	// Pricing defaults to IVA_RATE and CURRENCY.
	Pricing     *services.Pricing
	FanOutLimit int
	CatalogTTL  time.Duration
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
	client := app.Service(backend.Registry{}).(*backend.Registry).MustGet(backend.Compras)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewOrdenService(
			persistence.NewOrdenRepository(client),
			app.EventPublisher(),
			*m.options.Pricing,
			m.options.FanOutLimit,
		),
		services.NewProveedorService(
			persistence.NewProveedorRepository(client),
			m.options.CatalogTTL,
			m.options.FanOutLimit,
		),
	)
	app.RegisterControllers(
		controllers.NewOrdenController(app),
		controllers.NewProveedorController(app),
		controllers.NewCotizacionController(app),
	)
	return nil
}

func (m *Module) defaults() {
	if m.options.Pricing != nil && m.options.FanOutLimit > 0 && m.options.CatalogTTL > 0 {
		return
	}
	conf := configuration.Use()
	if m.options.Pricing == nil {
		m.options.Pricing = &services.Pricing{
			IVA:      conf.Business.IVA(),
			Currency: conf.Business.Currency,
		}
	}
	if m.options.FanOutLimit <= 0 {
		m.options.FanOutLimit = conf.Backends.FanOutLimit
	}
	if m.options.CatalogTTL <= 0 {
		m.options.CatalogTTL = conf.Backends.CatalogTTL
	}
}

func (m *Module) Name() string {
	return "compras"
}
