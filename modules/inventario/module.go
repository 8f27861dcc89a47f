package inventario

import (
	"embed"

	"github.com/granempresa/erp-portal/modules/inventario/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/inventario/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/inventario/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	// LowStockFallback applies to products without a stock_minimo.
	LowStockFallback *int
	MaxUploadSize    int64
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
	client := app.Service(backend.Registry{}).(*backend.Registry).MustGet(backend.Inventario)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewProductoService(
			persistence.NewProductoRepository(client),
			app.EventPublisher(),
			*m.options.LowStockFallback,
		),
		services.NewMovimientoService(persistence.NewMovimientoRepository(client)),
	)
	app.RegisterControllers(
		controllers.NewProductoController(app, m.options.MaxUploadSize),
		controllers.NewMovimientoController(app),
	)
	return nil
}

func (m *Module) defaults() {
	if m.options.LowStockFallback != nil && m.options.MaxUploadSize > 0 {
		return
	}
	conf := configuration.Use()
	if m.options.LowStockFallback == nil {
		fallback := conf.Business.LowStockFallback
		m.options.LowStockFallback = &fallback
	}
	if m.options.MaxUploadSize <= 0 {
		m.options.MaxUploadSize = conf.MaxUploadSize
	}
}

func (m *Module) Name() string {
	return "inventario"
}
