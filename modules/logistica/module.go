package logistica

import (
	"embed"

	"github.com/granempresa/erp-portal/modules/logistica/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/logistica/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/logistica/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	client := app.Service(backend.Registry{}).(*backend.Registry).MustGet(backend.Logistica)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewOrdenTrabajoService(persistence.NewOrdenTrabajoRepository(client), app.EventPublisher()),
		services.NewPickingService(persistence.NewPickingRepository(client), app.EventPublisher()),
		services.NewGuiaService(persistence.NewGuiaRepository(client), app.EventPublisher()),
		services.NewAutomatizacionService(persistence.NewAutomatizacionRepository(client), app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewOrdenTrabajoController(app),
		controllers.NewPickingController(app),
		controllers.NewGuiaController(app),
		controllers.NewAutomatizacionController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "logistica"
}
