package core

import (
	"embed"
	"time"

	"github.com/granempresa/erp-portal/modules/core/infrastructure/persistence"
	"github.com/granempresa/erp-portal/modules/core/presentation/controllers"
	"github.com/granempresa/erp-portal/modules/core/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/session"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	// SessionStore must be the store the session middleware reads from.
	SessionStore  session.Store
	SessionTTL    time.Duration
	CookieKey     string
	SecureCookie  bool
	LoginAttempts int
	RealIPHeader  string
	HealthTimeout time.Duration
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
	registry := app.Service(backend.Registry{}).(*backend.Registry)
	authzService := app.Service(authz.Service{}).(*authz.Service)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewSessionService(
			persistence.NewAuthGateway(registry.MustGet(backend.RRHH)),
			m.options.SessionStore,
			m.options.SessionTTL,
			app.EventPublisher(),
		),
		services.NewNavigationService(authzService, app.NavItems),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app, controllers.AuthControllerOptions{
			CookieKey:     m.options.CookieKey,
			SecureCookie:  m.options.SecureCookie,
			LoginAttempts: m.options.LoginAttempts,
			RealIPHeader:  m.options.RealIPHeader,
		}),
		controllers.NewNavigationController(app),
		controllers.NewHealthController(app, m.options.HealthTimeout),
		controllers.NewWebSocketController(app),
	)
	return nil
}

func (m *Module) defaults() {
	o := m.options
	if o.SessionStore != nil && o.SessionTTL > 0 && o.CookieKey != "" && o.HealthTimeout > 0 {
		return
	}
	conf := configuration.Use()
	if o.SessionStore == nil {
		o.SessionStore = session.NewMemoryStore()
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = conf.Session.Duration
	}
	if o.CookieKey == "" {
		o.CookieKey = conf.Session.SidCookieKey
		o.SecureCookie = conf.GoAppEnvironment == configuration.Production
	}
	if o.LoginAttempts == 0 {
		o.LoginAttempts = conf.Session.LoginAttempts
	}
	if o.RealIPHeader == "" {
		o.RealIPHeader = conf.RealIPHeader
	}
	if o.HealthTimeout <= 0 {
		o.HealthTimeout = conf.Backends.Timeout
	}
}

func (m *Module) Name() string {
	return "core"
}
