package itf

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
)

var backendNames = []string{backend.Compras, backend.Inventario, backend.Logistica, backend.RRHH, backend.Ventas}

// TestContext provides a fluent API for building module test environments
type TestContext struct {
	modules  []application.Module
	services []any
	user     *session.User
}

// NewTestContext creates a new TestContext builder
func NewTestContext() *TestContext {
	return &TestContext{}
}

// WithModules adds modules to the test context
func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

// WithServices registers services before the modules, so modules pick them up
// instead of building their own.
func (tc *TestContext) WithServices(services ...any) *TestContext {
	tc.services = append(tc.services, services...)
	return tc
}

// WithUser sets the user every request is made as
func (tc *TestContext) WithUser(u session.User) *TestContext {
	tc.user = &u
	return tc
}

// TestEnvironment is a wired application whose ERP backends are httptest
// servers the test programs through Backend(name).
type TestEnvironment struct {
	App      application.Application
	Router   *mux.Router
	Registry *backend.Registry
	Authz    *authz.Service
	Events   *EventRecorder
	User     *session.User

	backends map[string]*mux.Router
}

// Build creates the environment with all dependencies
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &TestEnvironment{
		Events:   &EventRecorder{},
		User:     tc.user,
		backends: make(map[string]*mux.Router, len(backendNames)),
	}

	clients := make([]*backend.Client, 0, len(backendNames))
	for _, name := range backendNames {
		r := mux.NewRouter()
		srv := httptest.NewServer(r)
		tb.Cleanup(srv.Close)
		env.backends[name] = r
		clients = append(clients, backend.MustNew(backend.Options{
			Name:         name,
			BaseURL:      srv.URL,
			Timeout:      5 * time.Second,
			Logger:       logger,
			DataEnvelope: true,
		}))
	}
	env.Registry = backend.NewRegistry(clients...)

	svc, err := authz.NewService(authz.Config{
		ModelPath:    RepoPath(tb, "config", "access", "model.conf"),
		PolicyPath:   RepoPath(tb, "config", "access", "policy.csv"),
		FlagProvider: authz.StaticFlagProvider(authz.ModeEnforce),
		Logger:       logger,
	})
	if err != nil {
		tb.Fatal(err)
	}
	env.Authz = svc

	bus := eventbus.NewEventPublisher(logger)
	bus.Subscribe(env.Events.Record)
	app := application.New(&application.ApplicationOptions{
		EventBus: bus,
		Logger:   logger,
	})
	app.RegisterServices(env.Registry, env.Authz)
	app.RegisterServices(tc.services...)
	for _, m := range tc.modules {
		if err := m.Register(app); err != nil {
			tb.Fatalf("register module %s: %v", m.Name(), err)
		}
	}
	env.App = app

	router := mux.NewRouter()
	router.Use(env.provideUser(logger))
	for _, c := range app.Controllers() {
		c.Register(router)
	}
	env.Router = router
	return env
}

// Backend returns the router standing in for the named ERP backend.
func (env *TestEnvironment) Backend(name string) *mux.Router {
	r, ok := env.backends[name]
	if !ok {
		panic("itf: unknown backend " + name)
	}
	return r
}

// Anonymous drops the session for the following requests.
func (env *TestEnvironment) Anonymous() *TestEnvironment {
	env.User = nil
	return env
}

// As switches the session user.
func (env *TestEnvironment) As(u session.User) *TestEnvironment {
	env.User = &u
	return env
}

func (env *TestEnvironment) provideUser(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := composables.WithLogger(r.Context(), logrus.NewEntry(logger))
			if env.User != nil {
				ctx = composables.WithSession(ctx, &session.Session{
					ID:        "itf",
					Token:     "itf-token",
					User:      *env.User,
					ExpiresAt: time.Now().Add(time.Hour),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
