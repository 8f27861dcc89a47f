package application

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/types"
)

//go:embed testdata/locales/*.toml
var testLocales embed.FS

type fakeController struct{ key string }

func (c *fakeController) Register(r *mux.Router) {}
func (c *fakeController) Key() string             { return c.key }

type pricingService struct{ rate string }

func TestApplication_Registry(t *testing.T) {
	app := New(&ApplicationOptions{})

	app.RegisterControllers(&fakeController{key: "/api/ventas"}, &fakeController{key: "/api/compras"})
	app.RegisterControllers(&fakeController{key: "/api/compras"}, &fakeController{key: "/api/ventas/clientes"})
	keys := []string{}
	for _, c := range app.Controllers() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"/api/ventas/clientes", "/api/ventas", "/api/compras"}, keys)

	svc := &pricingService{rate: "0.19"}
	app.RegisterServices(svc)
	assert.Same(t, svc, app.Service(pricingService{}).(*pricingService))
	assert.Panics(t, func() { app.Service(fakeController{}) })

	app.RegisterNavItems(types.NavigationItem{Name: "NavigationLinks.Compras", Href: "/compras"})
	assert.Len(t, app.NavItems(), 1)
	assert.Equal(t, []string{"es", "en"}, app.GetSupportedLanguages())
	assert.NotNil(t, app.EventPublisher())
	assert.Nil(t, app.DB())
}

func TestApplication_RegisterLocaleFiles(t *testing.T) {
	app := New(&ApplicationOptions{})
	app.RegisterLocaleFiles(&testLocales)

	es := i18n.NewLocalizer(app.Bundle(), "es")
	en := i18n.NewLocalizer(app.Bundle(), "en")
	assert.Equal(t, "Compras", es.MustLocalize(&i18n.LocalizeConfig{MessageID: "NavigationLinks.Compras"}))
	assert.Equal(t, "Purchasing", en.MustLocalize(&i18n.LocalizeConfig{MessageID: "NavigationLinks.Compras"}))
}

func TestMigrationManager_WithoutDatabase(t *testing.T) {
	m := NewMigrationManager(nil)
	assert.ErrorIs(t, m.Run(context.Background()), ErrNoDatabase)
}

func TestMergedFS_ReadDir(t *testing.T) {
	a := fstest.MapFS{"migrations/00002_b.sql": {Data: []byte("b")}}
	b := fstest.MapFS{"migrations/00001_a.sql": {Data: []byte("a")}}
	merged := mergedFS{a, b}

	entries, err := fs.ReadDir(merged, MigrationDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_a.sql", entries[0].Name())

	matches, err := fs.Glob(merged, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	data, err := fs.ReadFile(merged, "migrations/00001_a.sql")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = fs.ReadDir(merged, "missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

type stockEvent struct {
	eventbus.Metadata
	SKU string `json:"sku"`
}

func (e *stockEvent) EventType() string { return "inventario.stock_ajustado" }

func TestHub_PublishEventReachesAuthenticatedClients(t *testing.T) {
	hub := NewHub(&HuberOptions{})
	defer hub.Close()
	withSession := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("anon") != "" {
			hub.ServeHTTP(w, r)
			return
		}
		s := &session.Session{ID: "s1", User: session.User{ID: "9", Roles: []string{"bodega"}}}
		hub.ServeHTTP(w, r.WithContext(composables.WithSession(r.Context(), s)))
	})
	srv := httptest.NewServer(withSession)
	defer srv.Close()

	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool {
		count := 0
		_ = hub.ForEach(ChannelForUser("9"), func(conn Connection) error {
			count++
			assert.Equal(t, "9", conn.User().ID)
			return nil
		})
		return count == 1
	}, time.Second, 10*time.Millisecond)

	bus := eventbus.NewEventPublisher(nil)
	bus.Subscribe(hub.PublishEvent)
	bus.Publish(&stockEvent{Metadata: eventbus.NewMetadata("9", "inventario", "update", "P-1"), SKU: "P-1"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "inventario.stock_ajustado", msg.Type)
	assert.Contains(t, string(msg.Payload), `"sku":"P-1"`)
	assert.Contains(t, string(msg.Payload), `"module":"inventario"`)

	anon, _, err := websocket.DefaultDialer.Dial(u+"?anon=1", nil)
	require.NoError(t, err)
	defer anon.Close()
	require.NoError(t, anon.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = anon.ReadMessage()
	assert.Error(t, err)
}
