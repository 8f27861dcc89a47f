package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/configuration"
)

func TestRegistry_PingAll(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	reg := NewRegistry(
		MustNew(Options{Name: Ventas, BaseURL: up.URL}),
		MustNew(Options{Name: Compras, BaseURL: down.URL}),
	)
	assert.Equal(t, []string{Compras, Ventas}, reg.Names())

	statuses := reg.PingAll(context.Background())
	require.Len(t, statuses, 2)
	assert.Equal(t, Compras, statuses[0].Name)
	assert.False(t, statuses[0].OK)
	assert.NotEmpty(t, statuses[0].Error)
	assert.True(t, statuses[1].OK)

	_, ok := reg.Get("bodega")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.MustGet("bodega") })
}

func TestRegistryFromConfig(t *testing.T) {
	reg, err := RegistryFromConfig(configuration.BackendOptions{
		ComprasURL:    "http://compras.local",
		InventarioURL: "http://inventario.local",
		LogisticaURL:  "http://logistica.local",
		RRHHURL:       "http://rrhh.local",
		VentasURL:     "http://ventas.local",
		Timeout:       time.Second,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{Compras, Inventario, Logistica, RRHH, Ventas}, reg.Names())
	assert.Equal(t, "http://rrhh.local", reg.MustGet(RRHH).BaseURL())
}
