package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/inventario"
	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/movimiento"
	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/producto"
	"github.com/granempresa/erp-portal/modules/inventario/services"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/listing"
)

type fakeInventario struct {
	mu      sync.Mutex
	stock   map[string]int
	patches []producto.Ajuste
}

func setup(t *testing.T) (*itf.TestEnvironment, *fakeInventario) {
	t.Helper()
	fallback := 5
	env := itf.NewTestContext().
		WithModules(inventario.NewModule(&inventario.ModuleOptions{
			LowStockFallback: &fallback,
			MaxUploadSize:    1 << 16,
		})).
		WithUser(itf.Bodeguero).
		Build(t)

	fake := &fakeInventario{stock: map[string]int{"1": 3, "2": 40}}
	render := func(id string) map[string]any {
		names := map[string][2]string{"1": {"TOR-01", "Tornillo"}, "2": {"CLA-02", "Clavo"}}
		return map[string]any{"id": id, "sku": names[id][0], "nombre": names[id][1], "stock": fake.stock[id], "precio": "150"}
	}
	api := env.Backend(backend.Inventario)
	api.HandleFunc("/productos", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		itf.JSON(w, http.StatusOK, map[string]any{"data": []map[string]any{render("1"), render("2")}})
	}).Methods(http.MethodGet)
	api.HandleFunc("/productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		id := mux.Vars(r)["id"]
		if _, ok := fake.stock[id]; !ok {
			itf.JSON(w, http.StatusNotFound, map[string]string{"message": "no existe"})
			return
		}
		itf.JSON(w, http.StatusOK, render(id))
	}).Methods(http.MethodGet)
	api.HandleFunc("/productos/{id}/stock", func(w http.ResponseWriter, r *http.Request) {
		a := itf.ReadJSON[producto.Ajuste](r)
		fake.mu.Lock()
		defer fake.mu.Unlock()
		id := mux.Vars(r)["id"]
		fake.patches = append(fake.patches, a)
		next, err := a.Apply(fake.stock[id])
		if err != nil {
			itf.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
			return
		}
		fake.stock[id] = next
		itf.JSON(w, http.StatusOK, render(id))
	}).Methods(http.MethodPatch)
	api.HandleFunc("/movimientos", func(w http.ResponseWriter, r *http.Request) {
		itf.JSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "producto_id": 1, "tipo": "ENTRADA", "cantidad": 5, "fecha": "2024-05-01T09:00:00"},
			{"id": 2, "producto_id": 2, "tipo": "SALIDA", "cantidad": 1, "fecha": "2024-05-02T09:00:00"},
		})
	}).Methods(http.MethodGet)
	return env, fake
}

func upload(t *testing.T, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "movimientos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/inventario/importar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProductoController_List(t *testing.T) {
	env, _ := setup(t)

	rec := env.Do(t, http.MethodGet, "/api/inventario/productos?bajo_stock=true", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := itf.Decode[listing.Page[producto.Producto]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "TOR-01", page.Data[0].SKU)

	rec = env.Do(t, http.MethodGet, "/api/inventario/productos?sort=precio", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(t, http.MethodGet, "/api/inventario/productos/export.xlsx", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.Do(t, http.MethodGet, "/api/inventario/alertas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	alertas := itf.Decode[[]services.Alerta](t, rec)
	require.Len(t, alertas, 1)
	assert.Equal(t, 2, alertas[0].Deficit)
}

func TestProductoController_AjustarStock(t *testing.T) {
	env, fake := setup(t)

	rec := env.Do(t, http.MethodPatch, "/api/inventario/productos/2/stock", map[string]any{"tipo": "SALIDA", "cantidad": 15, "motivo": "despacho"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := itf.Decode[producto.Producto](t, rec)
	assert.Equal(t, 25, p.Stock)
	assert.Equal(t, []string{producto.StockAjustadoEventType}, env.Events.Types())

	rec = env.Do(t, http.MethodPatch, "/api/inventario/productos/1/stock", map[string]any{"tipo": "SALIDA", "cantidad": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, fake.patches, 1)

	rec = env.Do(t, http.MethodPatch, "/api/inventario/productos/9/stock", map[string]any{"tipo": "ENTRADA", "cantidad": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.As(itf.Vendedor)
	rec = env.Do(t, http.MethodPatch, "/api/inventario/productos/2/stock", map[string]any{"tipo": "ENTRADA", "cantidad": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusOK, env.Do(t, http.MethodGet, "/api/inventario/productos", nil).Code)
	assert.Equal(t, http.StatusForbidden, env.Do(t, http.MethodGet, "/api/inventario/movimientos", nil).Code)
}

func TestProductoController_Importar(t *testing.T) {
	env, fake := setup(t)

	rec := env.DoRequest(upload(t, "sku,tipo,cantidad,motivo\nTOR-01,ENTRADA,7,compra\nNOPE,ENTRADA,1,x\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := itf.Decode[services.ImportReport](t, rec)
	assert.Equal(t, 1, report.Aplicadas)
	require.Len(t, report.FilasFallidas, 1)
	assert.Equal(t, 3, report.FilasFallidas[0].Fila)
	assert.Equal(t, 10, fake.stock["1"])

	rec = env.DoRequest(upload(t, "sku,motivo\nTOR-01,compra\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(t, http.MethodPost, "/api/inventario/importar", map[string]string{"file": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovimientoController_List(t *testing.T) {
	env, _ := setup(t)

	rec := env.Do(t, http.MethodGet, "/api/inventario/movimientos?tipo=salida", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := itf.Decode[listing.Page[movimiento.Movimiento]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "2", page.Data[0].ID.String())
}
