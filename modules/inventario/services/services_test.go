package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/movimiento"
	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/producto"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type mockProductoRepo struct {
	mu       sync.Mutex
	items    []producto.Producto
	ajustes  []producto.Ajuste
	echoBody bool
}

func (m *mockProductoRepo) GetAll(context.Context) ([]producto.Producto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]producto.Producto(nil), m.items...), nil
}

func (m *mockProductoRepo) GetByID(_ context.Context, id string) (producto.Producto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID.String() == id {
			return p, nil
		}
	}
	return producto.Producto{}, serrors.NotFound("producto", id)
}

func (m *mockProductoRepo) AjustarStock(_ context.Context, id string, a producto.Ajuste) (*producto.Producto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ajustes = append(m.ajustes, a)
	for i, p := range m.items {
		if p.ID.String() != id {
			continue
		}
		next, err := a.Apply(p.Stock)
		if err != nil {
			return nil, err
		}
		m.items[i].Stock = next
		if m.echoBody {
			out := m.items[i]
			return &out, nil
		}
		return nil, nil
	}
	return nil, serrors.NotFound("producto", id)
}

type mockMovimientoRepo []movimiento.Movimiento

func (m mockMovimientoRepo) GetAll(context.Context) ([]movimiento.Movimiento, error) {
	return m, nil
}

func intPtr(v int) *int { return &v }

func catalogo() *mockProductoRepo {
	return &mockProductoRepo{items: []producto.Producto{
		{ID: "1", SKU: "TOR-01", Nombre: "Tornillo", Categoria: "Ferretería", Stock: 2, StockMinimo: intPtr(10)},
		{ID: "2", SKU: "CLA-02", Nombre: "Clavo", Categoria: "Ferretería", Stock: 100, StockMinimo: intPtr(20)},
		{ID: "3", SKU: "PIN-03", Nombre: "Pintura", Categoria: "Pinturas", Stock: 4},
		{ID: "4", SKU: "LIJ-04", Nombre: "Lija", Categoria: "Ferretería", Stock: 5},
	}}
}

func TestProductoService_ListBajoStock(t *testing.T) {
	svc := NewProductoService(catalogo(), eventbus.NewEventPublisher(nil), 5)

	page, err := svc.List(context.Background(), listing.Query{
		Filters: map[string]string{"bajo_stock": "true", "categoria": "ferretería"},
		Sort:    "stock",
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "TOR-01", page.Data[0].SKU)
	assert.Equal(t, "LIJ-04", page.Data[1].SKU, "stock equal to the fallback counts as low")
}

func TestProductoService_Alertas(t *testing.T) {
	svc := NewProductoService(catalogo(), eventbus.NewEventPublisher(nil), 5)

	alertas, err := svc.Alertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 3)
	assert.Equal(t, "TOR-01", alertas[0].Producto.SKU)
	assert.Equal(t, 8, alertas[0].Deficit)
	assert.Equal(t, "Pintura", alertas[1].Producto.Nombre)
	assert.Equal(t, 1, alertas[1].Deficit)
	assert.Equal(t, 0, alertas[2].Deficit)
}

func TestProductoService_AjustarStock(t *testing.T) {
	repo := catalogo()
	bus := eventbus.NewEventPublisher(nil)
	var events []*producto.StockAjustadoEvent
	bus.Subscribe(func(e *producto.StockAjustadoEvent) { events = append(events, e) })
	svc := NewProductoService(repo, bus, 5)

	p, err := svc.AjustarStock(context.Background(), "2", producto.Ajuste{Tipo: "salida", Cantidad: 30, Motivo: " despacho "})
	require.NoError(t, err)
	assert.Equal(t, 70, p.Stock)
	require.Len(t, repo.ajustes, 1)
	assert.Equal(t, producto.TipoSalida, repo.ajustes[0].Tipo)
	assert.Equal(t, "despacho", repo.ajustes[0].Motivo)

	require.Len(t, events, 1)
	assert.Equal(t, 100, events[0].StockAnterior)
	assert.Equal(t, "2", events[0].EntityID)

	_, err = svc.AjustarStock(context.Background(), "1", producto.Ajuste{Tipo: "SALIDA", Cantidad: 3})
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "cantidad")
	assert.Len(t, repo.ajustes, 1, "rejected movements never reach the backend")
	assert.Len(t, events, 1)

	_, err = svc.AjustarStock(context.Background(), "99", producto.Ajuste{Tipo: "ENTRADA", Cantidad: 1})
	assert.ErrorIs(t, err, serrors.NewError(serrors.CodeNotFound, "", ""))
}

func TestProductoService_AjustarStockUsesBackendCopy(t *testing.T) {
	repo := catalogo()
	repo.echoBody = true
	svc := NewProductoService(repo, eventbus.NewEventPublisher(nil), 5)

	p, err := svc.AjustarStock(context.Background(), "3", producto.Ajuste{Tipo: "AJUSTE", Cantidad: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, "Pintura", p.Nombre)
}

func TestProductoService_Importar(t *testing.T) {
	repo := catalogo()
	svc := NewProductoService(repo, eventbus.NewEventPublisher(nil), 5)

	table, err := export.ReadTable([]byte("SKU;Tipo;Cantidad;Motivo\n" +
		"tor-01;ENTRADA;10;compra\n" +
		"TOR-01;SALIDA;11;venta\n" +
		"XXX-00;ENTRADA;1;?\n" +
		"CLA-02;SALIDA;dos;venta\n" +
		"CLA-02;AJUSTE;50;inventario\n"))
	require.NoError(t, err)

	report, err := svc.Importar(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Aplicadas)
	require.Len(t, report.FilasFallidas, 2)
	assert.Equal(t, 4, report.FilasFallidas[0].Fila)
	assert.Equal(t, "XXX-00", report.FilasFallidas[0].SKU)
	assert.Equal(t, 5, report.FilasFallidas[1].Fila)
	assert.Equal(t, "cantidad must be an integer", report.FilasFallidas[1].Error)

	p, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock, "rows of the same product see the previous row's stock")
	p, err = repo.GetByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)
}

func TestProductoService_ImportarMissingColumns(t *testing.T) {
	svc := NewProductoService(catalogo(), eventbus.NewEventPublisher(nil), 5)

	_, err := svc.Importar(context.Background(), export.Table{Headers: []string{"sku", "motivo"}})
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "tipo")
	assert.Contains(t, ve.Fields, "cantidad")
}

func TestMovimientoService_List(t *testing.T) {
	svc := NewMovimientoService(mockMovimientoRepo{
		{ID: "1", ProductoID: "1", Tipo: "ENTRADA", Cantidad: 5, Fecha: "2024-03-01T10:00:00"},
		{ID: "2", ProductoID: "2", Tipo: "SALIDA", Cantidad: 2, Fecha: "2024-03-02T10:00:00"},
		{ID: "3", ProductoID: "1", Tipo: "SALIDA", Cantidad: 1, Fecha: "2024-03-03T10:00:00"},
	})

	page, err := svc.List(context.Background(), listing.Query{Filters: map[string]string{"producto_id": "1"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "3", page.Data[0].ID.String(), "newest first")

	page, err = svc.List(context.Background(), listing.Query{Filters: map[string]string{"tipo": "salida"}, Sort: "cantidad"})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "3", page.Data[0].ID.String())
}
