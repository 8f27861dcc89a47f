package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/cliente"
	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/venta"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type mockClienteRepo struct {
	items   []cliente.Cliente
	created []cliente.Cliente
}

func (m *mockClienteRepo) GetAll(context.Context) ([]cliente.Cliente, error) {
	return m.items, nil
}

func (m *mockClienteRepo) Create(_ context.Context, c cliente.Cliente) (cliente.Cliente, error) {
	c.ID = backend.ID(fmt.Sprint(100 + len(m.created)))
	m.created = append(m.created, c)
	m.items = append(m.items, c)
	return c, nil
}

type mockVentaRepo struct {
	items   []venta.Venta
	created []venta.Venta
}

func (m *mockVentaRepo) GetAll(context.Context) ([]venta.Venta, error) {
	return m.items, nil
}

func (m *mockVentaRepo) GetByID(_ context.Context, id string) (venta.Venta, error) {
	for _, v := range m.items {
		if v.ID.String() == id {
			return v, nil
		}
	}
	return venta.Venta{}, serrors.NotFound("venta", id)
}

func (m *mockVentaRepo) Create(_ context.Context, v venta.Venta) (venta.Venta, error) {
	v.ID = backend.ID(fmt.Sprint(500 + len(m.created)))
	m.created = append(m.created, v)
	return v, nil
}

type mockDespacho struct {
	sent []string
	err  error
}

func (m *mockDespacho) Enviar(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, id)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func clientes() *mockClienteRepo {
	return &mockClienteRepo{items: []cliente.Cliente{
		{ID: "1", Nombre: "Ferretería Central", RUT: "76.086.428-5", Email: "compras@central.cl"},
	}}
}

func newVentaService(repo *mockVentaRepo, d *mockDespacho, bus eventbus.EventBus) *VentaService {
	svc := NewVentaService(repo, clientes(), d, bus, Pricing{IVA: dec("0.19"), Currency: "CLP"})
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestClienteService_Create(t *testing.T) {
	repo := clientes()
	bus := eventbus.NewEventPublisher(nil)
	var created []*cliente.CreadoEvent
	bus.Subscribe(func(e *cliente.CreadoEvent) { created = append(created, e) })
	svc := NewClienteService(repo, bus)

	c, err := svc.Create(context.Background(), ClienteDTO{Nombre: " Maderas Sur ", RUT: "111111111", Email: "Ventas@MaderasSur.cl"})
	require.NoError(t, err)
	assert.Equal(t, "11.111.111-1", c.RUT)
	assert.Equal(t, "ventas@maderassur.cl", c.Email)
	assert.Equal(t, "Maderas Sur", c.Nombre)
	require.Len(t, created, 1)

	_, err = svc.Create(context.Background(), ClienteDTO{Nombre: "Otro", RUT: "76086428-5", Email: "x@y.cl"})
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "already registered", ve.Fields["rut"])

	_, err = svc.Create(context.Background(), ClienteDTO{Nombre: "Malo", RUT: "11.111.111-2", Email: "no-es-email"})
	ve, ok = serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "rut")
	assert.Contains(t, ve.Fields, "email")
	assert.Len(t, repo.created, 1)
}

func TestClienteService_List(t *testing.T) {
	svc := NewClienteService(clientes(), eventbus.NewEventPublisher(nil))

	page, err := svc.List(context.Background(), listing.Query{Q: "central"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
}

func TestVentaService_Resumen(t *testing.T) {
	repo := &mockVentaRepo{items: []venta.Venta{
		{ID: "1", Estado: "PAGADA", MetodoPago: "EFECTIVO", Fecha: "2024-01-10", Total: dec("1190")},
		{ID: "2", Estado: "pagada", MetodoPago: "TARJETA", Fecha: "2024-02-10", Total: dec("2380.50")},
		{ID: "3", Estado: "ANULADA", MetodoPago: "efectivo", Fecha: "2024-03-10", Total: dec("100")},
	}}
	svc := newVentaService(repo, &mockDespacho{}, eventbus.NewEventPublisher(nil))

	res, err := svc.Resumen(context.Background(), listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Cantidad)
	assert.Equal(t, "3670.5", res.Total.String())
	assert.Equal(t, 2, res.PorEstado["PAGADA"].Cantidad)
	assert.Equal(t, "3570.5", res.PorEstado["PAGADA"].Total.String())
	assert.Equal(t, "1290", res.PorMetodoPago["EFECTIVO"].Total.String())

	res, err = svc.Resumen(context.Background(), listing.Query{Desde: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cantidad)
}

func TestVentaService_List(t *testing.T) {
	repo := &mockVentaRepo{items: []venta.Venta{
		{ID: "1", ClienteID: "1", Fecha: "2024-01-10", Total: dec("900")},
		{ID: "2", ClienteID: "2", Fecha: "2024-02-10", Total: dec("50")},
		{ID: "3", ClienteID: "1", Fecha: "2024-03-10", Total: dec("100")},
	}}
	svc := newVentaService(repo, &mockDespacho{}, eventbus.NewEventPublisher(nil))

	page, err := svc.List(context.Background(), listing.Query{Filters: map[string]string{"cliente_id": "1"}, Sort: "total", Order: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "1", page.Data[0].ID.String())
}

func TestVentaService_Create(t *testing.T) {
	repo := &mockVentaRepo{}
	despacho := &mockDespacho{}
	bus := eventbus.NewEventPublisher(nil)
	var types []string
	bus.Subscribe(func(e eventbus.Event) { types = append(types, e.EventType()) })
	svc := newVentaService(repo, despacho, bus)

	res, err := svc.Create(context.Background(), CreateDTO{
		ClienteID:        "1",
		MetodoPago:       "tarjeta",
		EnviarALogistica: true,
		Items: []ItemDTO{
			{ProductoID: "9", Cantidad: dec("2"), PrecioUnitario: dec("5000")},
			{ProductoID: "8", Cantidad: dec("1"), PrecioUnitario: dec("990")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "10990", res.Venta.Subtotal.String())
	assert.Equal(t, "2088", res.Venta.IVA.String())
	assert.Equal(t, "13078", res.Venta.Total.String())
	assert.Equal(t, "2024-07-01", res.Venta.Fecha)
	assert.Equal(t, "TARJETA", res.Venta.MetodoPago)
	assert.Equal(t, "Ferretería Central", res.Venta.Cliente)
	assert.True(t, res.EnviadaALogistica)
	assert.Equal(t, []string{"500"}, despacho.sent)
	assert.Equal(t, []string{venta.CreadaEventType}, types)
}

func TestVentaService_CreateForwardingFailureKeepsSale(t *testing.T) {
	repo := &mockVentaRepo{}
	despacho := &mockDespacho{err: errors.New("logistica caída")}
	svc := newVentaService(repo, despacho, eventbus.NewEventPublisher(nil))

	res, err := svc.Create(context.Background(), CreateDTO{
		ClienteID:        "1",
		MetodoPago:       "EFECTIVO",
		EnviarALogistica: true,
		Items:            []ItemDTO{{ProductoID: "9", Cantidad: dec("1"), PrecioUnitario: dec("100")}},
	})
	require.NoError(t, err)
	assert.False(t, res.EnviadaALogistica)
	assert.Contains(t, res.ErrorLogistica, "logistica caída")
	assert.Len(t, repo.created, 1)
}

func TestVentaService_CreateValidation(t *testing.T) {
	repo := &mockVentaRepo{}
	svc := newVentaService(repo, &mockDespacho{}, eventbus.NewEventPublisher(nil))

	_, err := svc.Create(context.Background(), CreateDTO{ClienteID: "1", MetodoPago: "EFECTIVO"})
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")

	_, err = svc.Create(context.Background(), CreateDTO{
		ClienteID:  "1",
		MetodoPago: "EFECTIVO",
		Items:      []ItemDTO{{ProductoID: "9", Cantidad: dec("0"), PrecioUnitario: dec("100")}},
	})
	ve, ok = serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items[0].cantidad")

	_, err = svc.Create(context.Background(), CreateDTO{
		ClienteID:  "77",
		MetodoPago: "EFECTIVO",
		Items:      []ItemDTO{{ProductoID: "9", Cantidad: dec("1"), PrecioUnitario: dec("100")}},
	})
	ve, ok = serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "cliente_id")
	assert.Empty(t, repo.created)
}
