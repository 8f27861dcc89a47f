package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/cliente"
	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/venta"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/money"
	"github.com/granempresa/erp-portal/pkg/serrors"
	"github.com/granempresa/erp-portal/pkg/validation"
)

var VentaFields = listing.Fields[venta.Venta]{
	Text: func(v venta.Venta) []string {
		return []string{v.Numero, v.ID.String(), v.Cliente, v.Observaciones}
	},
	Date: venta.Venta.Emision,
	Filters: map[string]func(venta.Venta, string) bool{
		"estado":      listing.Equal(func(v venta.Venta) string { return v.Estado }),
		"cliente_id":  listing.Equal(func(v venta.Venta) string { return v.ClienteID.String() }),
		"metodo_pago": listing.Equal(func(v venta.Venta) string { return v.MetodoPago }),
	},
	Sort: map[string]func(a, b venta.Venta) int{
		"fecha": listing.ByTime(venta.Venta.Emision),
		"total": func(a, b venta.Venta) int { return a.Total.Cmp(b.Total) },
	},
	DefaultSort: "fecha",
	DefaultDesc: true,
}

type Pricing struct {
	IVA      decimal.Decimal
	Currency string
}

type ItemDTO struct {
	ProductoID     string          `json:"producto_id" validate:"required"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type CreateDTO struct {
	ClienteID        string    `json:"cliente_id" validate:"required"`
	Fecha            string    `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	MetodoPago       string    `json:"metodo_pago" validate:"required"`
	Items            []ItemDTO `json:"items" validate:"required,min=1,dive"`
	Observaciones    string    `json:"observaciones" validate:"max=500"`
	EnviarALogistica bool      `json:"enviar_a_logistica"`
}

// CreateResult reports the created sale and, when requested, whether it
// reached logistics. A forwarding failure leaves the sale in place.
type CreateResult struct {
	Venta             venta.Venta `json:"venta"`
	EnviadaALogistica bool        `json:"enviada_a_logistica"`
	ErrorLogistica    string      `json:"error_logistica,omitempty"`
}

type Agregado struct {
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type Resumen struct {
	PorEstado     map[string]Agregado `json:"por_estado"`
	PorMetodoPago map[string]Agregado `json:"por_metodo_pago"`
	Cantidad      int                 `json:"cantidad"`
	Total         decimal.Decimal     `json:"total"`
}

type VentaService struct {
	repo      venta.Repository
	clientes  cliente.Repository
	despacho  venta.Despacho
	publisher eventbus.EventBus
	pricing   Pricing
	now       func() time.Time
}

func NewVentaService(
	repo venta.Repository,
	clientes cliente.Repository,
	despacho venta.Despacho,
	publisher eventbus.EventBus,
	pricing Pricing,
) *VentaService {
	return &VentaService{
		repo:      repo,
		clientes:  clientes,
		despacho:  despacho,
		publisher: publisher,
		pricing:   pricing,
		now:       time.Now,
	}
}

func (s *VentaService) List(ctx context.Context, q listing.Query) (listing.Page[venta.Venta], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[venta.Venta]{}, err
	}
	return listing.Apply(all, q, VentaFields), nil
}

func (s *VentaService) Export(ctx context.Context, q listing.Query) ([]venta.Venta, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Filter(all, q, VentaFields), nil
}

func (s *VentaService) GetByID(ctx context.Context, id string) (venta.Venta, error) {
	return s.repo.GetByID(ctx, id)
}

// Resumen sums the sales matching q per state and per payment method.
func (s *VentaService) Resumen(ctx context.Context, q listing.Query) (Resumen, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return Resumen{}, err
	}
	res := Resumen{
		PorEstado:     map[string]Agregado{},
		PorMetodoPago: map[string]Agregado{},
		Total:         decimal.Zero,
	}
	add := func(m map[string]Agregado, key string, total decimal.Decimal) {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			key = "SIN DATO"
		}
		a := m[key]
		a.Cantidad++
		a.Total = money.Sum(a.Total, total)
		m[key] = a
	}
	for _, v := range listing.Filter(all, q, VentaFields) {
		add(res.PorEstado, v.Estado, v.Total)
		add(res.PorMetodoPago, v.MetodoPago, v.Total)
		res.Cantidad++
		res.Total = money.Sum(res.Total, v.Total)
	}
	return res, nil
}

// Create prices the sale server-side and stores it. With EnviarALogistica
// the stored sale is then forwarded to logistics.
func (s *VentaService) Create(ctx context.Context, dto CreateDTO) (CreateResult, error) {
	if err := validation.Struct(ctx, &dto); err != nil {
		return CreateResult{}, err
	}
	ve := serrors.NewValidationError(nil)
	items := make([]venta.Item, len(dto.Items))
	for i, it := range dto.Items {
		if !it.Cantidad.IsPositive() {
			ve.Add(itemField(i, "cantidad"), "must be greater than zero")
		}
		if it.PrecioUnitario.IsNegative() {
			ve.Add(itemField(i, "precio_unitario"), "must not be negative")
		}
		items[i] = venta.Item{
			ProductoID:     backend.ID(strings.TrimSpace(it.ProductoID)),
			Producto:       it.Producto,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
	}
	if err := ve.OrNil(); err != nil {
		return CreateResult{}, err
	}

	cli, err := s.findCliente(ctx, dto.ClienteID)
	if err != nil {
		return CreateResult{}, err
	}
	fecha := dto.Fecha
	if fecha == "" {
		fecha = s.now().Format("2006-01-02")
	}
	v, err := venta.Venta{
		ClienteID:     cli.ID,
		Cliente:       cli.Nombre,
		Fecha:         fecha,
		Estado:        venta.EstadoPendiente,
		MetodoPago:    strings.ToUpper(strings.TrimSpace(dto.MetodoPago)),
		Items:         items,
		Observaciones: strings.TrimSpace(dto.Observaciones),
	}.WithTotals(s.pricing.IVA, s.pricing.Currency)
	if err != nil {
		return CreateResult{}, err
	}
	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return CreateResult{}, err
	}
	s.publisher.Publish(venta.NewCreadaEvent(ctx, created))

	res := CreateResult{Venta: created}
	if dto.EnviarALogistica {
		if err := s.despacho.Enviar(ctx, created.ID.String()); err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("venta", created.ID.String()).Warn("failed to forward sale to logistica")
			res.ErrorLogistica = err.Error()
		} else {
			res.EnviadaALogistica = true
		}
	}
	return res, nil
}

func (s *VentaService) findCliente(ctx context.Context, id string) (cliente.Cliente, error) {
	all, err := s.clientes.GetAll(ctx)
	if err != nil {
		return cliente.Cliente{}, err
	}
	id = strings.TrimSpace(id)
	for _, c := range all {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return cliente.Cliente{}, serrors.NewValidationError(nil).Add("cliente_id", "unknown client")
}

func itemField(i int, field string) string {
	return "items[" + strconv.Itoa(i) + "]." + field
}
