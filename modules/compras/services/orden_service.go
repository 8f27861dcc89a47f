package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/modules/compras/domain/aggregates/orden"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/money"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

var OrdenFields = listing.Fields[orden.OrdenCompra]{
	Text: func(o orden.OrdenCompra) []string {
		return []string{o.Numero, o.ID.String(), o.Proveedor, o.Observaciones}
	},
	Date: orden.OrdenCompra.FechaEmision,
	Filters: map[string]func(orden.OrdenCompra, string) bool{
		"estado":       listing.Equal(func(o orden.OrdenCompra) string { return o.Estado }),
		"proveedor_id": listing.Equal(func(o orden.OrdenCompra) string { return o.ProveedorID.String() }),
	},
	Sort: map[string]func(a, b orden.OrdenCompra) int{
		"fecha":     listing.ByTime(orden.OrdenCompra.FechaEmision),
		"total":     func(a, b orden.OrdenCompra) int { return a.Total.Cmp(b.Total) },
		"proveedor": listing.ByString(func(o orden.OrdenCompra) string { return o.Proveedor }),
		"estado":    listing.ByString(func(o orden.OrdenCompra) string { return o.Estado }),
	},
	DefaultSort: "fecha",
	DefaultDesc: true,
}

// Pricing holds the tax rule applied to new orders.
type Pricing struct {
	IVA      decimal.Decimal
	Currency string
}

type LineaDTO struct {
	ProductoID     string          `json:"producto_id" validate:"required"`
	Producto       string          `json:"producto"`
	ProveedorID    string          `json:"proveedor_id" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type CreateDTO struct {
	Fecha         string     `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Observaciones string     `json:"observaciones" validate:"max=500"`
	Lineas        []LineaDTO `json:"lineas" validate:"required,min=1,dive"`
}

type CotizarDTO struct {
	Lineas []LineaDTO `json:"lineas" validate:"required,min=1,dive"`
}

type EliminarDTO struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// CreateResult lists the orders the saga created. When Saga.Failed is set,
// those orders were compensated unless a compensation reports otherwise.
type CreateResult struct {
	Ordenes []orden.OrdenCompra `json:"ordenes"`
	Saga    batch.SagaReport    `json:"saga"`
}

type Cotizacion struct {
	Ordenes  []orden.OrdenCompra `json:"ordenes"`
	Subtotal decimal.Decimal     `json:"subtotal"`
	IVA      decimal.Decimal     `json:"iva"`
	Total    decimal.Decimal     `json:"total"`
	Moneda   string              `json:"moneda"`
}

type OrdenService struct {
	repo        orden.Repository
	publisher   eventbus.EventBus
	pricing     Pricing
	fanOutLimit int
}

func NewOrdenService(repo orden.Repository, publisher eventbus.EventBus, pricing Pricing, fanOutLimit int) *OrdenService {
	return &OrdenService{
		repo:        repo,
		publisher:   publisher,
		pricing:     pricing,
		fanOutLimit: fanOutLimit,
	}
}

func (s *OrdenService) List(ctx context.Context, q listing.Query) (listing.Page[orden.OrdenCompra], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[orden.OrdenCompra]{}, err
	}
	return listing.Apply(all, q, OrdenFields), nil
}

func (s *OrdenService) Export(ctx context.Context, q listing.Query) ([]orden.OrdenCompra, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Filter(all, q, OrdenFields), nil
}

func (s *OrdenService) GetByID(ctx context.Context, id string) (orden.OrdenCompra, error) {
	return s.repo.GetByID(ctx, id)
}

// CambiarEstado validates the transition locally and PUTs the whole order
// with the new state.
func (s *OrdenService) CambiarEstado(ctx context.Context, id, estado string) (orden.OrdenCompra, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return orden.OrdenCompra{}, err
	}
	next, err := current.TransitionTo(estado)
	if err != nil {
		return orden.OrdenCompra{}, err
	}
	saved, err := s.repo.Update(ctx, next)
	if err != nil {
		return orden.OrdenCompra{}, err
	}
	var diff json.RawMessage
	if patch, err := editbuffer.Diff(current, saved); err == nil {
		diff, _ = json.Marshal(patch)
	}
	s.publisher.Publish(orden.NewEstadoCambiadoEvent(ctx, current.Estado, saved, diff))
	return saved, nil
}

// Eliminar deletes every id independently and reports each outcome.
func (s *OrdenService) Eliminar(ctx context.Context, ids []string) batch.Summary[bool] {
	summary := batch.FanOut(ctx, ids, s.fanOutLimit, func(id string) string { return id },
		func(ctx context.Context, id string) (bool, error) {
			if err := s.repo.Delete(ctx, id); err != nil {
				return false, err
			}
			return true, nil
		})
	for _, r := range summary.Results {
		if r.OK {
			s.publisher.Publish(orden.NewEliminadaEvent(ctx, r.Key))
		}
	}
	return summary
}

// Create splits the lines into one order per supplier and creates them in
// order. If any creation fails the orders already created are deleted.
func (s *OrdenService) Create(ctx context.Context, dto CreateDTO) (CreateResult, error) {
	ordenes, err := s.split(dto.Lineas, dto.Fecha, dto.Observaciones)
	if err != nil {
		return CreateResult{}, err
	}
	created := make([]orden.OrdenCompra, 0, len(ordenes))
	saga := batch.NewSaga()
	for _, o := range ordenes {
		o := o
		var got orden.OrdenCompra
		saga.Add(batch.Step{
			Name: "proveedor:" + o.ProveedorID.String(),
			Do: func(ctx context.Context) error {
				var err error
				got, err = s.repo.Create(ctx, o)
				if err != nil {
					return err
				}
				created = append(created, got)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.repo.Delete(ctx, got.ID.String())
			},
		})
	}
	report := saga.Run(ctx)
	if report.OK() {
		for _, o := range created {
			s.publisher.Publish(orden.NewCreadaEvent(ctx, o))
		}
	} else {
		composables.UseLogger(ctx).
			WithField("failed", report.Failed.Key).
			WithField("rolled_back", report.RolledBack()).
			Warn("purchase order split failed")
	}
	return CreateResult{Ordenes: created, Saga: report}, nil
}

// Cotizar prices a set of lines the way Create would, without creating anything.
func (s *OrdenService) Cotizar(_ context.Context, dto CotizarDTO) (Cotizacion, error) {
	ordenes, err := s.split(dto.Lineas, "", "")
	if err != nil {
		return Cotizacion{}, err
	}
	out := Cotizacion{Ordenes: ordenes, Moneda: strings.ToUpper(s.pricing.Currency)}
	for _, o := range ordenes {
		out.Subtotal = money.Sum(out.Subtotal, o.Subtotal)
		out.IVA = money.Sum(out.IVA, o.IVA)
		out.Total = money.Sum(out.Total, o.Total)
	}
	return out, nil
}

// split groups lines by supplier, keeping suppliers in order of first
// appearance, and prices each group.
func (s *OrdenService) split(lineas []LineaDTO, fecha, observaciones string) ([]orden.OrdenCompra, error) {
	ve := serrors.NewValidationError(nil)
	index := map[string]int{}
	var ordenes []orden.OrdenCompra
	for i, l := range lineas {
		if !l.Cantidad.IsPositive() {
			ve.Add(lineField(i, "cantidad"), "must be greater than zero")
		}
		if l.PrecioUnitario.IsNegative() {
			ve.Add(lineField(i, "precio_unitario"), "must not be negative")
		}
		key := strings.TrimSpace(l.ProveedorID)
		pos, ok := index[key]
		if !ok {
			pos = len(ordenes)
			index[key] = pos
			ordenes = append(ordenes, orden.OrdenCompra{
				ProveedorID:   backend.ID(key),
				Fecha:         fecha,
				Estado:        orden.EstadoPendiente,
				Observaciones: observaciones,
			})
		}
		ordenes[pos].Lineas = append(ordenes[pos].Lineas, orden.Linea{
			ProductoID:     backend.ID(l.ProductoID),
			Producto:       l.Producto,
			ProveedorID:    backend.ID(key),
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
		})
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	for i := range ordenes {
		priced, err := ordenes[i].WithTotals(s.pricing.IVA, s.pricing.Currency)
		if err != nil {
			return nil, err
		}
		ordenes[i] = priced
	}
	return ordenes, nil
}

func lineField(i int, field string) string {
	return "lineas[" + strconv.Itoa(i) + "]." + field
}
