package services

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/producto"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

// ProductoFields builds the list fields; bajo_stock compares against each
// product's minimum, or fallback when it has none.
func ProductoFields(fallback int) listing.Fields[producto.Producto] {
	return listing.Fields[producto.Producto]{
		Text: func(p producto.Producto) []string {
			return []string{p.Nombre, p.SKU, p.Categoria}
		},
		Filters: map[string]func(producto.Producto, string) bool{
			"categoria": listing.Equal(func(p producto.Producto) string { return p.Categoria }),
			"bodega":    listing.Equal(func(p producto.Producto) string { return p.Bodega }),
			"bajo_stock": listing.Bool(func(p producto.Producto) bool {
				return p.BajoStock(fallback)
			}),
		},
		Sort: map[string]func(a, b producto.Producto) int{
			"nombre": listing.ByString(func(p producto.Producto) string { return p.Nombre }),
			"sku":    listing.ByString(func(p producto.Producto) string { return p.SKU }),
			"stock":  listing.ByNumber(func(p producto.Producto) int { return p.Stock }),
		},
		DefaultSort: "nombre",
	}
}

type Alerta struct {
	Producto producto.Producto `json:"producto"`
	Minimo   int               `json:"minimo"`
	Deficit  int               `json:"deficit"`
}

type FilaFallida struct {
	Fila  int    `json:"fila"`
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

type ImportReport struct {
	Aplicadas     int           `json:"aplicadas"`
	FilasFallidas []FilaFallida `json:"filas_fallidas"`
}

type ProductoService struct {
	repo      producto.Repository
	publisher eventbus.EventBus
	fields    listing.Fields[producto.Producto]
	fallback  int
}

func NewProductoService(repo producto.Repository, publisher eventbus.EventBus, lowStockFallback int) *ProductoService {
	return &ProductoService{
		repo:      repo,
		publisher: publisher,
		fields:    ProductoFields(lowStockFallback),
		fallback:  lowStockFallback,
	}
}

func (s *ProductoService) Fields() listing.Fields[producto.Producto] {
	return s.fields
}

func (s *ProductoService) List(ctx context.Context, q listing.Query) (listing.Page[producto.Producto], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[producto.Producto]{}, err
	}
	return listing.Apply(all, q, s.fields), nil
}

func (s *ProductoService) Export(ctx context.Context, q listing.Query) ([]producto.Producto, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Filter(all, q, s.fields), nil
}

// Alertas lists products at or below their minimum, largest deficit first.
func (s *ProductoService) Alertas(ctx context.Context) ([]Alerta, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []Alerta{}
	for _, p := range all {
		if !p.BajoStock(s.fallback) {
			continue
		}
		minimo := p.Minimo(s.fallback)
		out = append(out, Alerta{Producto: p, Minimo: minimo, Deficit: minimo - p.Stock})
	}
	slices.SortStableFunc(out, func(a, b Alerta) int {
		if c := cmp.Compare(b.Deficit, a.Deficit); c != 0 {
			return c
		}
		return cmp.Compare(a.Producto.Nombre, b.Producto.Nombre)
	})
	return out, nil
}

// AjustarStock validates the movement against the current stock before
// sending it. When the backend answers without a body the returned product
// carries the locally computed stock.
func (s *ProductoService) AjustarStock(ctx context.Context, id string, a producto.Ajuste) (producto.Producto, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return producto.Producto{}, err
	}
	return s.ajustar(ctx, current, a)
}

func (s *ProductoService) ajustar(ctx context.Context, current producto.Producto, a producto.Ajuste) (producto.Producto, error) {
	a = a.Normalize()
	next, err := a.Apply(current.Stock)
	if err != nil {
		return producto.Producto{}, err
	}
	saved, err := s.repo.AjustarStock(ctx, current.ID.String(), a)
	if err != nil {
		return producto.Producto{}, err
	}
	updated := current
	updated.Stock = next
	if saved != nil {
		updated = *saved
	}
	s.publisher.Publish(producto.NewStockAjustadoEvent(ctx, a, current.Stock, updated))
	return updated, nil
}

// Importar applies the rows of an uploaded sheet one by one, in file order.
// A failing row is reported and the import moves on to the next one.
func (s *ProductoService) Importar(ctx context.Context, table export.Table) (ImportReport, error) {
	if err := table.Require("sku", "tipo", "cantidad"); err != nil {
		return ImportReport{}, err
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return ImportReport{}, err
	}
	bySKU := make(map[string]producto.Producto, len(all))
	for _, p := range all {
		bySKU[strings.ToUpper(strings.TrimSpace(p.SKU))] = p
	}

	report := ImportReport{FilasFallidas: []FilaFallida{}}
	for i, row := range table.Rows {
		fila := i + 2
		sku := strings.ToUpper(row["sku"])
		fail := func(msg string) {
			report.FilasFallidas = append(report.FilasFallidas, FilaFallida{Fila: fila, SKU: row["sku"], Error: msg})
		}
		if err := ctx.Err(); err != nil {
			fail(err.Error())
			continue
		}
		p, ok := bySKU[sku]
		if !ok {
			fail("unknown sku")
			continue
		}
		cantidad, err := strconv.Atoi(row["cantidad"])
		if err != nil {
			fail("cantidad must be an integer")
			continue
		}
		updated, err := s.ajustar(ctx, p, producto.Ajuste{Tipo: row["tipo"], Cantidad: cantidad, Motivo: row["motivo"]})
		if ve, ok := serrors.AsValidation(err); ok {
			fail(ve.Summary())
			continue
		}
		if err != nil {
			fail(err.Error())
			continue
		}
		bySKU[sku] = updated
		report.Aplicadas++
	}
	return report, nil
}
