package listing

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

type producto struct {
	SKU       string
	Nombre    string
	Categoria string
	Stock     int
	Activo    bool
	Fecha     time.Time
}

var productoFields = Fields[producto]{
	Text: func(p producto) []string { return []string{p.SKU, p.Nombre} },
	Date: func(p producto) time.Time { return p.Fecha },
	Filters: map[string]func(producto, string) bool{
		"categoria": Equal(func(p producto) string { return p.Categoria }),
		"activo":    Bool(func(p producto) bool { return p.Activo }),
	},
	Sort: map[string]func(a, b producto) int{
		"nombre": ByString(func(p producto) string { return p.Nombre }),
		"stock":  ByNumber(func(p producto) int { return p.Stock }),
		"fecha":  ByTime(func(p producto) time.Time { return p.Fecha }),
	},
	DefaultSort: "nombre",
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC)
}

var productos = []producto{
	{SKU: "TOR-01", Nombre: "Tornillo hexagonal", Categoria: "Ferretería", Stock: 120, Activo: true, Fecha: day(1)},
	{SKU: "TUE-02", Nombre: "Tuerca", Categoria: "ferreteria", Stock: 5, Activo: true, Fecha: day(5)},
	{SKU: "TAL-03", Nombre: "Taladro", Categoria: "Herramientas", Stock: 12, Activo: false, Fecha: day(10)},
	{SKU: "ARA-04", Nombre: "Arandela", Categoria: "Ferretería", Stock: 5, Activo: true, Fecha: day(15)},
}

func names(items []producto) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Nombre)
	}
	return out
}

func TestApply_DefaultSortAndPagination(t *testing.T) {
	page := Apply(productos, Query{Page: 2, Limit: 3}, productoFields)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, []string{"Tuerca"}, names(page.Data))

	page = Apply(productos, Query{Page: 3, Limit: 3}, productoFields)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
}

func TestApply_PageBeyondRange(t *testing.T) {
	const maxInt = int(^uint(0) >> 1)
	cases := []struct {
		name  string
		query Query
	}{
		{"just past the end", Query{Page: 3, Limit: 2}},
		{"page near max int", Query{Page: 92233720368547760, Limit: 100}},
		{"page is max int", Query{Page: maxInt, Limit: 100}},
		{"limit is max int", Query{Page: 2, Limit: maxInt}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var page Page[producto]
			require.NotPanics(t, func() { page = Apply(productos, tc.query, productoFields) })
			assert.Empty(t, page.Data)
			assert.Equal(t, 4, page.Total)
			assert.Equal(t, tc.query.Page, page.Page)
		})
	}
}

func TestApply_EmptyInput(t *testing.T) {
	page := Apply(nil, Query{Page: 1, Limit: 10}, productoFields)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pages)
}

func TestApply_Filters(t *testing.T) {
	page := Apply(productos, Query{Filters: map[string]string{"categoria": "FERRETERÍA", "activo": "true"}}, productoFields)
	assert.Equal(t, []string{"Arandela", "Tornillo hexagonal"}, names(page.Data))

	page = Apply(productos, Query{Filters: map[string]string{"activo": "false"}}, productoFields)
	assert.Equal(t, []string{"Taladro"}, names(page.Data))
}

func TestApply_StableSort(t *testing.T) {
	page := Apply(productos, Query{Sort: "stock", Order: "asc"}, productoFields)
	assert.Equal(t, []string{"Tuerca", "Arandela", "Taladro", "Tornillo hexagonal"}, names(page.Data))

	page = Apply(productos, Query{Sort: "stock", Order: "desc"}, productoFields)
	assert.Equal(t, []string{"Tornillo hexagonal", "Taladro", "Tuerca", "Arandela"}, names(page.Data))
}

func TestApply_FuzzySearch(t *testing.T) {
	page := Apply(productos, Query{Q: "trca"}, productoFields)
	assert.Equal(t, []string{"Tuerca"}, names(page.Data))

	page = Apply(productos, Query{Q: "tal-03"}, productoFields)
	assert.Equal(t, []string{"Taladro"}, names(page.Data))

	page = Apply(productos, Query{Q: "zzz"}, productoFields)
	assert.Zero(t, page.Total)
}

func TestApply_DateRangeIsInclusive(t *testing.T) {
	page := Apply(productos, Query{Desde: "2025-03-05", Hasta: "2025-03-10", Sort: "fecha"}, productoFields)
	assert.Equal(t, []string{"Tuerca", "Taladro"}, names(page.Data))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := append([]producto(nil), productos...)
	Apply(in, Query{Sort: "stock", Order: "desc"}, productoFields)
	assert.Equal(t, productos, in)
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/?q=tor&sort=-stock&limit=500&categoria=Herramientas&unknown=x", nil)
	q, err := Parse(r, productoFields)
	require.NoError(t, err)
	assert.Equal(t, "tor", q.Q)
	assert.Equal(t, "stock", q.Sort)
	assert.Equal(t, "desc", q.Order)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, map[string]string{"categoria": "Herramientas"}, q.Filters)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"sort":  "/?sort=precio",
		"order": "/?order=up",
		"desde": "/?desde=03-2025",
		"hasta": "/?desde=2025-03-10&hasta=2025-03-01",
		"query": "/?page=abc",
	}
	for field, url := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Parse(httptest.NewRequest("GET", url, nil), productoFields)
			ve, ok := serrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, field)
		})
	}
}

func TestFilterReturnsEveryMatch(t *testing.T) {
	out := Filter(productos, Query{Limit: 1, Page: 3, Filters: map[string]string{"activo": "true"}}, productoFields)
	assert.Len(t, out, 3)
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, 2025, ParseDate("2025-03-01T10:00:00.000Z").Year())
	assert.Equal(t, 3, int(ParseDate("2025-03-01 10:00:00").Month()))
	assert.True(t, ParseDate("ayer").IsZero())
}
