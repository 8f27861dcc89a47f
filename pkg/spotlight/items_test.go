package spotlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/types"
)

var menu = []types.NavigationItem{
	{Name: "Inicio", Href: "/", Icon: "house"},
	{
		Name: "Inventario",
		Icon: "package",
		Children: []types.NavigationItem{
			{Name: "Productos", Href: "/inventario/productos"},
			{Name: "Importar productos", Href: "/inventario/importar", Icon: "upload"},
		},
	},
	{
		Name: "Ventas",
		Icon: "receipt",
		Children: []types.NavigationItem{
			{Name: "Listado de ventas", Href: "/ventas"},
			{Name: "Nueva venta", Href: "/ventas/nueva"},
		},
	},
}

func TestFromNavigation(t *testing.T) {
	links := FromNavigation(menu)
	require.Len(t, links, 5)
	assert.Equal(t, QuickLink{Label: "Inicio", Href: "/", Icon: "house"}, links[0])
	assert.Equal(t, QuickLink{Label: "Productos", Href: "/inventario/productos", Icon: "package", Section: "Inventario"}, links[1])
	assert.Equal(t, "upload", links[2].Icon)
	assert.Equal(t, "Ventas", links[4].Section)
}

func TestFind(t *testing.T) {
	links := FromNavigation(menu)

	t.Run("case insensitive", func(t *testing.T) {
		got := Find("PROD", links)
		require.Len(t, got, 2)
		assert.Equal(t, "/inventario/productos", got[0].Href)
		assert.Equal(t, "/inventario/importar", got[1].Href)
	})

	t.Run("fuzzy", func(t *testing.T) {
		got := Find("nva vta", links)
		require.Len(t, got, 1)
		assert.Equal(t, "/ventas/nueva", got[0].Href)
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Empty(t, Find("  ", links))
		assert.NotNil(t, Find("", links))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Find("zzz", links))
	})
}
