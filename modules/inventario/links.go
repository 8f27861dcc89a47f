package inventario

import (
	"github.com/granempresa/erp-portal/modules/inventario/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var ProductosLink = types.NavigationItem{
	Name:        "NavigationLinks.Productos",
	Href:        "/inventario/productos",
	AuthzObject: controllers.ProductosAuthzObject,
	AuthzAction: authz.ActionList,
}

var AlertasLink = types.NavigationItem{
	Name:        "NavigationLinks.AlertasStock",
	Href:        "/inventario/alertas",
	AuthzObject: controllers.ProductosAuthzObject,
	AuthzAction: authz.ActionList,
}

var ImportarLink = types.NavigationItem{
	Name:        "NavigationLinks.ImportarMovimientos",
	Href:        "/inventario/importar",
	AuthzObject: controllers.ProductosAuthzObject,
	AuthzAction: authz.ActionImport,
}

var MovimientosLink = types.NavigationItem{
	Name:        "NavigationLinks.Movimientos",
	Href:        "/inventario/movimientos",
	AuthzObject: controllers.MovimientosAuthzObject,
	AuthzAction: authz.ActionList,
}

var InventarioLink = types.NavigationItem{
	Name: "NavigationLinks.Inventario",
	Icon: "package",
	Children: []types.NavigationItem{
		ProductosLink,
		AlertasLink,
		ImportarLink,
		MovimientosLink,
	},
}

var NavItems = []types.NavigationItem{
	InventarioLink,
}
