package ventas

import (
	"github.com/granempresa/erp-portal/modules/ventas/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var VentasListLink = types.NavigationItem{
	Name:        "NavigationLinks.ListadoVentas",
	Href:        "/ventas",
	AuthzObject: controllers.VentasAuthzObject,
	AuthzAction: authz.ActionList,
}

var NuevaVentaLink = types.NavigationItem{
	Name:        "NavigationLinks.NuevaVenta",
	Href:        "/ventas/nueva",
	AuthzObject: controllers.VentasAuthzObject,
	AuthzAction: authz.ActionCreate,
}

var ClientesLink = types.NavigationItem{
	Name:        "NavigationLinks.Clientes",
	Href:        "/ventas/clientes",
	AuthzObject: controllers.ClientesAuthzObject,
	AuthzAction: authz.ActionList,
}

var VentasLink = types.NavigationItem{
	Name: "NavigationLinks.Ventas",
	Icon: "receipt",
	Children: []types.NavigationItem{
		VentasListLink,
		NuevaVentaLink,
		ClientesLink,
	},
}

var NavItems = []types.NavigationItem{
	VentasLink,
}
