package compras

import (
	"github.com/granempresa/erp-portal/modules/compras/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var OrdenesLink = types.NavigationItem{
	Name:        "NavigationLinks.OrdenesCompra",
	Href:        "/compras/ordenes",
	AuthzObject: controllers.OrdenesAuthzObject,
	AuthzAction: authz.ActionList,
}

var NuevaOrdenLink = types.NavigationItem{
	Name:        "NavigationLinks.NuevaOrdenCompra",
	Href:        "/compras/ordenes/nueva",
	AuthzObject: controllers.OrdenesAuthzObject,
	AuthzAction: authz.ActionCreate,
}

var ProveedoresLink = types.NavigationItem{
	Name:        "NavigationLinks.Proveedores",
	Href:        "/compras/proveedores",
	AuthzObject: controllers.ProveedoresAuthzObject,
	AuthzAction: authz.ActionList,
}

var ComprasLink = types.NavigationItem{
	Name: "NavigationLinks.Compras",
	Icon: "shopping-cart",
	Children: []types.NavigationItem{
		OrdenesLink,
		NuevaOrdenLink,
		ProveedoresLink,
	},
}

var NavItems = []types.NavigationItem{
	ComprasLink,
}
