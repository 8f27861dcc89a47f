package logging

import (
	"github.com/granempresa/erp-portal/modules/logging/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var AccionesLink = types.NavigationItem{
	Name:        "NavigationLinks.Acciones",
	Href:        "/registro/acciones",
	AuthzObject: controllers.AccionesAuthzObject,
	AuthzAction: authz.ActionView,
}

var AccesosLink = types.NavigationItem{
	Name:        "NavigationLinks.Accesos",
	Href:        "/registro/accesos",
	AuthzObject: controllers.AccesosAuthzObject,
	AuthzAction: authz.ActionView,
}

var RegistroLink = types.NavigationItem{
	Name: "NavigationLinks.Registro",
	Icon: "list",
	Children: []types.NavigationItem{
		AccionesLink,
		AccesosLink,
	},
}

var NavItems = []types.NavigationItem{
	RegistroLink,
}
