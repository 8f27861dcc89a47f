package rrhh

import (
	"github.com/granempresa/erp-portal/modules/rrhh/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var EmpleadosLink = types.NavigationItem{
	Name:        "NavigationLinks.Empleados",
	Href:        "/rrhh/empleados",
	AuthzObject: controllers.EmpleadosAuthzObject,
	AuthzAction: authz.ActionList,
}

var SolicitudesLink = types.NavigationItem{
	Name:        "NavigationLinks.Solicitudes",
	Href:        "/rrhh/solicitudes",
	AuthzObject: controllers.SolicitudesAuthzObject,
	AuthzAction: authz.ActionList,
}

var EmailsLink = types.NavigationItem{
	Name:        "NavigationLinks.Emails",
	Href:        "/rrhh/emails",
	AuthzObject: controllers.EmailsAuthzObject,
	AuthzAction: authz.ActionCreate,
}

var RRHHLink = types.NavigationItem{
	Name: "NavigationLinks.RRHH",
	Icon: "users-three",
	Children: []types.NavigationItem{
		EmpleadosLink,
		SolicitudesLink,
		EmailsLink,
	},
}

var NavItems = []types.NavigationItem{
	RRHHLink,
}
