package logistica

import (
	"github.com/granempresa/erp-portal/modules/logistica/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/types"
)

var OrdenesTrabajoLink = types.NavigationItem{
	Name:        "NavigationLinks.OrdenesTrabajo",
	Href:        "/logistica/ordenes-trabajo",
	AuthzObject: controllers.OrdenesTrabajoAuthzObject,
	AuthzAction: authz.ActionList,
}

var PickingLink = types.NavigationItem{
	Name:        "NavigationLinks.Picking",
	Href:        "/logistica/picking",
	AuthzObject: controllers.PickingAuthzObject,
	AuthzAction: authz.ActionList,
}

var GuiasLink = types.NavigationItem{
	Name:        "NavigationLinks.GuiasDespacho",
	Href:        "/logistica/guias",
	AuthzObject: controllers.GuiasAuthzObject,
	AuthzAction: authz.ActionList,
}

var AutomatizacionLink = types.NavigationItem{
	Name:        "NavigationLinks.Automatizacion",
	Href:        "/logistica/automatizacion",
	AuthzObject: controllers.AutomatizacionAuthzObject,
	AuthzAction: authz.ActionList,
}

var LogisticaLink = types.NavigationItem{
	Name: "NavigationLinks.Logistica",
	Icon: "truck",
	Children: []types.NavigationItem{
		OrdenesTrabajoLink,
		PickingLink,
		GuiasLink,
		AutomatizacionLink,
	},
}

var NavItems = []types.NavigationItem{
	LogisticaLink,
}
