package core

import (
	"github.com/granempresa/erp-portal/pkg/types"
)

var InicioLink = types.NavigationItem{
	Name: "NavigationLinks.Inicio",
	Href: "/",
	Icon: "house",
}

var NavItems = []types.NavigationItem{
	InicioLink,
}
