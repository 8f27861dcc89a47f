package modules

import (
	"slices"

	"github.com/granempresa/erp-portal/modules/compras"
	"github.com/granempresa/erp-portal/modules/core"
	"github.com/granempresa/erp-portal/modules/inventario"
	"github.com/granempresa/erp-portal/modules/logging"
	"github.com/granempresa/erp-portal/modules/logistica"
	"github.com/granempresa/erp-portal/modules/rrhh"
	"github.com/granempresa/erp-portal/modules/ventas"
	"github.com/granempresa/erp-portal/pkg/application"
)

// BuiltIn returns the portal modules. core must be given the session store
// the server middleware reads from.
func BuiltIn(coreOpts *core.ModuleOptions, loggingOpts *logging.ModuleOptions) []application.Module {
	return []application.Module{
		core.NewModule(coreOpts),
		rrhh.NewModule(nil),
		compras.NewModule(nil),
		inventario.NewModule(nil),
		logistica.NewModule(),
		ventas.NewModule(nil),
		logging.NewModule(loggingOpts),
	}
}

// NavLinks is the full menu in display order.
var NavLinks = slices.Concat(
	core.NavItems,
	rrhh.NavItems,
	compras.NavItems,
	inventario.NavItems,
	logistica.NavItems,
	ventas.NavItems,
	logging.NavItems,
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
