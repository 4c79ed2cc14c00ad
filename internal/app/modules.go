package app

import (
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/modules/env_vars"
	"github.com/specialistvlad/buildgrid/modules/prefix"
	"github.com/specialistvlad/buildgrid/modules/sqlite"
	"github.com/specialistvlad/buildgrid/modules/static"
)

// coreModules is the definitive list of all package-manager handlers that
// are compiled into the buildgrid binary.
var coreModules = []registry.Module{
	&prefix.Module{},
	&env_vars.Module{},
	&static.Module{},
	&sqlite.Module{},
}
