package app

import (
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/modules/arith"
	"github.com/vk/taskgrid/modules/print"
	"github.com/vk/taskgrid/modules/sleep"
	"github.com/vk/taskgrid/modules/socketio"
)

// coreModules is the definitive list of all payload modules that are
// compiled into the taskgrid binary.
var coreModules = []registry.Module{
	&arith.Module{},
	&print.Module{},
	&sleep.Module{},
	&socketio.Module{},
}
