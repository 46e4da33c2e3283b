package app

import (
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/modules/addimage"
	"github.com/vk/filepanel/modules/filecontrols"
)

// coreModules is the definitive list of all control modules compiled into
// the filepanel binary, in display order.
var coreModules = []registry.Module{
	&filecontrols.Module{},
	&addimage.Module{},
}
