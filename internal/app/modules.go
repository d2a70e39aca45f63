package app

import "github.com/specialistvlad/pulsegrid/internal/wflib"

// coreModules is the list of translators compiled into the pulsegrid
// binary when the caller supplies none.
var coreModules = []wflib.Module{
	wflib.YAMLModule{},
}
