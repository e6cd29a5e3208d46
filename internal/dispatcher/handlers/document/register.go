package document

import (
	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/dispatcher/handler"
)

// Groups returns every document command group.
func Groups() []handler.GroupHandler {
	return []handler.GroupHandler{
		NewInsertHandler(),
		NewTableHandler(),
		NewStyleHandler(),
		NewDocumentHandler(),
		NewInteractionHandler(),
	}
}

// Register adds every document command to d.
func Register(d *dispatcher.Dispatcher) {
	for _, g := range Groups() {
		d.RegisterGroup(g)
	}
}
