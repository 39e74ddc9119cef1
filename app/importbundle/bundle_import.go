package importbundle

import (
	"net/http"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
)

// ImportBundle handles spreadsheet imports
type ImportBundle struct {
	routes []core.Route
}

// NewImportBundle instance
func NewImportBundle(store storage.RecordStore, users *map[string]core.User) core.Bundle {
	hc := NewImportController(store, users)

	r := []core.Route{
		core.Route{Method: http.MethodPost, Path: "/import/patients/preview", Handler: hc.PreviewPatientsHandler},
		core.Route{Method: http.MethodPost, Path: "/import/finance/{kind:expense|revenue}/preview", Handler: hc.PreviewFinanceHandler},

		core.Route{Method: http.MethodGet, Path: "/import/{kind:patients|expense|revenue}/preview", Handler: hc.GetPreviewHandler},
		core.Route{Method: http.MethodDelete, Path: "/import/{kind:patients|expense|revenue}/preview/{index:[0-9]+}", Handler: hc.RemovePreviewRowHandler},
		core.Route{Method: http.MethodDelete, Path: "/import/{kind:patients|expense|revenue}/preview", Handler: hc.CancelPreviewHandler},
		core.Route{Method: http.MethodPost, Path: "/import/{kind:patients|expense|revenue}/commit", Handler: hc.CommitHandler},
	}

	return &ImportBundle{routes: r}
}

// GetRoutes returns all bundle routes
func (b *ImportBundle) GetRoutes() []core.Route {
	return b.routes
}
