package systembundle

import (
	"net/http"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
)

// SystemBundle handles accounts and sessions
type SystemBundle struct {
	routes []core.Route
}

// NewSystemBundle instance
func NewSystemBundle(store storage.RecordStore, users *map[string]core.User) core.Bundle {
	hc := NewSystemController(store, users)

	r := []core.Route{
		core.Route{Method: http.MethodPost, Path: "/system/login", Handler: hc.Login},
		core.Route{Method: http.MethodPost, Path: "/system/logout", Handler: hc.Logout},
		core.Route{Method: http.MethodPost, Path: "/system/password/reset", Handler: hc.ResetPasswordHandler},
		core.Route{Method: http.MethodGet, Path: "/system/me", Handler: hc.GetMeHandler},

		core.Route{Method: http.MethodGet, Path: "/system/accounts", Handler: hc.GetAccountsHandler},
		core.Route{Method: http.MethodPost, Path: "/system/accounts", Handler: hc.SaveAccountHandler},
		core.Route{Method: http.MethodDelete, Path: "/system/accounts/{accountId}", Handler: hc.DeleteAccountHandler},

		core.Route{Method: http.MethodGet, Path: "/system/ws/ticket", Handler: hc.GetWSTicketHandler},
		core.Route{Method: http.MethodGet, Path: "/ws/{ticket}", Handler: hc.HandleConnections},
	}

	return &SystemBundle{routes: r}
}

// GetRoutes returns all bundle routes
func (b *SystemBundle) GetRoutes() []core.Route {
	return b.routes
}
