package core

import "net/http"

// Route binds one handler to a method and path below /api/v1/.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Bundle groups the routes of one application area.
type Bundle interface {
	GetRoutes() []Route
}
