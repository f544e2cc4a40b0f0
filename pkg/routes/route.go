package routes

import "net/http"

// Route binds a method and a ServeMux path pattern (relative to its group) to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
