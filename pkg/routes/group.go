package routes

import "net/http"

// Group is a set of routes sharing a path prefix. Children nest under it.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups, and their children, to mux as
// "METHOD prefix+pattern" patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	var walk func(prefix string, g Group)
	walk = func(prefix string, g Group) {
		prefix += g.Prefix
		for _, r := range g.Routes {
			mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
		}
		for _, child := range g.Children {
			walk(prefix, child)
		}
	}

	for _, g := range groups {
		walk("", g)
	}
}
