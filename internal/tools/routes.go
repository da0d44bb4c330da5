package tools

import (
	"fmt"
	"strings"
)

// routeAlias maps one user-facing page label to its canonical path.
type routeAlias struct {
	Alias string
	Path  string
}

// routeAliases is the navigation alias table. Declared as an explicit pair
// list (not a map literal) so duplicate aliases can be detected at startup.
var routeAliases = []routeAlias{
	{"home", "/"},
	{"dashboard", "/dashboard"},
	{"users", "/users"},
	{"clients", "/clients"},
	{"analytics", "/analytics"},
	{"calendar", "/calendar"},
	{"user management", "/users"},
	{"client management", "/clients"},
	{"user page", "/users"},
	{"client page", "/clients"},
}

// RouteTable resolves page labels to application paths.
type RouteTable struct {
	routes map[string]string
}

// NewRouteTable compiles the alias table, rejecting duplicate aliases that
// map to different paths.
func NewRouteTable() (*RouteTable, error) {
	return newRouteTable(routeAliases)
}

func newRouteTable(aliases []routeAlias) (*RouteTable, error) {
	routes := make(map[string]string, len(aliases))
	for _, ra := range aliases {
		key := strings.ToLower(strings.TrimSpace(ra.Alias))
		if existing, ok := routes[key]; ok && existing != ra.Path {
			return nil, fmt.Errorf("route alias %q maps to both %q and %q", key, existing, ra.Path)
		}
		routes[key] = ra.Path
	}
	return &RouteTable{routes: routes}, nil
}

// Resolve returns the path for a page label. Lookup is case-insensitive and
// ignores surrounding whitespace. Unknown labels fall back to "/" plus the
// lowercased label with whitespace runs replaced by single hyphens.
func (t *RouteTable) Resolve(page string) string {
	key := strings.ToLower(strings.TrimSpace(page))
	if path, ok := t.routes[key]; ok {
		return path
	}
	return "/" + strings.Join(strings.Fields(key), "-")
}

// Pages returns every known page label, for the navigation tool description.
func (t *RouteTable) Pages() []string {
	pages := make([]string, 0, len(routeAliases))
	for _, ra := range routeAliases {
		pages = append(pages, ra.Alias)
	}
	return pages
}
