// Package query builds parameterized PostgreSQL SELECT statements over a
// projection of logical field names onto table columns.
package query

import "strings"

// ProjectionMap maps logical field names to alias-qualified columns of one table.
// Field lookups ignore case, so "createdAt" resolves to "CreatedAt".
type ProjectionMap struct {
	from    string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap over schema.table aliased as alias.
// An empty schema leaves the table unqualified.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	from := table
	if schema != "" {
		from = schema + "." + table
	}
	return &ProjectionMap{
		from:    from + " " + alias,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to field. Columns are selected in projection order.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[strings.ToLower(field)] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the table reference with its alias.
func (p *ProjectionMap) From() string {
	return p.from
}

// Has reports whether field is projected.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.columns[strings.ToLower(field)]
	return ok
}

// Column returns the qualified column for field. Unmapped names pass through.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[strings.ToLower(field)]; ok {
		return col
	}
	return field
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
