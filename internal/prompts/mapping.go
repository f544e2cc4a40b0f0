package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/compass/pkg/query"
	"github.com/JaimeStill/compass/pkg/repository"
)

const returning = ` RETURNING id, name, stage, instructions, description, active`

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{Field: "Name"}

// Filters narrows prompt listings. Name matches as a case-insensitive substring.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads stage, name, and active from query parameters.
// An unparsable active value is dropped.
func FiltersFromQuery(values url.Values) Filters {
	f := Filters{}
	if v := values.Get("stage"); v != "" {
		stage := Stage(v)
		f.Stage = &stage
	}
	if v := values.Get("name"); v != "" {
		f.Name = &v
	}
	if active, err := strconv.ParseBool(values.Get("active")); err == nil {
		f.Active = &active
	}
	return f
}

func scanPrompt(s repository.Scanner) (p Prompt, err error) {
	err = s.Scan(&p.ID, &p.Name, &p.Stage, &p.Instructions, &p.Description, &p.Active)
	return p, err
}
