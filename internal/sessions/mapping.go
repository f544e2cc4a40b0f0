package sessions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/pkg/query"
	"github.com/JaimeStill/compass/pkg/repository"
)

const columns = `id, industry, user_name, tier, score, raw_score, low_percent, safety_net,
		extracted_tier, provider, question_count, history, report_key, report_size, created_at`

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("industry", "Industry").
	Project("user_name", "UserName").
	Project("tier", "Tier").
	Project("score", "Score").
	Project("raw_score", "RawScore").
	Project("low_percent", "LowPercent").
	Project("safety_net", "SafetyNet").
	Project("extracted_tier", "ExtractedTier").
	Project("provider", "Provider").
	Project("question_count", "QuestionCount").
	Project("history", "History").
	Project("report_key", "ReportKey").
	Project("report_size", "ReportSize").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored. Tier, Provider, and SafetyNet use exact matching.
// Industry uses case-insensitive contains matching. MinScore and MaxScore
// are inclusive bounds on the final score.
type Filters struct {
	Tier      *assessment.Tier `json:"tier,omitempty"`
	Industry  *string          `json:"industry,omitempty"`
	Provider  *string          `json:"provider,omitempty"`
	SafetyNet *bool            `json:"safety_net,omitempty"`
	MinScore  *int             `json:"min_score,omitempty"`
	MaxScore  *int             `json:"max_score,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Tier", f.Tier).
		WhereContains("Industry", f.Industry).
		WhereEquals("Provider", f.Provider).
		WhereEquals("SafetyNet", f.SafetyNet).
		WhereRange("Score", f.MinScore, f.MaxScore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown tiers and unparsable numbers are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("tier"); t != "" {
		if tier, ok := assessment.ParseTier(t); ok {
			f.Tier = &tier
		}
	}

	if i := values.Get("industry"); i != "" {
		f.Industry = &i
	}

	if p := values.Get("provider"); p != "" {
		f.Provider = &p
	}

	if sn := values.Get("safety_net"); sn != "" {
		if v, err := strconv.ParseBool(sn); err == nil {
			f.SafetyNet = &v
		}
	}

	if s := values.Get("min_score"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.MinScore = &v
		}
	}

	if s := values.Get("max_score"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.MaxScore = &v
		}
	}

	return f
}

func scanSession(s repository.Scanner) (Session, error) {
	var (
		out     Session
		history []byte
	)
	err := s.Scan(
		&out.ID,
		&out.Industry,
		&out.UserName,
		&out.Tier,
		&out.Score,
		&out.RawScore,
		&out.LowPercent,
		&out.SafetyNet,
		&out.ExtractedTier,
		&out.Provider,
		&out.QuestionCount,
		&history,
		&out.ReportKey,
		&out.ReportSize,
		&out.CreatedAt,
	)
	if err != nil {
		return out, err
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &out.History); err != nil {
			return out, fmt.Errorf("decode history: %w", err)
		}
	}
	return out, nil
}

func reportKey(id fmt.Stringer) string {
	return id.String() + ".md"
}
