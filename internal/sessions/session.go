// Package sessions implements the session archive for Compass. A session is
// the scored record of a completed assessment, stored in Postgres, with its
// generated report archived as markdown in blob storage.
package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/compass/internal/assessment"
)

// Session is a completed assessment with its score breakdown and report reference.
type Session struct {
	ID            uuid.UUID          `json:"id"`
	Industry      string             `json:"industry"`
	UserName      *string            `json:"user_name"`
	Tier          assessment.Tier    `json:"tier"`
	Score         int                `json:"score"`
	RawScore      int                `json:"raw_score"`
	LowPercent    float64            `json:"low_percent"`
	SafetyNet     bool               `json:"safety_net"`
	ExtractedTier *assessment.Tier   `json:"extracted_tier"`
	Provider      string             `json:"provider"`
	QuestionCount int                `json:"question_count"`
	History       assessment.History `json:"history"`
	ReportKey     string             `json:"report_key"`
	ReportSize    int64              `json:"report_size"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CreateCommand carries a finished assessment to be archived.
type CreateCommand struct {
	Industry      string
	UserName      *string
	Breakdown     assessment.Breakdown
	Provider      string
	ExtractedTier *assessment.Tier
	History       assessment.History
	Report        string
}
