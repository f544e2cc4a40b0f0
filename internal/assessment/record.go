// Package assessment implements the adaptive assessment engine: the phase
// state machine, the duplicate-question guard, heuristic answer scoring, and
// tier classification. Every function in this package is pure.
package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxQuestions is the number of answered questions that completes a session.
const MaxQuestions = 20

// AnswerType identifies how a question is answered and therefore how it is scored.
type AnswerType string

const (
	AnswerScale    AnswerType = "scale"
	AnswerRadio    AnswerType = "radio"
	AnswerCheckbox AnswerType = "checkbox"
	AnswerText     AnswerType = "text"
)

// Valid reports whether t is one of the known answer types.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerScale, AnswerRadio, AnswerCheckbox, AnswerText:
		return true
	}
	return false
}

// Answer holds either a single text value or a list of selections.
// On the wire it is a JSON string, number, array of strings, or null.
type Answer struct {
	text   string
	list   []string
	isList bool
}

// TextAnswer creates a single-value answer.
func TextAnswer(s string) Answer {
	return Answer{text: s}
}

// ListAnswer creates a multi-selection answer.
func ListAnswer(items ...string) Answer {
	return Answer{list: items, isList: true}
}

// IsList reports whether the answer was given as a list of selections.
func (a Answer) IsList() bool {
	return a.isList
}

// Text returns the answer as a single string. Lists are joined with ", ".
func (a Answer) Text() string {
	if a.isList {
		return strings.Join(a.list, ", ")
	}
	return a.text
}

// String implements fmt.Stringer and is the serialized form used for keyword scans.
func (a Answer) String() string {
	return a.Text()
}

// Selections returns the selected options. A single-value answer is split on
// commas with empty entries dropped.
func (a Answer) Selections() []string {
	var raw []string
	if a.isList {
		raw = a.list
	} else {
		raw = strings.Split(a.text, ",")
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// MarshalJSON encodes lists as arrays and everything else as a string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.isList {
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts a string, number, array of strings, or null.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("answer list must contain strings: %w", err)
		}
		*a = ListAnswer(items...)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, number, or list: %w", err)
		}
		*a = TextAnswer(n.String())
	}
	return nil
}

// AnswerRecord is one answered question in a session history.
type AnswerRecord struct {
	Question     string     `json:"question" validate:"required"`
	Answer       Answer     `json:"answer"`
	Phase        string     `json:"phase" validate:"required"`
	AnswerType   AnswerType `json:"answerType" validate:"required,oneof=scale radio checkbox text"`
	Options      []string   `json:"options"`
	Reasoning    *string    `json:"reasoning"`
	AnswerSource string     `json:"answerSource,omitempty"`
}

// History is the ordered, append-only record of answered questions.
type History []AnswerRecord

// CountPhase returns the number of records belonging to phase.
func (h History) CountPhase(phase string) int {
	count := 0
	for _, r := range h {
		if r.Phase == phase {
			count++
		}
	}
	return count
}

// Asked reports whether question exactly matches a previously asked question.
func (h History) Asked(question string) bool {
	for _, r := range h {
		if r.Question == question {
			return true
		}
	}
	return false
}

// Complete reports whether the history has reached MaxQuestions.
func (h History) Complete() bool {
	return len(h) >= MaxQuestions
}
