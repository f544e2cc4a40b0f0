// Package prompts implements the prompt catalog for Compass: compiled default
// instructions and output specifications per generation stage, plus named
// instruction overrides stored in Postgres with at most one active per stage.
package prompts

import "github.com/google/uuid"

// Prompt represents a named instruction override for a generation stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand is the body of POST /prompts. New prompts start inactive.
type CreateCommand struct {
	Name         string  `json:"name" validate:"required,max=128"`
	Stage        Stage   `json:"stage" validate:"required"`
	Instructions string  `json:"instructions" validate:"required"`
	Description  *string `json:"description" validate:"omitempty,max=512"`
}

// UpdateCommand replaces every editable field of a prompt.
type UpdateCommand CreateCommand
