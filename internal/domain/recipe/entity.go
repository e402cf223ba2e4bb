// Package recipe defines the stored recipe record
package recipe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
)

// MaxPromptLength is the longest prompt accepted, in characters.
const MaxPromptLength = 500

// Record is one generated recipe as it was stored: the user's prompt and
// the raw text returned by the generative API.
type Record struct {
	id        uuid.UUID
	ownerID   string
	prompt    string
	title     string
	content   string
	createdAt time.Time
}

// NewRecord creates a record for a fresh generation
func NewRecord(ownerID, prompt, content string) (*Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	prompt, err := ValidatePrompt(prompt)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	return &Record{
		id:        uuid.New(),
		ownerID:   ownerID,
		prompt:    prompt,
		title:     document.ExtractTitle(content),
		content:   content,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructRecord rebuilds a record loaded from storage
func ReconstructRecord(id uuid.UUID, ownerID, prompt, title, content string, createdAt time.Time) *Record {
	return &Record{
		id:        id,
		ownerID:   ownerID,
		prompt:    prompt,
		title:     title,
		content:   content,
		createdAt: createdAt,
	}
}

// ValidatePrompt trims prompt and checks it is usable.
func ValidatePrompt(prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return "", ErrPromptTooLong
	}
	return prompt, nil
}

// ID returns the record's unique identifier
func (r *Record) ID() uuid.UUID {
	return r.id
}

// OwnerID returns the id of the user the recipe was generated for
func (r *Record) OwnerID() string {
	return r.ownerID
}

// Prompt returns the user's request
func (r *Record) Prompt() string {
	return r.prompt
}

// Title returns the title extracted at creation time
func (r *Record) Title() string {
	return r.title
}

// Content returns the raw generated text
func (r *Record) Content() string {
	return r.content
}

// CreatedAt returns when the record was stored
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// Document assembles the stored text into the recipe view.
func (r *Record) Document() document.ParsedDocument {
	return document.RecipeView.Assemble(r.content)
}
