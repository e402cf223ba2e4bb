// Package mealplan defines meal-plan preferences and the stored meal plan
package mealplan

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
)

// Plan is a generated meal plan together with the preferences it was built from.
type Plan struct {
	id          uuid.UUID
	ownerID     string
	preferences Preferences
	title       string
	content     string
	createdAt   time.Time
}

// NewPlan creates a plan for a fresh generation
func NewPlan(ownerID string, prefs Preferences, content string) (*Plan, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	prefs = prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	return &Plan{
		id:          uuid.New(),
		ownerID:     ownerID,
		preferences: prefs,
		title:       document.ExtractTitleOr(content, document.MealPlanTitle),
		content:     content,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructPlan rebuilds a plan loaded from storage
func ReconstructPlan(id uuid.UUID, ownerID string, prefs Preferences, title, content string, createdAt time.Time) *Plan {
	return &Plan{
		id:          id,
		ownerID:     ownerID,
		preferences: prefs,
		title:       title,
		content:     content,
		createdAt:   createdAt,
	}
}

// ID returns the plan's unique identifier
func (p *Plan) ID() uuid.UUID {
	return p.id
}

// OwnerID returns the id of the user the plan was generated for
func (p *Plan) OwnerID() string {
	return p.ownerID
}

// Preferences returns the preferences the plan was generated from
func (p *Plan) Preferences() Preferences {
	return p.preferences
}

// Title returns the title extracted at creation time
func (p *Plan) Title() string {
	return p.title
}

// Content returns the raw generated text
func (p *Plan) Content() string {
	return p.content
}

// CreatedAt returns when the plan was stored
func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

// Document assembles the stored text into the meal-plan view.
func (p *Plan) Document() document.ParsedDocument {
	return document.MealPlanView.Assemble(p.content)
}
