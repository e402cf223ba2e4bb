package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
	"github.com/nutrino-ai/nutrino/pkg/errors"
)

// PlaceholderRecorder counts sections that came back empty
type PlaceholderRecorder interface {
	PlaceholderSections(view string, labels []string)
}

// ParseHandlers runs the document parser over caller-supplied text
type ParseHandlers struct {
	validate *validator.Validate
	metrics  PlaceholderRecorder
}

// NewParseHandlers creates a new parse handlers instance
func NewParseHandlers(validate *validator.Validate, metrics PlaceholderRecorder) *ParseHandlers {
	return &ParseHandlers{validate: validate, metrics: metrics}
}

// ParseRequest selects either a named view or an explicit label list
type ParseRequest struct {
	Content string   `json:"content" validate:"required,max=100000"`
	View    string   `json:"view" validate:"omitempty,max=50"`
	Labels  []string `json:"labels" validate:"max=20,dive,required,max=100"`
}

// Parse handles POST /api/parse
func (h *ParseHandlers) Parse(c *gin.Context) {
	var req ParseRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	var doc document.ParsedDocument
	viewName := "custom"
	switch {
	case req.View != "":
		view, ok := document.ViewByName(req.View)
		if !ok {
			fail(c, errors.NewValidationError("unknown view "+req.View).WithMetadata("field", "view"))
			return
		}
		doc = view.Assemble(req.Content)
		viewName = view.Name
	case len(req.Labels) > 0:
		doc = document.Assemble(req.Content, req.Labels...)
	default:
		fail(c, errors.NewValidationError("either view or labels is required"))
		return
	}

	if missing := doc.MissingSections(); len(missing) > 0 && h.metrics != nil {
		h.metrics.PlaceholderSections(viewName, missing)
	}

	respond(c, http.StatusOK, doc, "")
}
