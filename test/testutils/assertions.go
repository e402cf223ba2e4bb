// Package testutils provides custom assertions for domain-specific testing
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
)

// DocumentAssertions provides assertions for assembled documents
type DocumentAssertions struct {
	t *testing.T
}

// NewDocumentAssertions creates new document assertions
func NewDocumentAssertions(t *testing.T) *DocumentAssertions {
	return &DocumentAssertions{t: t}
}

// HasLabels asserts that every label has an entry with at least one item
func (da *DocumentAssertions) HasLabels(doc document.ParsedDocument, labels ...string) {
	assert.NotEmpty(da.t, doc.Title, "document should have a title")
	for _, label := range labels {
		items, ok := doc.Sections[label]
		if assert.True(da.t, ok, "document should have section %q", label) {
			assert.NotEmpty(da.t, items, "section %q should not be empty", label)
		}
	}
}

// Found asserts that label was present in the source text
func (da *DocumentAssertions) Found(doc document.ParsedDocument, label string) {
	assert.False(da.t, document.IsPlaceholder(doc.Sections[label]), "section %q should have been found", label)
}

// Missing asserts that label fell back to the placeholder
func (da *DocumentAssertions) Missing(doc document.ParsedDocument, label string) {
	assert.True(da.t, document.IsPlaceholder(doc.Sections[label]), "section %q should be the placeholder", label)
}

// HTTPAssertions provides assertions for recorded HTTP responses
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates new HTTP assertions
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// JSONResponse asserts the status and decodes the body into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, expectedCode int, target interface{}) {
	require.Equal(ha.t, expectedCode, rec.Code, "unexpected status, body: %s", rec.Body.String())
	assert.Contains(ha.t, rec.Header().Get("Content-Type"), "application/json")
	if target != nil {
		require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target))
	}
}

// ErrorCode asserts an error envelope with the given status and code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	ha.JSONResponse(rec, expectedStatus, &body)
	assert.False(ha.t, body.Success)
	assert.Equal(ha.t, expectedCode, body.Error.Code)
}
