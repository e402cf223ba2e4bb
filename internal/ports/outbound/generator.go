package outbound

import (
	"context"
	"errors"
	"fmt"
)

// TextGenerator produces a loosely structured text document for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
	// Ping checks that the provider is reachable.
	Ping(ctx context.Context) error
}

var (
	// ErrEmptyGeneration is returned when the provider answered without text.
	ErrEmptyGeneration = errors.New("generation returned no text")
	// ErrUpstreamAuth is returned when the provider rejected our credentials.
	ErrUpstreamAuth = errors.New("generation provider rejected credentials")
	// ErrUpstreamRateLimited is returned when the provider throttled the call.
	ErrUpstreamRateLimited = errors.New("generation provider rate limited the request")
)

// UpstreamError is a non-success response from a generation provider.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

// ClientError reports whether the provider refused the request itself
// rather than failing to serve it.
func (e *UpstreamError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// StatusError classifies a non-success provider response.
func StatusError(provider string, status int, body []byte) error {
	switch status {
	case 401, 403:
		return fmt.Errorf("%w: %s returned status %d", ErrUpstreamAuth, provider, status)
	case 429:
		return fmt.Errorf("%w: %s returned status %d", ErrUpstreamRateLimited, provider, status)
	}
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &UpstreamError{Provider: provider, Status: status, Body: string(body)}
}
