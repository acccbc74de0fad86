package provider

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var ErrNotConfigured = errors.New("content provider is not configured")

var _ domain.ContentGenerator = Unconfigured{}

// Unconfigured is used when no API key is set. Cached chapters stay
// readable; everything that needs the provider fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Generate(ctx context.Context, prompt string, schema domain.OutputSchema) ([]byte, error) {
	return nil, ErrNotConfigured
}
