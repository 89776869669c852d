package identity

import (
	"context"

	"github.com/ternarybob/callwatch/internal/models"
)

// anonymousNumber is the literal token the router logs for withheld
// caller IDs. Only this exact value triggers the shortcut; an empty
// (unparseable) number does not.
const anonymousNumber = "anonymous"

const anonymousLabel = "非通知着信"

// AnonymousStrategy short-circuits the chain for withheld caller IDs.
type AnonymousStrategy struct{}

func NewAnonymousStrategy() *AnonymousStrategy {
	return &AnonymousStrategy{}
}

func (s *AnonymousStrategy) Name() string {
	return anonymousLabel
}

func (s *AnonymousStrategy) Search(_ context.Context, number string) (*models.Identity, error) {
	if number != anonymousNumber {
		return nil, nil
	}
	return &models.Identity{
		Kind:   models.IdentityName,
		Name:   anonymousLabel,
		Source: anonymousLabel,
	}, nil
}
