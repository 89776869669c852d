package interfaces

import (
	"context"

	"github.com/ternarybob/callwatch/internal/models"
)

// IdentityStrategy is one lookup source in the caller resolution chain.
// A nil result with nil error is a miss; an error is logged by the
// chain and treated as a miss so later strategies still run.
type IdentityStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Search resolves the phone number to an identity, or nil when the
	// strategy has nothing for it.
	Search(ctx context.Context, number string) (*models.Identity, error)
}
