// -----------------------------------------------------------------------
// Identity Resolver - names an unknown caller number by trying an
// ordered chain of lookup strategies until one produces a result
// -----------------------------------------------------------------------

package identity

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/interfaces"
	"github.com/ternarybob/callwatch/internal/models"
)

// Resolver runs lookup strategies in order and returns the first hit.
type Resolver struct {
	strategies []interfaces.IdentityStrategy
	logger     arbor.ILogger
}

// NewResolver builds the default chain: anonymous sentinel, local
// phonebook, telnavi.jp scrape, Google Custom Search (inactive unless
// credentials are configured).
func NewResolver(config *common.Config, logger arbor.ILogger) *Resolver {
	return &Resolver{
		strategies: []interfaces.IdentityStrategy{
			NewAnonymousStrategy(),
			NewPhonebookStrategy(config.Phonebook.Path),
			NewTelnaviStrategy(),
			NewGoogleSearchStrategy(&config.GoogleSearch),
		},
		logger: logger,
	}
}

// NewResolverWithStrategies builds a resolver over an explicit chain
func NewResolverWithStrategies(logger arbor.ILogger, strategies ...interfaces.IdentityStrategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		logger:     logger,
	}
}

// Resolve tries each strategy in order and returns the first non-nil
// result. A strategy failure is logged and treated as a miss so the
// rest of the chain still runs; nil means every strategy missed.
func (r *Resolver) Resolve(ctx context.Context, number string) *models.Identity {
	for _, strategy := range r.strategies {
		result, err := strategy.Search(ctx, number)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("strategy", strategy.Name()).
				Str("number", number).
				Msg("Identity lookup failed")
			continue
		}
		if result != nil {
			r.logger.Debug().
				Str("strategy", strategy.Name()).
				Str("number", number).
				Msg("Identity resolved")
			return result
		}
	}
	return nil
}
