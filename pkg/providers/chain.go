package providers

import (
	"context"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// DefaultChain is the fallback order used when none is configured.
var DefaultChain = []model.Provider{model.ProviderDeepSeek, model.ProviderGemini, model.ProviderGoogleSearch}

// Chain asks providers in order until one answers.
type Chain struct {
	keys    *KeyManager
	order   []model.Provider
	clients map[model.Provider]Client
	lggr    logger.Logger
}

// NewChain builds a chain over clients. Providers of order without a
// client are skipped, and a provider listed twice is only tried once.
func NewChain(keys *KeyManager, order []model.Provider, lggr logger.Logger, clients ...Client) *Chain {
	if len(order) == 0 {
		order = DefaultChain
	}
	c := &Chain{
		keys:    keys,
		clients: make(map[model.Provider]Client, len(clients)),
		lggr:    lggr.Named("Chain"),
	}
	for _, cl := range clients {
		c.clients[cl.Provider()] = cl
	}

	seen := make(map[model.Provider]bool)
	for _, p := range order {
		if seen[p] {
			continue
		}
		seen[p] = true
		c.order = append(c.order, p)
	}
	return c
}

// Order returns the effective fallback order.
func (c *Chain) Order() []model.Provider {
	out := make([]model.Provider, len(c.order))
	copy(out, c.order)
	return out
}

// Ask puts question to each provider in turn. An empty question is a
// validation error; total failure is not an error and yields Answer{}.
func (c *Chain) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, apperror.New(apperror.Validation, "question is required")
	}

	var lastErr error
	for _, p := range c.order {
		client, ok := c.clients[p]
		if !ok || !c.keys.HasKeys(p) {
			c.lggr.Debugw("Skipping provider without keys", "provider", p)
			continue
		}

		answer, err := ExecuteWithRetry(ctx, c.keys, p, func(ctx context.Context, key Key) (Answer, error) {
			return client.Ask(ctx, key, question)
		})
		if err == nil {
			answer.Provider = p
			return answer, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.lggr.Warnw("Provider failed, falling back", "provider", p, "err", err)
	}

	appErr := &apperror.AppError{
		Type:    apperror.ExternalService,
		Message: "all providers failed",
		Err:     lastErr,
	}
	c.lggr.Errorw("No provider could answer, returning empty result", "type", string(appErr.Type), "err", appErr)
	return Answer{}, nil
}

// ExhaustedProviders returns the chain providers that have no active key.
func (c *Chain) ExhaustedProviders() []model.Provider {
	var out []model.Provider
	for _, p := range c.order {
		if c.keys.ActiveCount(p) == 0 {
			out = append(out, p)
		}
	}
	return out
}
