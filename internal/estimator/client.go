// Package estimator turns an EC2 configuration into a cost estimate by asking an AI provider.
package estimator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/models"
)

// Estimator is what the form controller depends on.
type Estimator interface {
	Estimate(ctx context.Context, cfg models.Configuration) (*models.CostEstimate, error)
}

// Client is the Estimator backed by an ai.Provider.
type Client struct {
	provider ai.Provider
	logger   zerolog.Logger
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-call records.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithTimeout bounds each provider call. Zero leaves the caller's context alone.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// New returns a Client for provider.
func New(provider ai.Provider, opts ...Option) *Client {
	c := &Client{provider: provider, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProviderName returns the name of the underlying provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// CheckCredentials fails with a MissingCredential error when the provider has no key.
func (c *Client) CheckCredentials() error {
	if c.provider.Available() {
		return nil
	}
	var cause error = errors.New("provider not configured")
	if k, ok := c.provider.(interface{ KeyEnv() []string }); ok {
		cause = ai.ErrMissingKey{Provider: c.provider.Name(), Vars: k.KeyEnv()}
	}
	return &models.EstimationError{Kind: models.KindMissingCredential, Provider: c.provider.Name(), Cause: cause}
}

// Estimate asks the provider for a breakdown of cfg and validates the answer.
// Every failure is an *models.EstimationError.
func (c *Client) Estimate(ctx context.Context, cfg models.Configuration) (*models.CostEstimate, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(cfg)
	start := time.Now()
	res, err := ai.Generate(ctx, c.provider, ai.GenerateInput{Prompt: prompt, Schema: ResponseSchema()})
	if err != nil {
		estErr := c.classify(prompt, err)
		c.logger.Error().
			Err(err).
			Str("provider", c.provider.Name()).
			Str("kind", string(estErr.Kind)).
			Str("detail", estErr.Detail()).
			Dur("elapsed", time.Since(start)).
			Msg("estimate request failed")
		return nil, estErr
	}

	est, err := ParseEstimate(res.Text)
	if err != nil {
		var estErr *models.EstimationError
		detail := err.Error()
		if errors.As(err, &estErr) {
			estErr.Provider = c.provider.Name()
			detail = estErr.Detail()
		}
		c.logger.Warn().
			Str("provider", c.provider.Name()).
			Str("kind", string(models.KindOf(err))).
			Str("detail", detail).
			Msg("estimate response rejected")
		return nil, err
	}

	c.logger.Info().
		Str("provider", res.Provider).
		Str("instance_type", cfg.InstanceType).
		Float64("total_usd", est.TotalMonthlyCostUSD).
		Int("tokens", res.TokensUsed).
		Str("generation_time", res.GenerationTime).
		Msg("estimate received")
	return est, nil
}

func (c *Client) classify(prompt string, err error) *models.EstimationError {
	var missing ai.ErrMissingKey
	if errors.As(err, &missing) {
		return &models.EstimationError{Kind: models.KindMissingCredential, Provider: c.provider.Name(), Cause: missing}
	}
	return &models.EstimationError{
		Kind:     models.KindProviderUnavailable,
		Provider: c.provider.Name(),
		Cause:    &models.AIGenerationError{Provider: c.provider.Name(), Input: prompt, Cause: err},
	}
}
