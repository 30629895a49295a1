package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	regMu     sync.RWMutex
	providers = map[string]Provider{} // name -> provider
)

// Called by each provider in its init()
func register(p Provider) {
	regMu.Lock()
	providers[p.Name()] = p
	regMu.Unlock()
}

// Lookup returns the registered provider called name.
func Lookup(name string) (Provider, error) {
	regMu.RLock()
	p, ok := providers[name]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// Used by the CLI to show available providers
func ListProviders() []ProviderInfo {
	regMu.RLock()
	defer regMu.RUnlock()

	out := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		info := ProviderInfo{Name: p.Name(), Available: p.Available()}
		if d, ok := p.(interface {
			Model() string
			KeyEnv() []string
		}); ok {
			info.Model = d.Model()
			info.KeyEnv = d.KeyEnv()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Generate runs p and fills in the bookkeeping fields of the result.
func Generate(ctx context.Context, p Provider, in GenerateInput) (Result, error) {
	start := time.Now()
	res, err := p.Generate(ctx, in)
	if err != nil {
		return Result{}, err
	}
	if res.Provider == "" {
		res.Provider = p.Name()
	}
	if res.GenerationTime == "" {
		res.GenerationTime = time.Since(start).Round(100 * time.Millisecond).String()
	}
	return res, nil
}

// WithModel returns a copy of p that uses model instead of its default.
// An empty model returns p unchanged.
func WithModel(p Provider, model string) Provider {
	if model == "" {
		return p
	}
	switch v := p.(type) {
	case *GeminiProvider:
		cp := *v
		cp.ModelID = model
		return &cp
	case *AnthropicProvider:
		cp := *v
		cp.ModelID = model
		return &cp
	case *OpenAIProvider:
		cp := *v
		cp.ModelID = model
		return &cp
	}
	return p
}
