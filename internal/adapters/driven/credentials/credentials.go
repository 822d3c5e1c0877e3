// Package credentials resolves the embedding provider API key from the
// environment or the config file, in that order.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// EnvVar is the environment variable consulted first.
const EnvVar = "VOYAGE_API_KEY"

// ConfigKey is the config file key consulted as a fallback.
const ConfigKey = "embedding.api_key"

var (
	_ driven.CredentialProvider = (*EnvProvider)(nil)
	_ driven.CredentialProvider = (*ConfigProvider)(nil)
	_ driven.CredentialProvider = (*Chain)(nil)
)

// EnvProvider resolves the API key from an environment variable.
type EnvProvider struct {
	// Var overrides the variable name. Defaults to EnvVar.
	Var string
}

// Resolve returns the key from the environment, or ErrCredentialMissing
// when the variable is unset or empty.
func (p *EnvProvider) Resolve(_ context.Context) (*driven.Credential, error) {
	name := p.Var
	if name == "" {
		name = EnvVar
	}

	key := os.Getenv(name)
	if key == "" {
		return nil, fmt.Errorf("%w: %s not set", domain.ErrCredentialMissing, name)
	}

	return &driven.Credential{Key: key, Source: "env:" + name}, nil
}

// ConfigProvider resolves the API key from the config store.
type ConfigProvider struct {
	Config driven.ConfigStore

	// Key overrides the config key. Defaults to ConfigKey.
	Key string
}

// Resolve returns the key from config, or ErrCredentialMissing when the
// key is absent or empty.
func (p *ConfigProvider) Resolve(_ context.Context) (*driven.Credential, error) {
	name := p.Key
	if name == "" {
		name = ConfigKey
	}

	key := p.Config.GetString(name)
	if key == "" {
		return nil, fmt.Errorf("%w: config key %q not set", domain.ErrCredentialMissing, name)
	}

	return &driven.Credential{Key: key, Source: "config:" + name}, nil
}

// Chain tries each provider in order and returns the first credential
// found.
type Chain struct {
	Providers []driven.CredentialProvider
}

// NewChain builds a chain over the given providers.
func NewChain(providers ...driven.CredentialProvider) *Chain {
	return &Chain{Providers: providers}
}

// Resolve returns the first resolvable credential. A provider failing
// with ErrCredentialMissing falls through to the next; any other error
// stops the chain.
func (c *Chain) Resolve(ctx context.Context) (*driven.Credential, error) {
	for _, p := range c.Providers {
		cred, err := p.Resolve(ctx)
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, domain.ErrCredentialMissing) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no provider supplied an API key", domain.ErrCredentialMissing)
}
