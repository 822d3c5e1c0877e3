package driven

import "context"

// Credential is a resolved embedding provider API key and where it
// came from (for diagnostics, never logged with the key).
type Credential struct {
	Key    string
	Source string
}

// CredentialProvider resolves an embedding provider API key.
// Providers are composed in priority order (environment first, then the
// config store); resolution happens per embedding call, so a key
// changed at runtime is picked up without restart.
type CredentialProvider interface {
	// Resolve returns the credential, or domain.ErrCredentialMissing
	// when this provider has none.
	Resolve(ctx context.Context) (*Credential, error)
}
