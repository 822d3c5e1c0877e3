package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// fakeConfig implements driven.ConfigStore over a map.
type fakeConfig struct {
	values map[string]any
}

var _ driven.ConfigStore = (*fakeConfig)(nil)

func (f *fakeConfig) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfig) GetString(key string) string {
	if s, ok := f.values[key].(string); ok {
		return s
	}
	return ""
}

func (f *fakeConfig) GetInt(key string) int       { return 0 }
func (f *fakeConfig) GetFloat(key string) float64 { return 0 }

func (f *fakeConfig) Set(key string, value any) error {
	f.values[key] = value
	return nil
}

func (f *fakeConfig) Load() error  { return nil }
func (f *fakeConfig) Path() string { return "/dev/null" }

func TestEnvProvider(t *testing.T) {
	t.Setenv(EnvVar, "env-key")

	cred, err := (&EnvProvider{}).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.Key)
	assert.Equal(t, "env:"+EnvVar, cred.Source)
}

func TestEnvProvider_Missing(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := (&EnvProvider{}).Resolve(context.Background())

	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestConfigProvider(t *testing.T) {
	cfg := &fakeConfig{values: map[string]any{ConfigKey: "config-key"}}

	cred, err := (&ConfigProvider{Config: cfg}).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "config-key", cred.Key)
	assert.Equal(t, "config:"+ConfigKey, cred.Source)
}

func TestConfigProvider_Missing(t *testing.T) {
	cfg := &fakeConfig{values: map[string]any{}}

	_, err := (&ConfigProvider{Config: cfg}).Resolve(context.Background())

	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestChain_EnvBeforeConfig(t *testing.T) {
	t.Setenv(EnvVar, "env-key")
	cfg := &fakeConfig{values: map[string]any{ConfigKey: "config-key"}}

	chain := NewChain(
		&EnvProvider{},
		&ConfigProvider{Config: cfg},
	)

	cred, err := chain.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.Key)
}

func TestChain_FallsThroughToConfig(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg := &fakeConfig{values: map[string]any{ConfigKey: "config-key"}}

	chain := NewChain(
		&EnvProvider{},
		&ConfigProvider{Config: cfg},
	)

	cred, err := chain.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "config-key", cred.Key)
	assert.Equal(t, "config:"+ConfigKey, cred.Source)
}

func TestChain_AllMissing(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg := &fakeConfig{values: map[string]any{}}

	chain := NewChain(
		&EnvProvider{},
		&ConfigProvider{Config: cfg},
	)

	_, err := chain.Resolve(context.Background())

	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}
