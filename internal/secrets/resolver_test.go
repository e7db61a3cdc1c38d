package secrets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	secrets map[string]map[string]string
	calls   int
}

func (f *fakeProvider) GetSecret(ctx context.Context, key string) (map[string]string, error) {
	f.calls++
	if s, ok := f.secrets[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("secret %s not found", key)
}

func (f *fakeProvider) ListSecrets(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for k := range f.secrets {
		names = append(names, k)
	}
	return names, nil
}

func TestResolver_FetchesAndCaches(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/wallet/treasury": {
			"keypair_path": "/var/lib/gateway/treasury.json",
			"rpc_url":      "https://rpc.example.com",
			"api_key":      "abc123",
		},
	}}
	cache := NewCache[WalletCredentials](time.Minute)
	r := NewResolver(zap.NewNop(), "uat", provider, cache)

	creds, err := r.Resolve(context.Background(), "treasury")
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example.com", creds.RPCURL)
	assert.Equal(t, 1, provider.calls)

	// second resolve hits the cache
	_, err = r.Resolve(context.Background(), "treasury")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestResolver_MissingSecret(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{}}
	cache := NewCache[WalletCredentials](time.Minute)
	r := NewResolver(zap.NewNop(), "uat", provider, cache)

	_, err := r.Resolve(context.Background(), "treasury")
	assert.Error(t, err)
}

func TestResolver_RejectsIncompleteSecret(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/wallet/treasury": {"api_key": "abc123"}, // no rpc_url
	}}
	cache := NewCache[WalletCredentials](time.Minute)
	r := NewResolver(zap.NewNop(), "uat", provider, cache)

	_, err := r.Resolve(context.Background(), "treasury")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rpc_url")
}
