package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Resolver resolves wallet-service credentials from the secrets provider,
// caching results locally to reduce API calls.
//
// Secret naming convention: {env}/wallet/{walletID}
type Resolver struct {
	logger   *zap.Logger
	env      string
	provider Provider
	cache    *Cache[WalletCredentials]
}

// NewResolver constructs a wallet credentials resolver.
func NewResolver(logger *zap.Logger, env string, provider Provider, cache *Cache[WalletCredentials]) *Resolver {
	return &Resolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

// secretName builds the secret manager key for a wallet.
func (r *Resolver) secretName(walletID string) string {
	return strings.ToLower(fmt.Sprintf("%s/wallet/%s", r.env, walletID))
}

// Resolve fetches or caches the credentials for a wallet ID.
func (r *Resolver) Resolve(ctx context.Context, walletID string) (WalletCredentials, error) {
	key := strings.ToLower(walletID)

	if creds, ok := r.cache.Get(key); ok {
		return creds, nil
	}

	name := r.secretName(walletID)
	secretMap, err := r.provider.GetSecret(ctx, name)
	if err != nil {
		r.logger.Warn("secrets.fetch_failed",
			zap.String("key", name),
			zap.Error(err))
		return WalletCredentials{}, fmt.Errorf("resolve wallet credentials for %q: %w", walletID, err)
	}

	creds := WalletCredentials{
		KeypairPath: secretMap["keypair_path"],
		RPCURL:      secretMap["rpc_url"],
		APIKey:      secretMap["api_key"],
	}
	if creds.RPCURL == "" {
		return WalletCredentials{}, fmt.Errorf("secret %q missing rpc_url", name)
	}

	r.cache.Put(key, creds)
	r.logger.Info("secrets.wallet_credentials_resolved", zap.String("wallet", walletID))
	return creds, nil
}
