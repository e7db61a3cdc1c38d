package secrets

import "context"

// WalletCredentials is the decoded shape of a wallet service secret.
// Secrets are stored as JSON maps in the backing secret manager.
type WalletCredentials struct {
	KeypairPath string `json:"keypair_path"`
	RPCURL      string `json:"rpc_url"`
	APIKey      string `json:"api_key,omitempty"`
}

// Provider defines a generic secrets manager interface.
// Concrete implementations (AWS, GCP, etc.) can satisfy this.
type Provider interface {
	// GetSecret retrieves a secret by key/path and returns a key-value map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)

	// ListSecrets returns the names of all secrets whose name matches the given prefix.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}
