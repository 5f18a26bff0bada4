package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value    string
	Version  string
	Metadata map[string]string
}

// SecretManager retrieves secret material (the gateway working key and access
// code) from a secret management backend. Implementations handle
// authentication with the backend and short-lived caching; the service reads
// secrets once at startup.
type SecretManager interface {
	// GetSecret retrieves a secret by its path/name. Path format depends on
	// the backend:
	//   - AWS:   secret name or full ARN
	//   - Vault: KV path under the configured mount
	//   - env:   environment variable name
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
