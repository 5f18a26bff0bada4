package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/adapters/ports"
)

// Backend identifiers accepted by New
const (
	BackendEnv   = "env"
	BackendAWS   = "aws"
	BackendVault = "vault"
)

// Config selects and configures the secret management backend
type Config struct {
	Backend string
	AWS     AWSConfig
	Vault   VaultConfig
}

// New constructs the secret manager for the configured backend
func New(ctx context.Context, cfg Config, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Backend {
	case BackendEnv, "":
		return NewEnvSecretManager(logger), nil
	case BackendAWS:
		return NewAWSSecretManager(ctx, cfg.AWS, logger)
	case BackendVault:
		return NewVaultSecretManager(cfg.Vault, logger)
	default:
		return nil, fmt.Errorf("unknown secrets backend: %q", cfg.Backend)
	}
}
