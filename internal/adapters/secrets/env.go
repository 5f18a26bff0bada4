package secrets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/adapters/ports"
)

// envSecretManager reads secrets from environment variables.
// Development only; production deployments use AWS Secrets Manager or Vault.
type envSecretManager struct {
	logger *zap.Logger
}

// NewEnvSecretManager creates a secret manager backed by the process environment
func NewEnvSecretManager(logger *zap.Logger) ports.SecretManager {
	return &envSecretManager{logger: logger}
}

func (m *envSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	value := os.Getenv(path)
	if value == "" {
		return nil, fmt.Errorf("secret not set: %s", path)
	}

	m.logger.Debug("secret read from environment", zap.String("path", path))

	return &ports.Secret{
		Value:   value,
		Version: "env",
	}, nil
}
