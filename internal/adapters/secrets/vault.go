package secrets

import (
	"context"
	"fmt"
	"path"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault backend
type VaultConfig struct {
	// Vault server address, e.g. "https://vault.example.com:8200"
	Address string

	// Token authentication
	Token string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV v2 secrets engine mount path (default "secret")
	MountPath string
}

type vaultSecretManager struct {
	client    *vault.Client
	mountPath string
	logger    *zap.Logger
}

// NewVaultSecretManager creates a secret manager backed by Vault's KV v2 engine
func NewVaultSecretManager(cfg VaultConfig, logger *zap.Logger) (ports.SecretManager, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	mountPath := cfg.MountPath
	if mountPath == "" {
		mountPath = "secret"
	}

	logger.Info("Vault backend initialized",
		zap.String("address", cfg.Address),
		zap.String("mount_path", mountPath),
	)

	return &vaultSecretManager{
		client:    client,
		mountPath: mountPath,
		logger:    logger,
	}, nil
}

func (m *vaultSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	fullPath := path.Join(m.mountPath, "data", secretPath)

	resp, err := m.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		m.logger.Error("failed to read secret from vault", zap.String("path", secretPath), zap.Error(err))
		return nil, fmt.Errorf("read secret %s: %w", secretPath, err)
	}
	if resp == nil || resp.Data == nil {
		return nil, fmt.Errorf("secret not found: %s", secretPath)
	}

	// KV v2 wraps the payload under "data"
	data, ok := resp.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected secret format at %s", secretPath)
	}

	value, ok := data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("secret at %s has no string value field", secretPath)
	}

	version := ""
	if metadata, ok := resp.Data["metadata"].(map[string]interface{}); ok {
		if v, ok := metadata["version"]; ok {
			version = fmt.Sprintf("%v", v)
		}
	}

	return &ports.Secret{
		Value:   value,
		Version: version,
	}, nil
}
