package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/adapters/ports"
)

// AWSConfig contains configuration for the AWS Secrets Manager backend
type AWSConfig struct {
	Region string

	// Optional AWS profile name for local development
	Profile string

	// Optional custom endpoint for LocalStack testing
	Endpoint string

	// Cache TTL for retrieved secrets (default 5 minutes)
	CacheTTL time.Duration
}

type awsSecretManager struct {
	client *secretsmanager.Client
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]cachedSecret
	ttl   time.Duration
}

type cachedSecret struct {
	secret    *ports.Secret
	expiresAt time.Time
}

// NewAWSSecretManager creates a secret manager backed by AWS Secrets Manager
func NewAWSSecretManager(ctx context.Context, cfg AWSConfig, logger *zap.Logger) (ports.SecretManager, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOptions := []func(*secretsmanager.Options){}
	if cfg.Endpoint != "" {
		clientOptions = append(clientOptions, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	logger.Info("AWS Secrets Manager backend initialized",
		zap.String("region", cfg.Region),
		zap.Duration("cache_ttl", ttl),
	)

	return &awsSecretManager{
		client: secretsmanager.NewFromConfig(awsConfig, clientOptions...),
		logger: logger,
		cache:  make(map[string]cachedSecret),
		ttl:    ttl,
	}, nil
}

func (m *awsSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := m.cachedGet(path); cached != nil {
		return cached, nil
	}

	result, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		m.logger.Error("failed to retrieve secret", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("get secret %s: %w", path, err)
	}

	secret := &ports.Secret{
		Value:    aws.ToString(result.SecretString),
		Version:  aws.ToString(result.VersionId),
		Metadata: make(map[string]string),
	}
	if result.ARN != nil {
		secret.Metadata["arn"] = *result.ARN
	}

	m.cachedSet(path, secret)
	return secret, nil
}

func (m *awsSecretManager) cachedGet(path string) *ports.Secret {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.cache[path]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.secret
}

func (m *awsSecretManager) cachedSet(path string, secret *ports.Secret) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache[path] = cachedSecret{
		secret:    secret,
		expiresAt: time.Now().Add(m.ttl),
	}
}
