// Package secrets reads string secrets from AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrEmptySecret is returned when a secret exists but has no string value
var ErrEmptySecret = errors.New("secret has no string value")

// SecretsManagerAPI is the subset of the Secrets Manager client we call
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Store fetches secrets by name
type Store struct {
	client SecretsManagerAPI
}

// NewStore wraps an existing client (tests pass a fake)
func NewStore(client SecretsManagerAPI) *Store {
	return &Store{client: client}
}

// NewDefaultStore builds a client from the default AWS credential chain
func NewDefaultStore(ctx context.Context) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewStore(secretsmanager.NewFromConfig(cfg)), nil
}

// GetString returns the secret's string value with surrounding whitespace removed
func (s *Store) GetString(ctx context.Context, name string) (string, error) {
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret %s: %w", name, err)
	}
	if result.SecretString == nil || strings.TrimSpace(*result.SecretString) == "" {
		return "", fmt.Errorf("secret %s: %w", name, ErrEmptySecret)
	}
	return strings.TrimSpace(*result.SecretString), nil
}
