package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DBSecret is the JSON shape of an RDS-style credentials secret
type DBSecret struct {
	Host     string   `json:"host"`
	Port     PortType `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Database string   `json:"dbname"`
}

// PortType accepts a port encoded as either a JSON number or a string
type PortType int

// UnmarshalJSON accepts 5432 and "5432"
func (p *PortType) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("port must be a string or integer, got: %s", string(data))
	}
	*p = PortType(n)
	return nil
}

// SecretReader returns the string value of a named secret.
// *secrets.Store satisfies it.
type SecretReader interface {
	GetString(ctx context.Context, name string) (string, error)
}

// LoadConfigFromSecret reads and validates database credentials stored under secretName
func LoadConfigFromSecret(ctx context.Context, reader SecretReader, secretName string) (*Config, error) {
	raw, err := reader.GetString(ctx, secretName)
	if err != nil {
		return nil, err
	}

	var secret DBSecret
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	dbConfig := &Config{
		Host:     secret.Host,
		Port:     strconv.Itoa(int(secret.Port)),
		User:     secret.Username,
		Password: secret.Password,
		Database: secret.Database,
		SSLMode:  "require",
	}
	if err := dbConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	return dbConfig, nil
}
