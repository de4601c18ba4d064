package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretReader struct {
	values map[string]string
	err    error
}

func (f fakeSecretReader) GetString(ctx context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[name], nil
}

func TestLoadConfigFromSecret(t *testing.T) {
	reader := fakeSecretReader{values: map[string]string{
		"voicegit/db": `{"host":"db.internal","port":"5432","username":"voicegit","password":"pw","dbname":"voicegit"}`,
	}}

	cfg, err := LoadConfigFromSecret(context.Background(), reader, "voicegit/db")

	require.NoError(t, err)
	assert.Equal(t, &Config{
		Host:     "db.internal",
		Port:     "5432",
		User:     "voicegit",
		Password: "pw",
		Database: "voicegit",
		SSLMode:  "require",
	}, cfg)
}

func TestLoadConfigFromSecret_ReaderError(t *testing.T) {
	_, err := LoadConfigFromSecret(context.Background(), fakeSecretReader{err: errors.New("access denied")}, "voicegit/db")

	assert.EqualError(t, err, "access denied")
}

func TestLoadConfigFromSecret_BadJSON(t *testing.T) {
	reader := fakeSecretReader{values: map[string]string{"s": "not json"}}

	_, err := LoadConfigFromSecret(context.Background(), reader, "s")

	assert.ErrorContains(t, err, "failed to parse secret JSON")
}

func TestLoadConfigFromSecret_Incomplete(t *testing.T) {
	reader := fakeSecretReader{values: map[string]string{"s": `{"host":"db","port":5432}`}}

	_, err := LoadConfigFromSecret(context.Background(), reader, "s")

	assert.ErrorContains(t, err, "invalid database configuration")
}

func TestPortType_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"integer port", `{"port": 5432}`, 5432, false},
		{"string port", `{"port": "6543"}`, 6543, false},
		{"non-numeric string", `{"port": "abc"}`, 0, true},
		{"boolean", `{"port": true}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Port PortType `json:"port"`
			}
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, int(got.Port))
		})
	}
}
