package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
journal:
  type: sqlite
  db_path: ./orders.sqlite
log:
  level: debug
users:
  ravi:
    broker: shoonya
    user_id: FA00001
    password: secret
    factor2: "123456"
    vendor_code: FA00001_U
    api_secret: apisecret
    imei: abc1234
  anita:
    broker: fivepaisa
    client_code: "55512345"
    access_token: jwt-token
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Users, 2)
	assert.Equal(t, BrokerShoonya, cfg.Users["ravi"].Broker)
	assert.Equal(t, "jwt-token", cfg.Users["anita"].AccessToken)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	shoonyaUser := User{
		Broker: BrokerShoonya, UserID: "FA00001",
		Password: "p", Factor2: "f", APISecret: "s",
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			"no users",
			Config{},
			"at least one user",
		},
		{
			"unknown broker",
			Config{Users: map[string]User{"x": {Broker: "zerodha"}}},
			"unknown broker",
		},
		{
			"fivepaisa missing token",
			Config{Users: map[string]User{"x": {Broker: BrokerFivePaisa, ClientCode: "1"}}},
			"access_token",
		},
		{
			"shoonya missing creds",
			Config{Users: map[string]User{"x": {Broker: BrokerShoonya, UserID: "FA1"}}},
			"session_token or password",
		},
		{
			"shoonya with session token",
			Config{Users: map[string]User{"x": {Broker: BrokerShoonya, UserID: "FA1", SessionToken: "tok"}}},
			"",
		},
		{
			"sqlite journal missing path",
			Config{
				Journal: JournalConfig{Type: "sqlite"},
				Users:   map[string]User{"x": shoonyaUser},
			},
			"db_path",
		},
		{
			"bad journal type",
			Config{
				Journal: JournalConfig{Type: "postgres"},
				Users:   map[string]User{"x": shoonyaUser},
			},
			"journal.type",
		},
		{
			"journaling disabled",
			Config{Users: map[string]User{"x": shoonyaUser}},
			"",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "info", cfg.Log.Level)
}
