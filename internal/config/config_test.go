package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Store:  StoreConfig{Backend: BackendFile, DataPath: "data/municipal.json"},
		Auth:   AuthConfig{JWTSecret: "civitas-dev-secret", SessionTTL: 24 * time.Hour},
		CORS:   CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/municipal.json", cfg.Store.DataPath)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.NotEmpty(t, cfg.CORS.Origins)
	assert.Empty(t, cfg.Redis.Addr, "Redis is opt-in")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", BackendPostgres)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://portal.example.gov, https://staff.example.gov")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, []string{"https://portal.example.gov", "https://staff.example.gov"}, cfg.CORS.Origins)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid file backend",
			mutate: func(c *Config) {},
		},
		{
			name: "valid postgres backend",
			mutate: func(c *Config) {
				c.Store.Backend = BackendPostgres
				c.Database = DatabaseConfig{
					Host: "localhost", Port: "5432", Name: "civitas",
					User: "postgres", Password: "secret", PoolMin: 2, PoolMax: 10,
				}
			},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "mongodb" },
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "file backend without path",
			mutate:  func(c *Config) { c.Store.DataPath = "" },
			wantErr: "DATA_PATH is required",
		},
		{
			name: "postgres backend without password",
			mutate: func(c *Config) {
				c.Store.Backend = BackendPostgres
				c.Database = DatabaseConfig{
					Host: "localhost", Port: "5432", Name: "civitas",
					User: "postgres", PoolMin: 2, PoolMax: 10,
				}
			},
			wantErr: "DB_PASSWORD is required",
		},
		{
			name: "pool min above max",
			mutate: func(c *Config) {
				c.Store.Backend = BackendPostgres
				c.Database = DatabaseConfig{
					Host: "localhost", Port: "5432", Name: "civitas",
					User: "postgres", Password: "secret", PoolMin: 20, PoolMax: 10,
				}
			},
			wantErr: "DB_POOL_MIN must be less than or equal to DB_POOL_MAX",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "dev secret in production",
			mutate:  func(c *Config) { c.Server.Env = "production" },
			wantErr: "JWT_SECRET must be overridden in production",
		},
		{
			name:    "non-positive session ttl",
			mutate:  func(c *Config) { c.Auth.SessionTTL = 0 },
			wantErr: "SESSION_TTL_HOURS must be positive",
		},
		{
			name:    "missing cors origins",
			mutate:  func(c *Config) { c.CORS.Origins = nil },
			wantErr: "CORS_ORIGINS is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Empty(t, parseOrigins(""))
	assert.Equal(t, []string{"a"}, parseOrigins("a"))
	assert.Equal(t, []string{"a", "b"}, parseOrigins(" a , b ,"))
}
