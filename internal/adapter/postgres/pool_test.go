package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/yomitan-backend/internal/config"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dsn     string
		wantApp string
	}{
		{name: "default application name", dsn: "postgres://u:p@localhost:5432/yomitan", wantApp: ApplicationName},
		{name: "dsn application name kept", dsn: "postgres://u:p@localhost:5432/yomitan?application_name=importer", wantApp: "importer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := poolConfig(config.DatabaseConfig{
				DSN:             tt.dsn,
				MaxConns:        7,
				MinConns:        2,
				MaxConnLifetime: time.Hour,
				MaxConnIdleTime: time.Minute,
			})
			require.NoError(t, err)

			assert.Equal(t, int32(7), cfg.MaxConns)
			assert.Equal(t, int32(2), cfg.MinConns)
			assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
			assert.Equal(t, time.Minute, cfg.MaxConnIdleTime)
			assert.Equal(t, tt.wantApp, cfg.ConnConfig.RuntimeParams["application_name"])
		})
	}
}

func TestPoolConfig_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@localhost:notaport/db"})
	assert.Error(t, err)
}
