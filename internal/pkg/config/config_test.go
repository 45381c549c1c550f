package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_PASSWORD")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "another-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "compass_lk", cfg.Repositories.Postgres.DB)
	assert.Equal(t, "assets/images", cfg.Assets.PrimaryRoot)
	assert.Equal(t, "assets/images/legacy", cfg.Assets.FallbackRoot)
	assert.Equal(t, "audit", cfg.Audit.Dir)
	assert.Equal(t, "8091", cfg.ServerPort)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "another-secret")
	t.Setenv("ASSETS_PRIMARY_ROOT", "/srv/compass/images")
	t.Setenv("AUDIT_DIR", "/var/lib/compass/audit")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/compass/images", cfg.Assets.PrimaryRoot)
	assert.Equal(t, "/var/lib/compass/audit", cfg.Audit.Dir)
}
