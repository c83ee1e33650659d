package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "TEST-token")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	// Both forms are accepted by the migration runner; the default must
	// stay a value it resolves to the local migrations directory.
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "5493517716373", cfg.OrderWhatsApp)
	assert.Equal(t, "5493516123456", cfg.SupportWhatsApp)
	assert.Equal(t, "/media/", cfg.MediaPath)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "x")
	t.Setenv("JWT_SECRET", "x")

	_, err := Load()
	assert.Error(t, err)
}
