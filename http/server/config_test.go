package server_test

import (
	"testing"

	"github.com/creasty/defaults"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := server.Config{Host: "0.0.0.0", Port: 8080}
	require.NoError(t, defaults.Set(&cfg))

	assert.Empty(t, cfg.PrincipalHeader, "principal header must be enabled explicitly")
	assert.Equal(t, 1<<20, cfg.BodyLimit)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}
