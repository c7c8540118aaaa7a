package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:           "db",
		Port:           5432,
		User:           "registry",
		Password:       "secret",
		Database:       "popreg",
		SSLMode:        "disable",
		SearchPath:     "public",
		ConnectTimeout: 5 * time.Second,
	}

	assert.Equal(t,
		"host=db port=5432 user=registry password=secret dbname=popreg sslmode=disable search_path=public connect_timeout=5",
		cfg.dsn(),
	)
}
