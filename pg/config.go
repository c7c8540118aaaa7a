package pg

import (
	"fmt"
	"time"
)

// Config defines the configuration options for PostgreSQL connections.
type Config struct {
	// Debug logs every executed query when set to true.
	// Failed and slow queries are logged regardless.
	Debug bool `yaml:"debug" default:"false"`
	// SlowQueryThreshold marks queries slower than this duration as slow. Zero disables detection.
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" default:"200ms"`

	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     validate:"required"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required" mask:"true"`
	Database string `yaml:"database" validate:"required"`

	// SSLMode specifies the SSL mode for the connection.
	SSLMode        string        `yaml:"sslmode"         default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SearchPath     string        `yaml:"search_path"     default:"public"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	PoolMaxConns        int32         `yaml:"pool_max_conns"          default:"8"`
	PoolMinConns        int32         `yaml:"pool_min_conns"          default:"1"`
	PoolMaxConnLifetime time.Duration `yaml:"pool_max_conn_lifetime"  default:"1h"`
	PoolMaxConnIdleTime time.Duration `yaml:"pool_max_conn_idle_time" default:"30m"`
}

// dsn returns a PostgreSQL keyword/value connection string built from the configuration.
func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s connect_timeout=%d",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
		c.SearchPath,
		int(c.ConnectTimeout.Seconds()),
	)
}
