package server

import (
	"net"
	"strconv"
	"time"
)

// Config defines configuration options for the HTTP server.
type Config struct {
	// HideErrorDetails omits error traces and details from responses.
	HideErrorDetails bool `yaml:"hide_error_details"`

	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required"`

	ReadTimeout  time.Duration `yaml:"read_timeout"  validate:"required" default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"required" default:"5s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  validate:"required" default:"120s"`

	// HandleTimeout bounds the handling of a single request, database work included.
	HandleTimeout time.Duration `yaml:"request_timeout" validate:"required" default:"10s"`

	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int `yaml:"body_limit" validate:"required" default:"1048576"`

	// PrincipalHeader names the header carrying the authenticated account id. Set it only
	// behind a gateway that authenticates clients and strips the header from their requests.
	// Empty disables it.
	PrincipalHeader string `yaml:"principal_header"`
}

// Address returns the listen address in the form "host:port".
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
