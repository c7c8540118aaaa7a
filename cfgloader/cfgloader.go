// Package cfgloader loads and validates the service configuration at startup.
package cfgloader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rise-and-shine/popreg/mask"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	defaultConfigDir = "./config"
)

// MustLoad loads ${config dir}/${ENVIRONMENT}.yaml into T and exits the process on any
// failure. Variables from a .env file are loaded first and ${VAR} references in the
// file are expanded. `default` tags fill unset fields (creasty/defaults) and `validate`
// tags are checked (go-playground/validator). The loaded config is printed with fields
// tagged `mask:"true"` hidden.
//
//	type Config struct {
//	    Host string `yaml:"host" validate:"required"`
//	    Port int    `yaml:"port" default:"8080"`
//	}
func MustLoad[T any](opts ...Option) T {
	o := Options{Dir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	_ = godotenv.Load()

	cfg, err := Load[T](os.Getenv("ENVIRONMENT"), o.Dir)
	if err != nil {
		slog.Error("[cfgloader]: " + err.Error())
		os.Exit(1)
	}

	if !o.Silent {
		printConfig(cfg)
	}

	return cfg
}

// Load reads, defaults and validates the config of env from dir.
func Load[T any](env, dir string) (T, error) {
	var cfg T

	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return cfg, errx.New("config type must not be a pointer")
	}

	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return cfg, errx.New(
			"ENVIRONMENT is not set or invalid, choices are: production, staging, dev, local, test",
			errx.WithDetails(errx.D{"environment": env}),
		)
	}

	path := filepath.Join(dir, env+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg)
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	err = defaults.Set(&cfg)
	if err != nil {
		return cfg, errx.Wrap(err)
	}

	err = validateConfig(&cfg)
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithDetails(errx.D{"environment": env}))
	}

	return cfg, nil
}

func validateConfig(cfg any) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice type directly
	if !ok {
		return errx.Wrap(err)
	}

	failed := make([]string, 0, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fe.Namespace(), tag))
	}

	return errx.New("invalid config fields -> " + strings.Join(failed, ", "))
}

func printConfig(cfg any) {
	out, err := yaml.Marshal(mask.StructToOrdMap(cfg))
	if err != nil {
		slog.Error("[cfgloader]: failed to marshal config", "error", err.Error())
		return
	}
	slog.Info("[cfgloader]: loaded config\n" + string(out))
}
