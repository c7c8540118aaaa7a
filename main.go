// Command popreg serves the population registry over HTTP.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/cfgloader"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/http/server/middleware"
	"github.com/rise-and-shine/popreg/meta"
	"github.com/rise-and-shine/popreg/observability/logger"
	"github.com/rise-and-shine/popreg/observability/tracing"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/rise-and-shine/popreg/registry"
	"github.com/rise-and-shine/popreg/registry/httpapi"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Service struct {
		Name    string `yaml:"name"    default:"popreg"`
		Version string `yaml:"version" default:"dev"`
	} `yaml:"service"`

	Logger   logger.Config  `yaml:"logger"`
	Tracing  tracing.Config `yaml:"tracing"`
	Postgres pg.Config      `yaml:"postgres"`
	HTTP     server.Config  `yaml:"http"`

	Registry struct {
		// Schema must be on postgres.search_path.
		Schema      string `yaml:"schema"       default:"public"`
		AutoMigrate bool   `yaml:"auto_migrate" default:"true"`
	} `yaml:"registry"`
}

func main() {
	cfg := cfgloader.MustLoad[Config]()

	meta.SetServiceInfo(cfg.Service.Name, cfg.Service.Version)
	logger.SetGlobal(cfg.Logger)
	log := logger.Named("main")

	err := run(cfg, log)
	if err != nil {
		log.Errorx(err)
		_ = logger.Sync()
		os.Exit(1)
	}

	_ = logger.Sync()
}

func run(cfg Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			log.Warnx(err)
		}
	}()

	db, err := pg.NewBunDB(ctx, cfg.Postgres)
	if err != nil {
		return errx.Wrap(err)
	}
	defer db.Close()

	if cfg.Registry.AutoMigrate {
		err = registry.Migrate(ctx, db, cfg.Registry.Schema)
		if err != nil {
			return errx.Wrap(err)
		}
		log.With("schema", cfg.Registry.Schema).Info("registry schema is up to date")
	}

	err = registry.CheckSearchPath(ctx, db, cfg.Registry.Schema)
	if err != nil {
		return errx.Wrap(err)
	}

	reg := registry.New(db, registry.WithSchema(cfg.Registry.Schema))
	httpapi.RegisterMessages()

	srv := server.NewHTTPServer(cfg.HTTP, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTP.HandleTimeout),
		middleware.NewMetaInjectMW(cfg.Service.Name, cfg.Service.Version),
		middleware.NewPrincipalMW(cfg.HTTP.PrincipalHeader),
		middleware.NewLoggerMW(logger.With()),
		middleware.NewErrorHandlerMW(cfg.HTTP.HideErrorDetails),
	})
	srv.RegisterRouter(func(r fiber.Router) {
		httpapi.Register(r, reg)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.With("address", cfg.HTTP.Address()).Info("http server started")
		err := srv.Start()
		if err != nil && !errors.Is(err, context.Canceled) {
			return errx.Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")
		err := srv.Stop()
		if err != nil {
			return errx.Wrap(err)
		}
		return nil
	})

	return g.Wait()
}
