package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tundra/httpkit/pkg/config"
	"github.com/tundra/httpkit/pkg/cookie"
	"github.com/tundra/httpkit/pkg/httpserver"
	"github.com/tundra/httpkit/pkg/logger"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_SERVICE" envDefault:"httpkit"`

	HTTP   httpserver.Config
	Cookie cookie.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestIDExtractor),
	)
	slog.SetDefault(log)

	app, err := newApp(cfg.Cookie, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", slog.String("addr", cfg.HTTP.Addr))
	return httpserver.New(cfg.HTTP, log).Run(ctx, app.routes())
}
