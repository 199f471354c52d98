// Command server runs the authgate HTTP authentication service.
//
// Configuration is read from a YAML file (-config, AUTHGATE_CONFIG,
// ./config.yaml or /etc/authgate/config.yaml) and environment overrides:
//
//	AUTH_TYPE         - none, auth, basic_auth, session_auth, session_exp_auth, session_db_auth
//	SESSION_NAME      - API session cookie name (default: _my_session_id)
//	SESSION_DURATION  - Session lifetime in seconds, 0 never expires
//	API_HOST          - Listen host (default: 0.0.0.0)
//	API_PORT          - Listen port (default: 5000)
//	AUTHGATE_STORAGE  - Storage type: memory, postgres or redis (default: memory)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rhuss/authgate/pkg/app"
	"github.com/rhuss/authgate/pkg/config"
	"github.com/rhuss/authgate/pkg/debug"
	transporthttp "github.com/rhuss/authgate/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.RedactFields...)
	if cats := debug.Categories(); len(cats) > 0 {
		slog.Info("debug categories enabled", "categories", cats)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer a.Close()

	srv := transporthttp.NewServer(a.Provider, a.Accounts, a.AdapterConfig(),
		transporthttp.WithAddr(cfg.Server.Addr()),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(slog.Default()),
	)

	return srv.ListenAndServe()
}
