// Package app wires configuration into the running components: stores,
// the session registry chain, the authentication provider and the
// account service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rhuss/authgate/pkg/account"
	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/auth/basic"
	"github.com/rhuss/authgate/pkg/auth/noop"
	"github.com/rhuss/authgate/pkg/auth/sessionauth"
	"github.com/rhuss/authgate/pkg/config"
	"github.com/rhuss/authgate/pkg/session"
	sessionpg "github.com/rhuss/authgate/pkg/session/postgres"
	sessionredis "github.com/rhuss/authgate/pkg/session/redis"
	"github.com/rhuss/authgate/pkg/storage/postgres"
	transporthttp "github.com/rhuss/authgate/pkg/transport/http"
	"github.com/rhuss/authgate/pkg/users"
	usersmem "github.com/rhuss/authgate/pkg/users/memory"
	userspg "github.com/rhuss/authgate/pkg/users/postgres"
	"github.com/rhuss/authgate/pkg/users/password"
)

// Deps are the collaborators a provider may need.
type Deps struct {
	Users    users.Store
	Hasher   password.Hasher
	Sessions session.Registry
}

// NewProvider builds the provider selected by cfg.Type. It is called
// once at startup; the result is injected into the request gate.
func NewProvider(cfg config.AuthConfig, deps Deps) (auth.Provider, error) {
	kind, err := auth.ParseKind(cfg.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case auth.KindNone:
		return noop.New(), nil
	case auth.KindBase:
		return auth.Base{SessionName: cfg.SessionName}, nil
	case auth.KindBasic:
		return basic.New(deps.Users, deps.Hasher, cfg.SessionName), nil
	case auth.KindSession, auth.KindSessionExpiry, auth.KindSessionPersistent:
		if deps.Sessions == nil {
			return nil, fmt.Errorf("auth type %q requires a session registry", kind)
		}
		return sessionauth.New(kind, deps.Sessions, deps.Users, cfg.SessionName), nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", kind)
	}
}

// NewRegistry builds the session registry chain for kind. records is
// only used by KindSessionPersistent and must be non-nil for it.
//
//	session_auth      memory
//	session_exp_auth  expiry(memory)
//	session_db_auth   persistent(expiry(memory), records)
//
// Other kinds get a plain memory registry for the account endpoints.
func NewRegistry(kind auth.Kind, lifetime time.Duration, records session.RecordStore, opts ...session.PersistentOption) session.Registry {
	switch kind {
	case auth.KindSessionExpiry:
		return session.NewExpiryRegistry(session.NewMemoryRegistry(), lifetime)
	case auth.KindSessionPersistent:
		expiry := session.NewExpiryRegistry(session.NewMemoryRegistry(), lifetime)
		return session.NewPersistentRegistry(expiry, records, opts...)
	default:
		return session.NewMemoryRegistry()
	}
}

// App holds the components built from a Config.
type App struct {
	Config   *config.Config
	Users    users.Store
	Records  session.RecordStore // nil unless auth.type is session_db_auth
	Registry session.Registry
	Provider auth.Provider
	Accounts *account.Service

	db *postgres.DB
}

// New builds every component described by cfg. Call Close to release
// the stores.
func New(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	kind, err := auth.ParseKind(cfg.Auth.Type)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	if err := a.openUsers(ctx); err != nil {
		return nil, err
	}
	if kind == auth.KindSessionPersistent {
		if err := a.openRecords(ctx); err != nil {
			return nil, err
		}
	}

	hasher := password.NewBcryptHasher(password.WithCost(cfg.Password.BcryptCost))
	a.Registry = NewRegistry(kind, cfg.Auth.SessionLifetime(), a.Records,
		session.WithQueryTimeout(cfg.Storage.QueryTimeout))

	a.Provider, err = NewProvider(cfg.Auth, Deps{Users: a.Users, Hasher: hasher, Sessions: a.Registry})
	if err != nil {
		return nil, err
	}
	a.Accounts = account.NewService(a.Users, hasher, a.Registry)

	slog.Info("authentication configured",
		"auth_type", kind,
		"storage", cfg.Storage.Type,
		"session_duration", cfg.Auth.SessionLifetime(),
	)
	return a, nil
}

func (a *App) openUsers(ctx context.Context) error {
	if a.Config.Storage.Type != "postgres" {
		a.Users = usersmem.New()
		return nil
	}

	pg := a.Config.Storage.Postgres
	db, err := postgres.Open(ctx, postgres.Config{
		DSN:            pg.DSN,
		MaxConns:       pg.MaxConns,
		MigrateOnStart: pg.MigrateOnStart,
	})
	if err != nil {
		return fmt.Errorf("opening postgres: %w", err)
	}
	a.db = db
	a.Users = userspg.New(db.Pool())
	return nil
}

func (a *App) openRecords(ctx context.Context) error {
	switch a.Config.Storage.Type {
	case "postgres":
		a.Records = sessionpg.New(a.db.Pool())
	case "redis":
		rc := a.Config.Storage.Redis
		store, err := sessionredis.New(ctx, sessionredis.Config{
			Addr:      rc.Addr,
			Password:  rc.Password,
			DB:        rc.DB,
			KeyPrefix: rc.KeyPrefix,
		})
		if err != nil {
			return fmt.Errorf("opening redis: %w", err)
		}
		a.Records = store
	default:
		a.Records = session.NewMemoryStore()
	}
	return nil
}

// HealthChecks returns the readiness checks for the opened stores.
func (a *App) HealthChecks() map[string]transporthttp.HealthCheck {
	checks := map[string]transporthttp.HealthCheck{}
	if a.Users != nil {
		checks["users"] = a.Users.HealthCheck
	}
	if a.Records != nil {
		checks["sessions"] = a.Records.HealthCheck
	}
	return checks
}

// AdapterConfig returns the HTTP adapter configuration.
func (a *App) AdapterConfig() transporthttp.Config {
	cfg := transporthttp.DefaultConfig()
	cfg.ExcludedPaths = a.Config.Auth.ExcludedPaths
	cfg.CookieSecure = a.Config.Auth.CookieSecure
	cfg.SessionLifetime = a.Config.Auth.SessionLifetime()
	cfg.HealthChecks = a.HealthChecks()
	cfg.MetricsPath = ""
	if a.Config.Observability.Metrics.Enabled {
		cfg.MetricsPath = a.Config.Observability.Metrics.Path
	}
	return cfg
}

// Close releases the stores.
func (a *App) Close() error {
	var errs []error
	if a.Records != nil {
		errs = append(errs, a.Records.Close())
	}
	if a.Users != nil {
		errs = append(errs, a.Users.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
