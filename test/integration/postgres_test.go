package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/rhuss/authgate/pkg/config"
	"github.com/rhuss/authgate/pkg/storage/postgres/pgtest"
	"github.com/rhuss/authgate/pkg/users/password"
)

// TestSessionSurvivesRestart logs in against one server, starts a second
// server on the same database, and uses the session there.
func TestSessionSurvivesRestart(t *testing.T) {
	dsn := pgtest.DSN(t)

	cfg := config.Defaults()
	cfg.Auth.Type = "session_db_auth"
	cfg.Storage.Type = "postgres"
	cfg.Storage.Postgres.DSN = dsn
	cfg.Password.BcryptCost = password.MinCost

	first, err := newEnvironment(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("starting first server: %v", err)
	}
	register(t, first.BaseURL(), "pg@x.com", "pw1")

	resp := send(t, http.DefaultClient, http.MethodPost, first.BaseURL()+"/api/v1/auth_session/login", url.Values{"email": {"pg@x.com"}, "password": {"pw1"}})
	readBody(t, resp)
	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == cfg.Auth.SessionName {
			sid = c.Value
		}
	}
	if sid == "" {
		t.Fatalf("login status %d, no session cookie", resp.StatusCode)
	}
	first.Teardown()

	second, err := newEnvironment(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("starting second server: %v", err)
	}
	defer second.Teardown()

	req, _ := http.NewRequest(http.MethodGet, second.BaseURL()+"/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Auth.SessionName, Value: sid})
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	expectStatus(t, resp, http.StatusOK)
}
