package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/rhuss/authgate/pkg/api"
	"github.com/rhuss/authgate/pkg/observability"
	"github.com/rhuss/authgate/pkg/users"
)

// stubProvider resolves user whenever the request carries credentials.
type stubProvider struct {
	Base
	kind  Kind
	user  *users.User
	calls int
}

func (p *stubProvider) Kind() Kind {
	return p.kind
}

func (p *stubProvider) CurrentUser(context.Context, *http.Request) *users.User {
	p.calls++
	return p.user
}

func serve(t *testing.T, p Provider, excluded []string, req *http.Request) (*httptest.ResponseRecorder, *users.User, bool) {
	t.Helper()

	var (
		gotUser *users.User
		called  bool
	)
	handler := Middleware(p, excluded)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUser, called
}

func TestMiddleware_ExcludedPath(t *testing.T) {
	p := &stubProvider{kind: KindBasic, Base: Base{SessionName: "sid"}}

	rec, _, called := serve(t, p, DefaultExcludedPaths, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if !called || rec.Code != http.StatusOK {
		t.Errorf("excluded path: called=%v status=%d, want handler with 200", called, rec.Code)
	}
	if p.calls != 0 {
		t.Error("credentials must not be resolved for excluded paths")
	}
}

func TestMiddleware_NoCredentials_401(t *testing.T) {
	p := &stubProvider{kind: KindBasic, user: &users.User{ID: "u1"}, Base: Base{SessionName: "sid"}}

	rec, _, called := serve(t, p, DefaultExcludedPaths, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	if called {
		t.Error("handler called without credentials")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if p.calls != 0 {
		t.Error("CurrentUser consulted without credentials")
	}

	var body api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error == nil || body.Error.Type != api.ErrorTypeUnauthorized || body.Error.Message != "Unauthorized" {
		t.Errorf("body = %+v, want unauthorized envelope", body.Error)
	}
}

func TestMiddleware_UnresolvedUser_403(t *testing.T) {
	p := &stubProvider{kind: KindBasic, Base: Base{SessionName: "sid"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Basic bm9wZTpub3Bl")
	rec, _, called := serve(t, p, DefaultExcludedPaths, req)

	if called {
		t.Error("handler called for unresolved user")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestMiddleware_SessionCookieCountsAsCredential(t *testing.T) {
	p := &stubProvider{kind: KindSession, Base: Base{SessionName: "sid"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec, _, _ := serve(t, p, DefaultExcludedPaths, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for an unknown session", rec.Code)
	}
}

func TestMiddleware_ResolvedUser_Passes(t *testing.T) {
	alice := &users.User{ID: "u1", Email: "alice@hbtn.io"}
	p := &stubProvider{kind: KindBasic, user: alice}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic anything")
	rec, gotUser, called := serve(t, p, DefaultExcludedPaths, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("called=%v status=%d, want handler with 200", called, rec.Code)
	}
	if gotUser != alice {
		t.Errorf("UserFromContext = %v, want %v", gotUser, alice)
	}
}

func TestMiddleware_BaseProviderForbidsEveryCredential(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Basic anything")
	rec, _, called := serve(t, Base{}, DefaultExcludedPaths, req)

	if called || rec.Code != http.StatusForbidden {
		t.Errorf("called=%v status=%d, want 403", called, rec.Code)
	}
}

func TestMiddleware_NilOrNoneDisablesGate(t *testing.T) {
	for _, p := range []Provider{nil, &stubProvider{kind: KindNone}} {
		rec, _, called := serve(t, p, DefaultExcludedPaths, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
		if !called || rec.Code != http.StatusOK {
			t.Errorf("provider %v: called=%v status=%d, want pass-through", p, called, rec.Code)
		}
	}
}

func TestMiddleware_RecordsDecisions(t *testing.T) {
	p := &stubProvider{kind: KindSessionExpiry}
	before := decisionCount(t, string(KindSessionExpiry), observability.OutcomeUnauthorized)

	serve(t, p, nil, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	after := decisionCount(t, string(KindSessionExpiry), observability.OutcomeUnauthorized)
	if after-before != 1 {
		t.Errorf("unauthorized decisions delta = %f, want 1", after-before)
	}
}

func decisionCount(t *testing.T, kind, outcome string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := observability.AuthDecisionsTotal.GetMetricWithLabelValues(kind, outcome)
	if err != nil {
		t.Fatalf("getting counter: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
