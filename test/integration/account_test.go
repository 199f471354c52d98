package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/rhuss/authgate/pkg/api"
)

// TestAccountScenario walks the register, login, profile and logout
// sequence of the account endpoints.
func TestAccountScenario(t *testing.T) {
	base := testEnv.BaseURL()
	client := newClient(t)

	register(t, base, "u@x.com", "pw1")

	resp := send(t, client, http.MethodPost, base+"/sessions", url.Values{"email": {"u@x.com"}, "password": {"wrong"}})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = send(t, client, http.MethodPost, base+"/sessions", url.Values{"email": {"u@x.com"}, "password": {"pw1"}})
	var login api.MessageResponse
	decodeJSON(t, resp, &login)
	if resp.StatusCode != http.StatusOK || login.Message != "logged in" {
		t.Fatalf("login = %d %+v", resp.StatusCode, login)
	}
	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			sid = c.Value
		}
	}
	if sid == "" {
		t.Fatal("login did not set session_id")
	}

	resp = send(t, client, http.MethodGet, base+"/profile", nil)
	var profile api.ProfileResponse
	decodeJSON(t, resp, &profile)
	if resp.StatusCode != http.StatusOK || profile.Email != "u@x.com" {
		t.Errorf("profile = %d %+v, want 200 u@x.com", resp.StatusCode, profile)
	}

	resp = send(t, http.DefaultClient, http.MethodGet, base+"/profile", nil)
	expectStatus(t, resp, http.StatusForbidden)

	resp = send(t, client, http.MethodDelete, base+"/sessions", nil)
	expectStatus(t, resp, http.StatusOK)

	// Replay the destroyed cookie explicitly; the jar dropped it on logout.
	req, _ := http.NewRequest(http.MethodGet, base+"/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sid})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	expectStatus(t, resp, http.StatusForbidden)
}

func TestDuplicateRegistration(t *testing.T) {
	base := testEnv.BaseURL()
	register(t, base, "dup@x.com", "first")

	resp := send(t, http.DefaultClient, http.MethodPost, base+"/users", url.Values{"email": {"dup@x.com"}, "password": {"second"}})
	var msg api.MessageResponse
	decodeJSON(t, resp, &msg)
	if resp.StatusCode != http.StatusBadRequest || msg.Message != "email already registered" {
		t.Errorf("duplicate = %d %+v", resp.StatusCode, msg)
	}

	resp = send(t, http.DefaultClient, http.MethodPost, base+"/sessions", url.Values{"email": {"dup@x.com"}, "password": {"first"}})
	expectStatus(t, resp, http.StatusOK)
}

func TestPasswordReset(t *testing.T) {
	base := testEnv.BaseURL()
	register(t, base, "reset@x.com", "old")

	resp := send(t, http.DefaultClient, http.MethodPost, base+"/reset_password", url.Values{"email": {"reset@x.com"}})
	var tok api.ResetTokenResponse
	decodeJSON(t, resp, &tok)
	if tok.ResetToken == "" {
		t.Fatalf("reset token missing: %d %+v", resp.StatusCode, tok)
	}

	resp = send(t, http.DefaultClient, http.MethodPut, base+"/reset_password",
		url.Values{"email": {"reset@x.com"}, "reset_token": {tok.ResetToken}, "new_password": {"new"}})
	expectStatus(t, resp, http.StatusOK)

	resp = send(t, http.DefaultClient, http.MethodPost, base+"/sessions", url.Values{"email": {"reset@x.com"}, "password": {"old"}})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = send(t, http.DefaultClient, http.MethodPost, base+"/sessions", url.Values{"email": {"reset@x.com"}, "password": {"new"}})
	expectStatus(t, resp, http.StatusOK)
}
