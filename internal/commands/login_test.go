package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"fstodo/internal/backend/firestore"
	"fstodo/internal/config"
)

func TestLoadOAuthConfig_DatastoreScope(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	client := `{"installed":{"client_id":"id","client_secret":"secret","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(client), 0600); err != nil {
		t.Fatal(err)
	}

	oc, err := loadOAuthConfig(cfg)
	if err != nil {
		t.Fatalf("loadOAuthConfig: %v", err)
	}
	if len(oc.Scopes) != 1 || oc.Scopes[0] != firestore.Scope {
		t.Errorf("scopes = %v, want [%s]", oc.Scopes, firestore.Scope)
	}
	if oc.ClientID != "id" {
		t.Errorf("client id = %q", oc.ClientID)
	}
}

func TestLoadOAuthConfig_Invalid(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if _, err := loadOAuthConfig(cfg); err == nil {
		t.Error("expected error for missing oauth_client.json")
	}
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(`{"web":`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadOAuthConfig(cfg); err == nil {
		t.Error("expected error for malformed oauth_client.json")
	}
}

func TestTokenUsable(t *testing.T) {
	refreshOK := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !refreshOK {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	oc := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams},
		Scopes:       []string{firestore.Scope},
	}

	expired := &oauth2.Token{AccessToken: "old", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)}
	current := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}
	noRefresh := &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}

	tests := []struct {
		name      string
		token     *oauth2.Token
		raw       string
		refreshOK bool
		want      bool
	}{
		{name: "missing file", want: false},
		{name: "corrupt", raw: `{"access_token":`, want: false},
		{name: "no refresh token", token: noRefresh, refreshOK: true, want: false},
		{name: "current", token: current, refreshOK: false, want: true},
		{name: "expired and refreshable", token: expired, refreshOK: true, want: true},
		{name: "expired and revoked", token: expired, refreshOK: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Dir: t.TempDir()}
			switch {
			case tt.token != nil:
				if err := saveToken(cfg.TokenPath(), tt.token); err != nil {
					t.Fatal(err)
				}
			case tt.raw != "":
				if err := os.WriteFile(cfg.TokenPath(), []byte(tt.raw), 0600); err != nil {
					t.Fatal(err)
				}
			}
			refreshOK = tt.refreshOK

			if got := tokenUsable(context.Background(), cfg, oc); got != tt.want {
				t.Errorf("tokenUsable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveToken_PrivateFile(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := saveToken(cfg.TokenPath(), &oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token.json mode = %o, want 600", perm)
	}
}
