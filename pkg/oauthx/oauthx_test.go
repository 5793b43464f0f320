package oauthx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(userInfoURL string) Config {
	return Config{
		ProviderName: "fake",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      "https://idp.example.com/authorize",
		TokenURL:     "https://idp.example.com/token",
		UserInfoURL:  userInfoURL,
		RedirectURL:  "https://crm.example.com/api/oauth/callback",
		Scopes:       []string{"openid", "profile"},
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		p, err := NewProvider(testConfig("https://idp.example.com/userinfo"))
		require.NoError(t, err)
		require.Equal(t, "fake", p.Name())
	})

	t.Run("missing pieces are rejected", func(t *testing.T) {
		for name, mutate := range map[string]func(*Config){
			"client id": func(c *Config) { c.ClientID = "" },
			"auth url":  func(c *Config) { c.AuthURL = "" },
			"token url": func(c *Config) { c.TokenURL = "" },
			"user info": func(c *Config) { c.UserInfoURL = "" },
		} {
			cfg := testConfig("https://idp.example.com/userinfo")
			mutate(&cfg)
			_, err := NewProvider(cfg)
			require.Error(t, err, name)
		}
	})
}

func TestAuthCodeURL(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(testConfig("https://idp.example.com/userinfo"))
	require.NoError(t, err)

	u := p.AuthCodeURL("opaque-state")
	require.True(t, strings.HasPrefix(u, "https://idp.example.com/authorize?"))
	require.Contains(t, u, "state=opaque-state")
	require.Contains(t, u, "client_id=client-id")
	require.Contains(t, u, "response_type=code")
}

func TestFetchUserInfo(t *testing.T) {
	t.Parallel()

	token := &oauth2.Token{AccessToken: "access-token", TokenType: "Bearer"}

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"openId":"idp:123","name":"Alice","email":"alice@example.com"}`))
		}))
		defer srv.Close()

		p, err := NewProvider(testConfig(srv.URL))
		require.NoError(t, err)

		info, err := p.FetchUserInfo(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, UserInfo{
			OpenID:   "idp:123",
			Name:     "Alice",
			Email:    "alice@example.com",
			Provider: "fake",
		}, info)
	})

	t.Run("non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		p, err := NewProvider(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = p.FetchUserInfo(context.Background(), token)
		require.ErrorContains(t, err, "user info returned 403")
	})

	t.Run("missing openId", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"name":"No Subject"}`))
		}))
		defer srv.Close()

		p, err := NewProvider(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = p.FetchUserInfo(context.Background(), token)
		require.ErrorContains(t, err, "openId missing")
	})
}
