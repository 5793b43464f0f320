// Package oauthx is the thin client for the external OAuth identity
// provider. It covers the three calls the login flow needs: build the
// authorize redirect, exchange the code, and fetch user info.
package oauthx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Config describes the external provider.
type Config struct {
	ProviderName string // recorded as the user's login method
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

// UserInfo is the provider's view of the authenticated user.
type UserInfo struct {
	OpenID   string `json:"openId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"-"`
}

// Provider wraps an oauth2.Config plus the provider's user-info endpoint.
type Provider struct {
	name        string
	userInfoURL string
	oauth       *oauth2.Config
}

// NewProvider validates the config and builds a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oauthx: client id is required")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("oauthx: auth and token URLs are required")
	}
	if cfg.UserInfoURL == "" {
		return nil, fmt.Errorf("oauthx: user info URL is required")
	}

	return &Provider{
		name:        cfg.ProviderName,
		userInfoURL: cfg.UserInfoURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
	}, nil
}

// Name returns the provider name used as the login method tag.
func (p *Provider) Name() string { return p.name }

// AuthCodeURL builds the authorize redirect URL carrying the opaque state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauthx: code exchange failed: %w", err)
	}
	return token, nil
}

// FetchUserInfo retrieves the authenticated user's profile with the token.
func (p *Provider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error) {
	client := p.oauth.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return UserInfo{}, fmt.Errorf("oauthx: user info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return UserInfo{}, fmt.Errorf("oauthx: user info returned %d: %s", resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("oauthx: decoding user info: %w", err)
	}
	if info.OpenID == "" {
		return UserInfo{}, fmt.Errorf("oauthx: openId missing from user info")
	}
	info.Provider = p.name

	return info, nil
}
