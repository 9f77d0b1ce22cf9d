// Package oauth wraps the Google OIDC flow used for social login.
package oauth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	googleScopeEmail   string = "email"
	googleScopeProfile string = "profile"
)

// googleIssuer адрес OIDC discovery для Google
const googleIssuer = "https://accounts.google.com"

// GoogleConfig holds the configuration for the Google OAuth provider
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// User is the identity returned by the provider after code exchange
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// Google implements the Google OAuth code flow with ID token verification
type Google struct {
	cfg      *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type googleClaims struct {
	Sub      string `json:"sub,omitempty"`
	Email    string `json:"email,omitempty"`
	Verified bool   `json:"email_verified,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// NewGoogle creates a new Google OAuth provider with the given configuration.
// Performs OIDC discovery, so it needs network access at startup.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	p, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("new oidc provider: %w", err)
	}

	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, googleScopeProfile, googleScopeEmail},
			Endpoint:     endpoints.Google,
		},
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// LoginURL generates the Google OAuth consent URL with the given state
func (g *Google) LoginURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange exchanges the authorization code for a verified Google identity
func (g *Google) Exchange(ctx context.Context, code string) (*User, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("token response has no id_token")
	}

	idTok, err := g.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims googleClaims
	if err := idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("id token has no subject")
	}

	return &User{
		ID:            claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.Verified,
		Name:          claims.Name,
		AvatarURL:     claims.Picture,
	}, nil
}
