package client

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/goaltrack/backend/internal/config"
)

const googleIssuer = "https://accounts.google.com"

// GoogleClaims is the subset of the ID-token payload the auth service
// needs to create or link an account.
type GoogleClaims struct {
	Subject       string
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleVerifier validates Google-issued ID tokens handed over by the
// web/mobile clients. Verification is fully delegated to the provider's
// published keys; no Google API call is made beyond key discovery.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewGoogleVerifier(ctx context.Context, cfg config.GoogleConfig) (*GoogleVerifier, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("missing GOOGLE_CLIENT_ID")
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover google provider: %w", err)
	}
	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (*GoogleClaims, error) {
	idToken, err := g.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	claims := &GoogleClaims{}
	if err := idToken.Claims(claims); err != nil {
		return nil, err
	}
	claims.Subject = idToken.Subject
	return claims, nil
}
