package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goaltrack/backend/internal/client"
	"github.com/goaltrack/backend/internal/config"
	"github.com/goaltrack/backend/internal/db"
	"github.com/goaltrack/backend/internal/model"
	"github.com/goaltrack/backend/internal/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	minPasswordLength = 6
	bcryptCost        = 10
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidGoogleToken = errors.New("invalid google credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrMisconfigured      = errors.New("auth config invalid")
)

// AuthStore is the slice of the database the session service touches.
type AuthStore interface {
	CreateUser(ctx context.Context, u db.NewUser) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmailOrGoogleID(ctx context.Context, email, googleID string) (*model.User, error)
	LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, emailVerified bool, image *string) (*model.User, error)
	InsertRefreshToken(ctx context.Context, userID uuid.UUID, tokenValue string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenValue string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, tokenValue string) (int64, error)
	RotateRefreshToken(ctx context.Context, oldToken string, userID uuid.UUID, newToken string, expiresAt time.Time) error
}

// GoogleVerifier validates a federated credential and returns the
// provider's asserted identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*client.GoogleClaims, error)
}

type CookieConfig struct {
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}

// AuthService owns the session state machine: login, signup, federated
// login, refresh (rotate-on-use), and logout.
type AuthService struct {
	store     AuthStore
	issuer    *token.Issuer
	google    GoogleVerifier
	cookieCfg CookieConfig
}

func NewAuthService(store AuthStore, google GoogleVerifier, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, false)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	return &AuthService{
		store:  store,
		issuer: token.NewIssuer(cfg.JWTSecret, accessTTL, refreshTTL),
		google: google,
		cookieCfg: CookieConfig{
			Domain:        cfg.CookieDomain,
			Secure:        cookieSecure,
			SameSite:      cookieSameSite,
			AccessMaxAge:  int(accessTTL.Seconds()),
			RefreshMaxAge: int(refreshTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig { return s.cookieCfg }

// Issuer exposes the token issuer for the identity middleware, which
// verifies access tokens with the same secret and clock rules.
func (s *AuthService) Issuer() *token.Issuer { return s.issuer }

// Login authenticates an email+password pair and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Federated-only accounts have no password to check.
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Signup creates an account and immediately opens a session; there is no
// separate confirmation step.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*model.AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	newUser := db.NewUser{Email: email, PasswordHash: ptr(string(hash))}
	if name != "" {
		newUser.Name = &name
	}

	user, err := s.store.CreateUser(ctx, newUser)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.openSession(ctx, user)
}

// LoginWithGoogle verifies a Google ID token and either creates an
// account, links the google id onto a matching email account, or signs
// in the already-linked user.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*model.AuthResponse, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrInvalidGoogleToken
	}

	claims, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidGoogleToken
	}

	user, err := s.store.GetUserByEmailOrGoogleID(ctx, claims.Email, claims.Subject)
	switch {
	case err == nil && user.GoogleID == nil:
		// Same email registered with a password: link, don't duplicate.
		user, err = s.store.LinkGoogleAccount(ctx, user.ID, claims.Subject, claims.EmailVerified, optional(claims.Picture))
		if err != nil {
			return nil, err
		}
	case err != nil && db.IsNoRows(err):
		name := claims.Name
		if name == "" {
			name = strings.SplitN(claims.Email, "@", 2)[0]
		}
		user, err = s.store.CreateUser(ctx, db.NewUser{
			Email:         claims.Email,
			Name:          &name,
			GoogleID:      &claims.Subject,
			EmailVerified: claims.EmailVerified,
			Image:         optional(claims.Picture),
		})
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Refresh redeems a refresh token for a fresh pair. Redemption is
// single-use: the stored row is deleted inside the same transaction that
// persists the replacement, so under concurrent duplicate redemption
// exactly one caller wins and the other fails ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrUnauthorized
	}

	if _, err := s.issuer.Verify(refreshToken); err != nil {
		return nil, ErrUnauthorized
	}

	record, err := s.store.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByID(ctx, record.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.issuer.RefreshTTL())
	if err := s.store.RotateRefreshToken(ctx, refreshToken, user.ID, pair.RefreshToken, expiresAt); err != nil {
		if db.IsNoRows(err) {
			// A concurrent redemption consumed the row first.
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return &model.AuthResponse{User: user.Public(), Tokens: *pair}, nil
}

// Logout revokes a refresh token if one is supplied. It never fails the
// caller: a missing or already-deleted token is still a successful
// logout, and store errors are logged and swallowed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if strings.TrimSpace(refreshToken) == "" {
		return
	}
	if _, err := s.store.DeleteRefreshToken(ctx, refreshToken); err != nil {
		log.Printf("[Auth] Failed to delete refresh token on logout: %v", err)
	}
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.issuer.RefreshTTL())
	if err := s.store.InsertRefreshToken(ctx, user.ID, pair.RefreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &model.AuthResponse{User: user.Public(), Tokens: *pair}, nil
}

func (s *AuthService) issuePair(user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > 128 {
		return ErrInvalidInput
	}
	return nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}

func ptr(s string) *string { return &s }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
