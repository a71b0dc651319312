package config

import "os"

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Google  GoogleConfig
	Suggest SuggestConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type AuthConfig struct {
	JWTSecret      string
	AccessTTL      string
	RefreshTTL     string
	CookieDomain   string
	CookieSecure   string
	CookieSameSite string
	SweepInterval  string
}

type GoogleConfig struct {
	ClientID string
}

type SuggestConfig struct {
	APIKey string
	Model  string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "3001"),
			AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTTL:      getenv("JWT_ACCESS_TTL", "15m"),
			RefreshTTL:     getenv("JWT_REFRESH_TTL", "168h"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: getenv("AUTH_COOKIE_SAMESITE", "lax"),
			SweepInterval:  getenv("TOKEN_SWEEP_INTERVAL", "1h"),
		},
		Google: GoogleConfig{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
		Suggest: SuggestConfig{
			APIKey: os.Getenv("AI_API_KEY"),
			Model:  getenv("AI_MODEL", "gemini-2.0-flash"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
