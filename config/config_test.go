package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Database:      DatabaseConfig{URL: "postgres://localhost/mentorlink"},
		MentorSession: MentorSessionConfig{JWTSecret: "secret"},
		MenteeAuth:    MenteeAuthConfig{CookieTTLSeconds: 3600},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.MentorSession.JWTSecret = "" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "non-positive cookie ttl",
			mutate:  func(c *Config) { c.MenteeAuth.CookieTTLSeconds = 0 },
			wantErr: "MENTEE_COOKIE_TTL_SECONDS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.Server.AppEnv = "development"
	assert.True(t, cfg.IsDevelopment())

	cfg.Server.AppEnv = "production"
	assert.False(t, cfg.IsDevelopment())
}
