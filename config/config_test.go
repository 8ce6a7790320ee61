package config

import (
	"testing"
	"time"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "3001" {
		t.Errorf("Port: got %q, want 3001", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Environment: got %q, want development", cfg.Environment)
	}
	if cfg.JWTExpiresIn != 7*24*time.Hour {
		t.Errorf("JWTExpiresIn: got %s, want 168h", cfg.JWTExpiresIn)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost: got %d, want 12", cfg.BcryptCost)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes: got %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("expected default secret to be reported")
	}
	if cfg.CassandraHosts != nil {
		t.Errorf("CassandraHosts: got %v, want none", cfg.CassandraHosts)
	}
	if cfg.Addr() != ":3001" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"SERVER_PORT":    ":8080",
		"APP_ENV":        "Production",
		"JWT_SECRET":     "s3cret",
		"JWT_EXPIRES_IN": "36h",
		"BCRYPT_COST":    "4",
		"MAX_UPLOAD_MB":  "2",
		"CASS_DB":        "10.0.0.1, 10.0.0.2,",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Errorf("Addr: got %q, want :8080", cfg.Addr())
	}
	if cfg.IsDevelopment() {
		t.Error("expected production environment")
	}
	if cfg.UsesDefaultSecret() {
		t.Error("expected custom secret")
	}
	if cfg.JWTExpiresIn != 36*time.Hour {
		t.Errorf("JWTExpiresIn: got %s", cfg.JWTExpiresIn)
	}
	if cfg.MaxUploadBytes != 2<<20 {
		t.Errorf("MaxUploadBytes: got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CassandraHosts) != 2 || cfg.CassandraHosts[1] != "10.0.0.2" {
		t.Errorf("CassandraHosts: got %v", cfg.CassandraHosts)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad expiry", map[string]string{"JWT_EXPIRES_IN": "soon"}},
		{"zero days", map[string]string{"JWT_EXPIRES_IN": "0d"}},
		{"bad cost", map[string]string{"BCRYPT_COST": "abc"}},
		{"cost too high", map[string]string{"BCRYPT_COST": "40"}},
		{"bad upload size", map[string]string{"MAX_UPLOAD_MB": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envOf(tt.env)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"90m", 90 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseExpiry(tt.in)
		if err != nil {
			t.Fatalf("ParseExpiry(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseExpiry(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}
