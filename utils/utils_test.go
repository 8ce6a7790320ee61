package utils

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken(42, "ana")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.UserID != 42 || claims.Username != "ana" {
		t.Errorf("got claims %+v", claims)
	}
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, _ := m.GenerateToken(1, "ana")

	other := NewTokenManager("other", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected signature mismatch to fail")
	}

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.GenerateToken(1, "ana")
	if _, err := m.ValidateToken(old); err == nil {
		t.Error("expected expired token to fail")
	}

	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("expected garbage to fail")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("expected wrong password to fail")
	}
}

func TestStoredFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := StoredFileName("my report.PDF", now)
	if !strings.HasPrefix(name, "my_report-1700000000123-") {
		t.Errorf("unexpected prefix: %s", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("unexpected extension: %s", name)
	}
	if strings.Contains(StoredFileName("../../etc/passwd", now), "/") {
		t.Error("stored name must not contain path separators")
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-03-01", "2024-03-01T10:00:00Z", "2024-03-01T10:00:00.000+02:00"} {
		if _, err := ParseDate(in); err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
		}
	}
	if _, err := ParseDate("tomorrow"); err == nil {
		t.Error("expected error for free text")
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		now  time.Time
		want int
	}{
		{start, 0},
		{start.Add(time.Hour), 1},
		{start.Add(48 * time.Hour), 2},
		{start.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		if got := DaysBetween(start, tt.now); got != tt.want {
			t.Errorf("DaysBetween(%s) = %d, want %d", tt.now, got, tt.want)
		}
	}
}
