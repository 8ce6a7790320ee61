package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.User{ID: 7, Username: "alice"}, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Bearer a b", "", false},
		{"Token abc", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		if token != tt.token || ok != tt.ok {
			t.Errorf("bearerToken(%q): got (%q, %v), want (%q, %v)", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	logging.Logger.SetOutput(io.Discard)

	var seen *models.User
	h := JWTAuthMiddleware(stubAuth{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"rejected", "Bearer bad", http.StatusUnauthorized},
		{"accepted", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && (seen == nil || seen.ID != 7) {
				t.Errorf("expected user 7 in context, got %+v", seen)
			}
			if tt.want == http.StatusUnauthorized {
				var env models.Envelope
				if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Success || env.Message == "" {
					t.Errorf("expected failure envelope, got %q", rec.Body.String())
				}
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	logging.Logger.SetOutput(io.Discard)
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	for _, debug := range []bool{false, true} {
		rec := httptest.NewRecorder()
		Recoverer(debug)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("debug=%v: got %d, want 500", debug, rec.Code)
		}
		var env models.Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("debug=%v: %v", debug, err)
		}
		if debug && (env.Error != "boom" || env.Stack == "") {
			t.Errorf("debug response should carry error and stack, got %+v", env)
		}
		if !debug && (env.Error != "" || env.Stack != "") {
			t.Errorf("production response leaked details: %+v", env)
		}
	}
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	EnableCORS("http://localhost:5175")(next).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin: got Allow-Origin %q", got)
	}

	rec = httptest.NewRecorder()
	EnableCORS("*")(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("wildcard preflight: got %d %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
