package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/afeibuhuifei/project-flow/models"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, "alice")

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing username", RegisterRequest{Password: "secret1"}, "username"},
		{"short username", RegisterRequest{Username: "a", Password: "secret1"}, "username"},
		{"bad characters", RegisterRequest{Username: "al ice", Password: "secret1"}, "username"},
		{"short password", RegisterRequest{Username: "carol", Password: "123"}, "password"},
		{"long password", RegisterRequest{Username: "carol", Password: strings.Repeat("a", 80)}, "password"},
		{"bad email", RegisterRequest{Username: "carol", Password: "secret1", Email: strPtr("not-an-email")}, "email"},
		{"taken username", RegisterRequest{Username: "alice", Password: "secret1"}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.req)
			if fieldErr(err, tt.field) == "" {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, RegisterRequest{Username: "alice", Password: "secret1", Email: strPtr(" Alice@Example.com ")})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token")
	}
	if res.User.Email == nil || *res.User.Email != "alice@example.com" {
		t.Errorf("Email: got %v", res.User.Email)
	}

	user, err := env.auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != res.User.ID {
		t.Errorf("Authenticate: got user %d, want %d", user.ID, res.User.ID)
	}
	if _, err := env.auth.Authenticate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	_, err = env.auth.Register(ctx, RegisterRequest{Username: "bob", Password: "secret1", Email: strPtr("alice@example.com")})
	if fieldErr(err, "email") == "" {
		t.Errorf("expected duplicate email error, got %v", err)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, "alice")

	for i := 0; i < 2; i++ {
		_, err := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-password"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("attempt %d: expected ErrUnauthorized, got %v", i+1, err)
		}
		if PublicMessage(err) != "username or password incorrect" {
			t.Errorf("attempt %d: got message %q", i+1, PublicMessage(err))
		}
	}

	_, err := env.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	res, err := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Error("expected token")
	}
}

func TestUpdateMeAndChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.user(t, "alice")

	user, err := env.auth.UpdateMe(ctx, id, UpdateMeRequest{Email: models.Value("a@example.com")})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if user.Email == nil || *user.Email != "a@example.com" {
		t.Errorf("Email: got %v", user.Email)
	}
	user, err = env.auth.UpdateMe(ctx, id, UpdateMeRequest{Email: models.Null[string]()})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if user.Email != nil {
		t.Errorf("Email: got %q, want null", *user.Email)
	}

	err = env.auth.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: strings.Repeat("b", 73)})
	if fieldErr(err, "newPassword") == "" {
		t.Errorf("expected newPassword error, got %v", err)
	}
	err = env.auth.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	if fieldErr(err, "currentPassword") == "" {
		t.Errorf("expected currentPassword error, got %v", err)
	}
	if err := env.auth.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "another1"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "another1"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
