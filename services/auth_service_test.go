package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Jane", LastName: "Doe",
		Email: "jane@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("registered user has no id")
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password stored unhashed")
	}

	loggedIn, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.PasswordHash != "" {
		t.Error("login response must not carry the password hash")
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	input := RegisterInput{Email: "jane@example.com", Password: "password123"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrUserEmailConflict) {
		t.Fatalf("expected ErrUserEmailConflict, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.GeneratePasswordResetToken(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token for a registered email")
	}

	// Unknown emails are indistinguishable from known ones.
	silent, err := svc.GeneratePasswordResetToken(context.Background(), "nobody@example.com")
	if err != nil || silent != "" {
		t.Fatalf("unknown email should yield empty token and no error, got %q, %v", silent, err)
	}

	if err := svc.ResetPasswordByToken(context.Background(), "bogus", "newpassword1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
	if err := svc.ResetPasswordByToken(context.Background(), token, "newpassword1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "password123"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}
