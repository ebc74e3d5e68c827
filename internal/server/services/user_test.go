package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/server/config"
	"github.com/ulak-labs/ulak/internal/server/repositories/repomanager"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		MaxFailedLoginAttempts:      3,
		LockoutDuration:             15 * time.Minute,
	}
	return NewUserService(nil, repomanager.NewMemoryRepositoryManager(), cfg, nopLogger{})
}

func registerUser(t *testing.T, svc *UserService, email, password string) string {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName:        "Alice",
		LastName:         "Doe",
		Email:            email,
		Password:         password,
		PasswordConfirm:  password,
		SecurityQuestion: "favorite color",
		SecurityAnswer:   "Teal",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return user.ID
}

func TestRegister_Validation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"mismatched confirm", RegisterInput{Email: "a@b.c", Password: "482913", PasswordConfirm: "482914", SecurityQuestion: "q", SecurityAnswer: "a"}},
		{"weak password", RegisterInput{Email: "a@b.c", Password: "123456", PasswordConfirm: "123456", SecurityQuestion: "q", SecurityAnswer: "a"}},
		{"missing email", RegisterInput{Password: "482913", PasswordConfirm: "482913", SecurityQuestion: "q", SecurityAnswer: "a"}},
		{"missing question", RegisterInput{Email: "a@b.c", Password: "482913", PasswordConfirm: "482913", SecurityAnswer: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			if !errors.Is(err, common.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	registerUser(t, svc, "alice@example.com", "482913")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:            "Alice@Example.com", // email matching is case-insensitive
		Password:         "482913",
		PasswordConfirm:  "482913",
		SecurityQuestion: "q",
		SecurityAnswer:   "a",
	})
	if !errors.Is(err, common.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLogin_SuccessIssuesResolvableToken(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	userID := registerUser(t, svc, "alice@example.com", "482913")

	result, err := svc.Login(ctx, "alice@example.com", "482913")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.AccessToken == "" || result.MustChangePassword {
		t.Fatalf("unexpected result: %+v", result)
	}

	user, err := svc.Resolve(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("resolved id = %q, want %q", user.ID, userID)
	}
	if user.LastLoginAt == nil {
		t.Fatal("LastLoginAt not set")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "482913")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice@example.com", "482913")

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "alice@example.com", "000001")
		if !errors.Is(err, common.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: want ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Even the correct password is refused while locked.
	_, err := svc.Login(ctx, "alice@example.com", "482913")
	if !errors.Is(err, common.ErrAccountLocked) {
		t.Fatalf("want ErrAccountLocked, got %v", err)
	}
}

func TestResolve_InvalidToken(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Resolve(context.Background(), "garbage")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestPasswordRecoveryFlow(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice@example.com", "482913")

	question, err := svc.SecurityQuestion(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("SecurityQuestion error: %v", err)
	}
	if question != "favorite color" {
		t.Fatalf("question = %q", question)
	}

	if _, err := svc.ResetPassword(ctx, "alice@example.com", "wrong"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("wrong answer: want ErrValidation, got %v", err)
	}

	// Answer matching normalizes case and whitespace.
	temp, err := svc.ResetPassword(ctx, "alice@example.com", "  TEAL ")
	if err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}

	// The old password no longer works; the temporary one does and flags the
	// forced change.
	if _, err := svc.Login(ctx, "alice@example.com", "482913"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("old password: want ErrInvalidCredentials, got %v", err)
	}
	result, err := svc.Login(ctx, "alice@example.com", temp)
	if err != nil {
		t.Fatalf("Login with temp password error: %v", err)
	}
	if !result.MustChangePassword {
		t.Fatal("MustChangePassword should be set after a reset")
	}
}

func TestChangePassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	userID := registerUser(t, svc, "alice@example.com", "482913")

	if err := svc.ChangePassword(ctx, userID, "482913", "857201", "857202"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("mismatched confirm: want ErrValidation, got %v", err)
	}
	if err := svc.ChangePassword(ctx, userID, "000000", "857201", "857201"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("wrong current password: want ErrValidation, got %v", err)
	}
	if err := svc.ChangePassword(ctx, userID, "482913", "857201", "857201"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "857201"); err != nil {
		t.Fatalf("Login with new password error: %v", err)
	}
}
