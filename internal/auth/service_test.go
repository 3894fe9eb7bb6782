package auth

import (
	"context"
	"errors"
	"testing"
)

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "test@example.com",
		Username:  "tester",
		FirstName: "Test",
		LastName:  "User",
		Password:  "Password@123",
	}
}

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	in := validInput()
	user, err := service.Register(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("user not found: %v", err)
	}

	if stored.Password == in.Password {
		t.Fatalf("password was stored in plain text")
	}
	if stored.Role != RoleUser {
		t.Fatalf("expected role %q, got %q", RoleUser, stored.Role)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	if _, err := service.Register(ctx, validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dupEmail := validInput()
	dupEmail.Username = "other"
	dupEmail.Email = "TEST@example.com"
	if _, err := service.Register(ctx, dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	dupUsername := validInput()
	dupUsername.Email = "other@example.com"
	if _, err := service.Register(ctx, dupUsername); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()
	in := validInput()
	if _, err := service.Register(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Login(ctx, in.Email, in.Password); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if _, err := service.Login(ctx, in.Email, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody@example.com", in.Password); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()
	in := validInput()
	user, _ := service.Register(ctx, in)

	if err := service.SetPassword(ctx, user.ID, "wrong", "next-pass"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := service.SetPassword(ctx, user.ID, in.Password, "next-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Login(ctx, in.Email, "next-pass"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestCreateSuperuserIsIdempotent(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	in := validInput()
	in.Username = "admin"

	created, err := service.CreateSuperuser(ctx, in)
	if err != nil || !created {
		t.Fatalf("expected superuser to be created, got created=%v err=%v", created, err)
	}
	created, err = service.CreateSuperuser(ctx, in)
	if err != nil || created {
		t.Fatalf("expected second call to be a no-op, got created=%v err=%v", created, err)
	}

	u, _ := repo.FindByEmail(ctx, in.Email)
	if !u.IsAdmin() {
		t.Fatalf("expected admin role, got %q", u.Role)
	}
}
