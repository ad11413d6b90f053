package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/pkg/auth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := &fakeUsers{byID: map[uuid.UUID]*models.User{}}
	cats := newFakeCategories()
	s := NewAuthService(users, cats, auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour), zap.NewNop())
	ctx := context.Background()

	resp, err := s.Register(ctx, &dto.RegisterRequest{Username: " alice ", Email: "Alice@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register() unexpected error = %v", err)
	}
	if resp.User.Email != "alice@example.com" || resp.User.Username != "alice" {
		t.Errorf("Register() user = %+v", resp.User)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("Register() returned empty tokens")
	}
	if len(cats.byID) != len(models.DefaultCategories) {
		t.Errorf("seeded %d categories, want %d", len(cats.byID), len(models.DefaultCategories))
	}

	_, err = s.Register(ctx, &dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "another-pass"})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() duplicate error = %v, want %v", err, ErrUserExists)
	}
	_, err = s.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Register() short password error = %v, want %v", err, ErrValidation)
	}

	if _, err := s.Login(ctx, &dto.LoginRequest{Email: "ALICE@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("Login() unexpected error = %v", err)
	}
	if _, err := s.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}

	refreshed, err := s.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken() unexpected error = %v", err)
	}
	if refreshed.User.ID != resp.User.ID {
		t.Errorf("RefreshToken() user = %s, want %s", refreshed.User.ID, resp.User.ID)
	}
	if _, err := s.RefreshToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RefreshToken() with access token error = %v, want %v", err, ErrInvalidCredentials)
	}
}
