package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"showclinic-backend/internal/ports/auth"
)

type testRepo struct {
	byUsername map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byUsername: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if _, ok := r.byUsername[u.Username]; ok {
		return errors.New("repo: already exists")
	}
	r.byUsername[u.Username] = u
	return nil
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func TestLoginAndVerify_RoundTrip(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "doctor", "clave123", auth.RoleDoctor); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, role, err := svc.Login(context.Background(), "doctor", "clave123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if role != auth.RoleDoctor {
		t.Fatalf("role = %q, want doctor", role)
	}

	claims, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "doctor" || claims.Role != auth.RoleDoctor {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLogin_Errors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "admin", "clave123", auth.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "nadie", "clave123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin", "otra"); !errors.Is(err, ErrBadPassword) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty credentials: got %v", err)
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "doctor", "clave123", auth.RoleDoctor); err != nil {
		t.Fatalf("register: %v", err)
	}

	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.Login(context.Background(), "doctor", "clave123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, ErrBadToken) {
		t.Fatalf("expired token must fail, got %v", err)
	}
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	repo := newTestRepo()
	issuer := NewService(repo, "secret-a", time.Hour)
	verifier := NewService(repo, "secret-b", time.Hour)

	if _, err := issuer.Register(context.Background(), "doctor", "clave123", auth.RoleDoctor); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := issuer.Login(context.Background(), "doctor", "clave123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, ErrBadToken) {
		t.Fatalf("foreign signature must fail, got %v", err)
	}
}

func TestEnsureDefaultUsers_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, "test-secret", time.Hour)

	if err := svc.EnsureDefaultUsers(context.Background(), ""); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.EnsureDefaultUsers(context.Background(), ""); err != nil {
		t.Fatalf("second seed must be a no-op: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "doctor", "showclinic"); err != nil {
		t.Fatalf("seeded doctor login: %v", err)
	}
	if _, role, err := svc.Login(context.Background(), "admin", "showclinic"); err != nil || role != auth.RoleAdmin {
		t.Fatalf("seeded admin login: role=%q err=%v", role, err)
	}
}
