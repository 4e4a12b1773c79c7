package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"showclinic-backend/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrBadPassword  = errors.New("wrong password")
	ErrBadToken     = errors.New("invalid token")
)

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login valida credenciales y emite un token HS256 con id/username/role.
func (s *Service) Login(ctx context.Context, username, password string) (string, auth.Role, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", ErrInvalidInput
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", "", ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrBadPassword
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return token, u.Role, nil
}

// Verify implementa auth.AuthVerifier sobre el mismo secreto de firma.
func (s *Service) Verify(_ context.Context, token string) (auth.Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrBadToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrBadToken
	}

	sub, _ := mc["sub"].(string)
	username, _ := mc["username"].(string)
	roleStr, _ := mc["role"].(string)

	role, ok := auth.ParseRole(roleStr)
	if !ok || strings.TrimSpace(sub) == "" {
		return auth.Claims{}, ErrBadToken
	}

	return auth.Claims{UserID: sub, Username: username, Role: role}, nil
}

// Register crea un usuario con hash bcrypt. Usado por el seed inicial.
func (s *Service) Register(ctx context.Context, username, password string, role auth.Role) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidInput
	}
	if _, ok := auth.ParseRole(string(role)); !ok {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureDefaultUsers siembra los usuarios base (doctor/admin) si no existen,
// como hacía el script de inicialización original.
func (s *Service) EnsureDefaultUsers(ctx context.Context, password string) error {
	if password == "" {
		password = "showclinic"
	}
	for _, seed := range []struct {
		username string
		role     auth.Role
	}{
		{"doctor", auth.RoleDoctor},
		{"admin", auth.RoleAdmin},
	} {
		if _, err := s.repo.GetByUsername(ctx, seed.username); err == nil {
			continue
		}
		if _, err := s.Register(ctx, seed.username, password, seed.role); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.username, err)
		}
	}
	return nil
}
