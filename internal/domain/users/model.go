package users

import "showclinic-backend/internal/ports/auth"

// User solo existe para el login; el resto del sistema ve Claims.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         auth.Role
}
