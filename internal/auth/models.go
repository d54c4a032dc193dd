package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a system user and their single active session, if any.
// ActiveToken and ActiveTokenExpiresAt are always set or cleared together.
type User struct {
	ID                   int64      `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // never exposed in JSON
	ActiveToken          *string    `json:"-"`
	ActiveTokenExpiresAt *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ValidatePassword checks if the provided password matches the user's password
func (u *User) ValidatePassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Identity is the verified (user id, email) pair handed to downstream
// handlers after successful authentication.
type Identity struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}
