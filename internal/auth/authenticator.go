package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures cannot be used to probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenMissing       = errors.New("token is missing")
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

// Authenticator issues, validates and revokes session tokens. Each user has
// at most one live session: issuing a new token overwrites the stored one,
// which immediately invalidates any token handed out earlier.
type Authenticator struct {
	users  UserStore
	tokens *TokenManager
	ttl    time.Duration
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(users UserStore, tokens *TokenManager, ttl time.Duration) *Authenticator {
	return &Authenticator{
		users:  users,
		tokens: tokens,
		ttl:    ttl,
	}
}

// Issue verifies the credentials, mints a signed token and persists it as the
// user's single active session. Concurrent logins race on the session write;
// the last writer wins and earlier tokens stop validating.
func (a *Authenticator) Issue(email, password string) (string, *User, error) {
	user, err := a.users.FindByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.ValidatePassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(a.ttl)
	token, err := a.tokens.Generate(user, expiresAt)
	if err != nil {
		return "", nil, err
	}

	if err := a.users.SetSession(user.ID, token, expiresAt); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Authenticate validates a presented token and returns the verified identity.
// A token is accepted only if its signature and embedded expiry check out AND
// it exactly matches the unexpired session stored for its subject; signature
// validity alone is not enough, which is what makes logout effective before
// the token's natural expiry.
func (a *Authenticator) Authenticate(token string) (*Identity, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Covers deleted users still holding a signed token.
		return nil, ErrUserNotFound
	}

	// Always true by construction, but enforced anyway.
	if claims.UserID != user.ID {
		return nil, ErrTokenRevoked
	}

	if user.ActiveToken == nil || *user.ActiveToken != token {
		return nil, ErrTokenRevoked
	}
	if user.ActiveTokenExpiresAt == nil || time.Now().After(*user.ActiveTokenExpiresAt) {
		return nil, ErrTokenRevoked
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// Revoke clears the user's stored session. Revoking an already-revoked
// session is a no-op success. Expired sessions are never swept proactively;
// a stale stored token is simply rejected at the next Authenticate call.
func (a *Authenticator) Revoke(userID int64) error {
	return a.users.ClearSession(userID)
}
