package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUserStore is an in-memory UserStore for authenticator tests.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[int64]*User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[int64]*User)}
}

func (s *memoryUserStore) add(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *memoryUserStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *memoryUserStore) FindByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) FindByID(id int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *memoryUserStore) SetSession(userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.ActiveToken = &token
	u.ActiveTokenExpiresAt = &expiresAt
	return nil
}

func (s *memoryUserStore) ClearSession(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.ActiveToken = nil
		u.ActiveTokenExpiresAt = nil
	}
	return nil
}

func newTestAuthenticator(t *testing.T, ttl time.Duration) (*Authenticator, *memoryUserStore, *User) {
	t.Helper()

	store := newMemoryUserStore()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	user := &User{ID: 1, Email: "alice@example.com", PasswordHash: hash}
	store.add(user)

	authn := NewAuthenticator(store, NewTokenManager("test-secret"), ttl)
	return authn, store, user
}

func TestIssueThenAuthenticate(t *testing.T) {
	authn, _, _ := newTestAuthenticator(t, time.Hour)

	token, user, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)

	identity, err := authn.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestIssueInvalidCredentials(t *testing.T) {
	authn, _, _ := newTestAuthenticator(t, time.Hour)

	// Wrong password for an existing user and an unknown email must be
	// indistinguishable to the caller.
	_, _, wrongPassword := authn.Issue("alice@example.com", "nope")
	_, _, unknownEmail := authn.Issue("nobody@example.com", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRevokeInvalidatesToken(t *testing.T) {
	authn, _, user := newTestAuthenticator(t, time.Hour)

	token, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, authn.Revoke(user.ID))

	// Signature and embedded expiry are still valid; the stored session is gone.
	_, err = authn.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking again is a no-op success.
	assert.NoError(t, authn.Revoke(user.ID))
}

func TestSecondIssueInvalidatesFirst(t *testing.T) {
	authn, _, _ := newTestAuthenticator(t, time.Hour)

	first, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)
	second, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = authn.Authenticate(first)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	identity, err := authn.Authenticate(second)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	// Negative TTL mints a token whose embedded exp is already in the past.
	authn, _, _ := newTestAuthenticator(t, -time.Hour)

	token, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)

	_, err = authn.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthenticateStoredSessionExpired(t *testing.T) {
	authn, store, user := newTestAuthenticator(t, time.Hour)

	token, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)

	// Embedded exp is still in the future, but the stored record has lapsed.
	past := time.Now().Add(-time.Minute)
	store.users[user.ID].ActiveTokenExpiresAt = &past

	_, err = authn.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthenticateTamperedToken(t *testing.T) {
	authn, _, _ := newTestAuthenticator(t, time.Hour)

	token, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = authn.Authenticate(tampered)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	authn, store, user := newTestAuthenticator(t, time.Hour)

	token, _, err := authn.Issue("alice@example.com", "correct horse")
	require.NoError(t, err)

	store.remove(user.ID)

	_, err = authn.Authenticate(token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
