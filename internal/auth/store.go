package auth

import (
	"database/sql"
	"time"
)

// UserStore defines the credential storage operations the Authenticator
// depends on. Lookups return (nil, nil) when no user matches; absence is a
// normal result, not an error.
type UserStore interface {
	FindByEmail(email string) (*User, error)
	FindByID(id int64) (*User, error)
	SetSession(userID int64, token string, expiresAt time.Time) error
	ClearSession(userID int64) error
}

// SQLUserStore implements UserStore over database/sql for SQLite and PostgreSQL
type SQLUserStore struct {
	db     *sql.DB
	dbType string
}

// NewUserStore creates a new SQLUserStore
func NewUserStore(db *sql.DB, dbType string) *SQLUserStore {
	return &SQLUserStore{db: db, dbType: dbType}
}

const userColumns = "id, email, password_hash, active_token, active_token_expires_at, created_at, updated_at"

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var activeToken sql.NullString
	var activeTokenExpiresAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&activeToken,
		&activeTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if activeToken.Valid {
		user.ActiveToken = &activeToken.String
	}
	if activeTokenExpiresAt.Valid {
		user.ActiveTokenExpiresAt = &activeTokenExpiresAt.Time
	}
	return user, nil
}

// FindByEmail retrieves a user by exact email match
func (s *SQLUserStore) FindByEmail(email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	if s.dbType == "postgres" {
		query = "SELECT " + userColumns + " FROM users WHERE email = $1"
	}
	return scanUser(s.db.QueryRow(query, email))
}

// FindByID retrieves a user by ID
func (s *SQLUserStore) FindByID(id int64) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	if s.dbType == "postgres" {
		query = "SELECT " + userColumns + " FROM users WHERE id = $1"
	}
	return scanUser(s.db.QueryRow(query, id))
}

// SetSession persists the user's session token and expiry. Both columns are
// written by a single UPDATE so the pair can never disagree.
func (s *SQLUserStore) SetSession(userID int64, token string, expiresAt time.Time) error {
	query := "UPDATE users SET active_token = ?, active_token_expires_at = ?, updated_at = ? WHERE id = ?"
	if s.dbType == "postgres" {
		query = "UPDATE users SET active_token = $1, active_token_expires_at = $2, updated_at = $3 WHERE id = $4"
	}
	_, err := s.db.Exec(query, token, expiresAt, time.Now(), userID)
	return err
}

// ClearSession clears the user's session token and expiry together.
// Clearing an already-empty session is a no-op success.
func (s *SQLUserStore) ClearSession(userID int64) error {
	query := "UPDATE users SET active_token = NULL, active_token_expires_at = NULL, updated_at = ? WHERE id = ?"
	if s.dbType == "postgres" {
		query = "UPDATE users SET active_token = NULL, active_token_expires_at = NULL, updated_at = $1 WHERE id = $2"
	}
	_, err := s.db.Exec(query, time.Now(), userID)
	return err
}

// Create inserts a new user with an already-hashed password. Users are
// created out-of-band (see cmd/useradm); this is not part of the
// Authenticator's contract.
func (s *SQLUserStore) Create(email, passwordHash string) (*User, error) {
	if s.dbType == "postgres" {
		row := s.db.QueryRow(
			"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING "+userColumns,
			email, passwordHash,
		)
		return scanUser(row)
	}

	now := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO users (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)",
		email, passwordHash, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.FindByID(id)
}
