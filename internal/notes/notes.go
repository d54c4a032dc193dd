package notes

import (
	"database/sql"
	"errors"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is owned by exactly one user; the owner never changes.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store handles note persistence. Every query predicate includes the owner
// id, so one user's notes are unreachable from another user's requests.
type Store struct {
	db     *sql.DB
	dbType string
}

// NewStore creates a new Store
func NewStore(db *sql.DB, dbType string) *Store {
	return &Store{db: db, dbType: dbType}
}

const noteColumns = "id, title, content, user_id, created_at, updated_at"

func scanNote(row *sql.Row) (*Note, error) {
	note := &Note{}
	err := row.Scan(&note.ID, &note.Title, &note.Content, &note.UserID, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListByUser returns all notes owned by the user
func (s *Store) ListByUser(userID int64) ([]*Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE user_id = ? ORDER BY id"
	if s.dbType == "postgres" {
		query = "SELECT " + noteColumns + " FROM notes WHERE user_id = $1 ORDER BY id"
	}

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		note := &Note{}
		err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.UserID, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// GetByID retrieves a note owned by the user, or ErrNoteNotFound
func (s *Store) GetByID(userID, noteID int64) (*Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE id = ? AND user_id = ?"
	if s.dbType == "postgres" {
		query = "SELECT " + noteColumns + " FROM notes WHERE id = $1 AND user_id = $2"
	}
	return scanNote(s.db.QueryRow(query, noteID, userID))
}

// Create stores a new note for the user
func (s *Store) Create(userID int64, title, content string) (*Note, error) {
	if s.dbType == "postgres" {
		row := s.db.QueryRow(
			"INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3) RETURNING "+noteColumns,
			userID, title, content,
		)
		return scanNote(row)
	}

	now := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO notes (user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		userID, title, content, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(userID, id)
}

// Update modifies a note owned by the user, or ErrNoteNotFound. The owner
// predicate is part of the UPDATE itself, so there is no window where
// another user's note could be touched.
func (s *Store) Update(userID, noteID int64, title, content string) (*Note, error) {
	query := "UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?"
	if s.dbType == "postgres" {
		query = "UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4 AND user_id = $5"
	}

	result, err := s.db.Exec(query, title, content, time.Now(), noteID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNoteNotFound
	}

	return s.GetByID(userID, noteID)
}

// Delete removes a note owned by the user, or ErrNoteNotFound
func (s *Store) Delete(userID, noteID int64) error {
	query := "DELETE FROM notes WHERE id = ? AND user_id = ?"
	if s.dbType == "postgres" {
		query = "DELETE FROM notes WHERE id = $1 AND user_id = $2"
	}

	result, err := s.db.Exec(query, noteID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoteNotFound
	}
	return nil
}
