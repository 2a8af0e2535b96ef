package userforms

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// nullableStr converts "" to nil so SQLite stores NULL instead of an empty string.
func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const accountColumns = "id, COALESCE(email, ''), first_name, last_name, email_verified, COALESCE(avatar_url, ''), status, created_at"

func (s *Store) CreateUser(email, firstName, lastName string) (Account, error) {
	id := s.newID()
	now := s.now().Unix()
	email = normalizeEmail(email)

	if err := s.exec.Exec(
		`INSERT INTO users (id, email, first_name, last_name, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		id, nullableStr(email), firstName, lastName, now,
	); err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, errors.Wrap(err, "insert user")
	}
	return Account{ID: id, Email: email, FirstName: firstName, LastName: lastName, Status: "active", CreatedAt: now}, nil
}

func (s *Store) GetUser(id string) (Account, error) {
	return s.scanAccount(s.exec.QueryRow("SELECT "+accountColumns+" FROM users WHERE id = ?", id))
}

func (s *Store) GetUserByEmail(email string) (Account, error) {
	return s.scanAccount(s.exec.QueryRow("SELECT "+accountColumns+" FROM users WHERE email = ?", normalizeEmail(email)))
}

func (s *Store) scanAccount(row Scanner) (Account, error) {
	var a Account
	var verified int
	err := row.Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &verified, &a.AvatarURL, &a.Status, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.EmailVerified = verified != 0
	return a, nil
}

// ProfileUpdate carries the editable profile columns. An empty AvatarURL
// keeps the stored avatar.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	AvatarURL string
}

// UpdateProfile writes the profile columns and returns the stored row.
// Changing the email clears its verified flag.
func (s *Store) UpdateProfile(id string, p ProfileUpdate) (Account, error) {
	current, err := s.GetUser(id)
	if err != nil {
		return Account{}, err
	}
	email := normalizeEmail(p.Email)
	verified := current.EmailVerified && email == current.Email
	avatar := current.AvatarURL
	if p.AvatarURL != "" {
		avatar = p.AvatarURL
	}

	if err := s.exec.Exec(
		"UPDATE users SET first_name = ?, last_name = ?, email = ?, email_verified = ?, avatar_url = ? WHERE id = ?",
		p.FirstName, p.LastName, nullableStr(email), boolInt(verified), nullableStr(avatar), id,
	); err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, errors.Wrap(err, "update profile")
	}
	return s.GetUser(id)
}

// DeleteUser removes the user together with its identities and sessions.
func (s *Store) DeleteUser(id string) error {
	for _, q := range []string{
		"DELETE FROM user_sessions WHERE user_id = ?",
		"DELETE FROM user_identities WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	} {
		if err := s.exec.Exec(q, id); err != nil {
			return errors.Wrap(err, "delete user")
		}
	}
	return nil
}

func (s *Store) MarkEmailVerified(id string) error {
	return s.exec.Exec("UPDATE users SET email_verified = 1 WHERE id = ?", id)
}

func (s *Store) SuspendUser(id string) error {
	return s.exec.Exec("UPDATE users SET status = 'suspended' WHERE id = ?", id)
}

func (s *Store) ReactivateUser(id string) error {
	return s.exec.Exec("UPDATE users SET status = 'active' WHERE id = ?", id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint: unique") ||
		strings.Contains(err.Error(), "duplicate key")
}
