package userforms

import (
	"database/sql"

	"github.com/pkg/errors"
)

const localProvider = "local"

func (s *Store) CreateIdentity(userID, provider, providerID, email string) error {
	if err := s.exec.Exec(
		`INSERT INTO user_identities (id, user_id, provider, provider_id, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.newID(), userID, provider, providerID, nullableStr(email), s.now().Unix(),
	); err != nil {
		return errors.Wrap(err, "insert identity")
	}
	return nil
}

func (s *Store) GetIdentityByProvider(provider, providerID string) (Identity, error) {
	return scanIdentity(s.exec.QueryRow(
		"SELECT id, user_id, provider, provider_id, COALESCE(email, ''), created_at FROM user_identities WHERE provider = ? AND provider_id = ?",
		provider, providerID,
	))
}

func (s *Store) getIdentityByUserAndProvider(userID, provider string) (Identity, error) {
	return scanIdentity(s.exec.QueryRow(
		"SELECT id, user_id, provider, provider_id, COALESCE(email, ''), created_at FROM user_identities WHERE user_id = ? AND provider = ?",
		userID, provider,
	))
}

func scanIdentity(row Scanner) (Identity, error) {
	var i Identity
	err := row.Scan(&i.ID, &i.UserID, &i.Provider, &i.ProviderID, &i.Email, &i.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return i, nil
}

func (s *Store) upsertIdentity(userID, provider, providerID, email string) error {
	_, err := s.getIdentityByUserAndProvider(userID, provider)
	switch {
	case err == nil:
		return s.exec.Exec("UPDATE user_identities SET provider_id = ?, email = ? WHERE user_id = ? AND provider = ?", providerID, nullableStr(email), userID, provider)
	case errors.Is(err, ErrNotFound):
		return s.CreateIdentity(userID, provider, providerID, email)
	default:
		return err
	}
}
