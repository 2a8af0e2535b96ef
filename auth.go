package userforms

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var PasswordHashCost = bcrypt.DefaultCost

// MinPasswordLength matches the minlength attribute rendered on password
// inputs. It counts characters, not bytes, as browsers do.
const MinPasswordLength = 8

func (s *Store) Login(email, password string) (Account, error) {
	a, err := s.GetUserByEmail(email)
	if err != nil {
		return Account{}, ErrInvalidCredentials
	}
	if a.Status == "suspended" {
		return Account{}, ErrSuspended
	}
	if err := s.VerifyPassword(a.ID, password); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Store) SetPassword(userID, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return err
	}
	return s.upsertIdentity(userID, localProvider, string(hash), "")
}

func (s *Store) VerifyPassword(userID, password string) error {
	identity, err := s.getIdentityByUserAndProvider(userID, localProvider)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.ProviderID), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
