package userforms

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SessionManager is the authentication context shared by the forms. Login
// replaces whatever identity is held for token.
type SessionManager interface {
	Login(ctx context.Context, token string, user UserRecord) error
}

const sessionColumns = "token, user_id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(image, ''), expires_at, COALESCE(ip, ''), COALESCE(user_agent, ''), created_at"

// Sessions is the sqlite-backed SessionManager.
type Sessions struct {
	exec  Executor
	ttl   time.Duration
	cache *sessionCache
	now   func() time.Time
}

func NewSessions(store *Store, ttl time.Duration) (*Sessions, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Sessions{
		exec:  store.exec,
		ttl:   ttl,
		cache: newSessionCache(),
		now:   time.Now,
	}
	if err := s.cache.warmUp(s.exec, s.now().Unix()); err != nil {
		return nil, errors.Wrap(err, "warm session cache")
	}
	return s, nil
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

func (s *Sessions) Login(ctx context.Context, token string, user UserRecord) error {
	return s.LoginFrom(ctx, token, user, "", "")
}

// LoginFrom is Login with the client address and agent recorded.
func (s *Sessions) LoginFrom(ctx context.Context, token string, user UserRecord, ip, userAgent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" || user.ID == "" {
		return ErrInvalidCredentials
	}

	now := s.now().Unix()
	sess := Session{
		Token:     token,
		User:      user,
		ExpiresAt: now + int64(s.ttl/time.Second),
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := s.exec.Exec(
		`INSERT INTO user_sessions (token, user_id, name, email, image, expires_at, ip, user_agent, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id, name = excluded.name,
           email = excluded.email, image = excluded.image, expires_at = excluded.expires_at`,
		sess.Token, user.ID, user.Name, user.Email, nullableStr(user.Image), sess.ExpiresAt, sess.IP, sess.UserAgent, sess.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "store session")
	}
	s.cache.set(sess.Token, sess)
	return nil
}

// Current returns the live session for token.
func (s *Sessions) Current(token string) (Session, error) {
	now := s.now().Unix()
	if sess, ok := s.cache.get(token); ok {
		if sess.ExpiresAt < now {
			s.cache.delete(token)
			return Session{}, ErrSessionExpired
		}
		return sess, nil
	}

	sess, err := scanSession(s.exec.QueryRow("SELECT "+sessionColumns+" FROM user_sessions WHERE token = ?", token))
	if err != nil {
		if err == sql.ErrNoRows {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if sess.ExpiresAt < now {
		return Session{}, ErrSessionExpired
	}
	s.cache.set(sess.Token, sess)
	return sess, nil
}

func (s *Sessions) Logout(token string) error {
	s.cache.delete(token)
	return s.exec.Exec("DELETE FROM user_sessions WHERE token = ?", token)
}

func (s *Sessions) PurgeExpired() error {
	now := s.now().Unix()
	s.cache.deleteExpired(now)
	return s.exec.Exec("DELETE FROM user_sessions WHERE expires_at < ?", now)
}

func scanSession(row Scanner) (Session, error) {
	var sess Session
	err := row.Scan(&sess.Token, &sess.User.ID, &sess.User.Name, &sess.User.Email, &sess.User.Image,
		&sess.ExpiresAt, &sess.IP, &sess.UserAgent, &sess.CreatedAt)
	return sess, err
}
