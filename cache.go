package userforms

import (
	"sync"
)

type sessionCache struct {
	mu    sync.RWMutex
	items map[string]Session
}

func newSessionCache() *sessionCache {
	return &sessionCache{
		items: make(map[string]Session),
	}
}

func (c *sessionCache) warmUp(exec Executor, now int64) error {
	rows, err := exec.Query("SELECT "+sessionColumns+" FROM user_sessions WHERE expires_at > ?", now)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return err
		}
		c.items[s.Token] = s
	}
	return rows.Err()
}

func (c *sessionCache) set(token string, s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[token] = s
}

func (c *sessionCache) get(token string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[token]
	return s, ok
}

func (c *sessionCache) delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, token)
}

func (c *sessionCache) deleteExpired(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if v.ExpiresAt < now {
			delete(c.items, k)
		}
	}
}
