package userforms

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tinywasm/unixid"
)

// Store owns the user, identity and oauth-state tables.
type Store struct {
	exec Executor
	ids  *unixid.UnixID
	now  func() time.Time
}

// NewStore runs migrations and returns a ready store.
func NewStore(exec Executor) (*Store, error) {
	if err := runMigrations(exec); err != nil {
		return nil, errors.Wrap(err, "run migrations")
	}
	u, err := unixid.NewUnixID()
	if err != nil {
		return nil, errors.Wrap(err, "init id generator")
	}
	return &Store{exec: exec, ids: u, now: time.Now}, nil
}

func (s *Store) newID() string {
	return s.ids.GetNewID()
}
