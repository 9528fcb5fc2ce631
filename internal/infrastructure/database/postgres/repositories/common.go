// Package repositories implements the client and deadline store ports on
// PostgreSQL.
package repositories

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// Store bundles both repositories over one pool.
type Store struct {
	Clients   *ClientRepo
	Deadlines *DeadlineRepo
}

// NewStore wires both repositories over db.
func NewStore(db postgres.DB, log logging.Logger) *Store {
	return &Store{
		Clients:   NewClientRepo(db, log),
		Deadlines: NewDeadlineRepo(db, log),
	}
}

// isNoRows reports whether err means the row does not exist.
func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}

func dbError(err error, message string) error {
	return errors.Wrap(err, errors.ErrCodeDatabaseError, message)
}

//Personal.AI order the ending
