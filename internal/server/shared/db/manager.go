// Package db wires the PostgreSQL connection, the repositories built on it,
// and the embedded migrations applied at startup.
package db

import (
	"context"
	"database/sql"

	"github.com/mzaytsev/authd/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
}
