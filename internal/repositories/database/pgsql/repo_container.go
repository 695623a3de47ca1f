package pgsql

import (
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/repositories/collection"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every collection repository onto the entities table.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return collection.NewRepositoryProvider(NewDocumentStore(dbPool))
}
