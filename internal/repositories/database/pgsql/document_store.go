package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	listDocumentsQuery = `
		SELECT id, version, data
		FROM entities
		WHERE kind = $1
		ORDER BY seq;
	`
	getDocumentQuery = `
		SELECT id, version, data
		FROM entities
		WHERE kind = $1 AND id = $2;
	`
	insertDocumentQuery = `
		INSERT INTO entities (kind, id, version, data)
		VALUES ($1, $2, 1, $3);
	`
	updateDocumentQuery = `
		UPDATE entities
		SET data = $3, version = version + 1, updated_at = now()
		WHERE kind = $1 AND id = $2 AND ($4::bigint = 0 OR version = $4);
	`
	deleteDocumentQuery = `
		DELETE FROM entities
		WHERE kind = $1 AND id = $2 AND ($3::bigint = 0 OR version = $3);
	`
	documentVersionQuery = `
		SELECT version FROM entities WHERE kind = $1 AND id = $2;
	`
)

// PgxDocumentStore keeps every collection in the entities table, one JSONB row per record.
type PgxDocumentStore struct {
	BaseRepository
}

// NewDocumentStore creates a document store over the pool.
func NewDocumentStore(pool *pgxpool.Pool) *PgxDocumentStore {
	return &PgxDocumentStore{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDocumentStore implements portsrepo.DocumentStore
var _ portsrepo.DocumentStore = (*PgxDocumentStore)(nil)

func (r *PgxDocumentStore) List(ctx context.Context, kind domain.EntityKind) ([]portsrepo.Document, error) {
	rows, err := r.Pool.Query(ctx, listDocumentsQuery, string(kind))
	if err != nil {
		return nil, translate(err, "list "+string(kind))
	}
	defer rows.Close()

	docs := make([]portsrepo.Document, 0)
	for rows.Next() {
		var doc portsrepo.Document
		if err := rows.Scan(&doc.ID, &doc.Version, &doc.Data); err != nil {
			return nil, translate(err, "scan "+string(kind))
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "iterate "+string(kind))
	}
	return docs, nil
}

func (r *PgxDocumentStore) Get(ctx context.Context, kind domain.EntityKind, id string) (*portsrepo.Document, error) {
	var doc portsrepo.Document
	err := r.Pool.QueryRow(ctx, getDocumentQuery, string(kind), id).Scan(&doc.ID, &doc.Version, &doc.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
		}
		return nil, translate(err, fmt.Sprintf("get %s %s", kind, id))
	}
	return &doc, nil
}

// Apply sends the whole change set as one batch inside a single database transaction.
func (r *PgxDocumentStore) Apply(ctx context.Context, cs *portsrepo.ChangeSet) error {
	if cs == nil || cs.Len() == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ch := range cs.Changes {
		switch ch.Action {
		case portsrepo.ActionInsert:
			batch.Queue(insertDocumentQuery, string(ch.Kind), ch.ID, string(ch.Data))
		case portsrepo.ActionUpdate:
			batch.Queue(updateDocumentQuery, string(ch.Kind), ch.ID, string(ch.Data), ch.ExpectedVersion)
		case portsrepo.ActionRemove:
			batch.Queue(deleteDocumentQuery, string(ch.Kind), ch.ID, ch.ExpectedVersion)
		default:
			return fmt.Errorf("unknown change action %q", ch.Action)
		}
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		var missed *portsrepo.Change
		for i := range cs.Changes {
			ch := cs.Changes[i]
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return translate(err, fmt.Sprintf("%s %s %s", ch.Action, ch.Kind, ch.ID))
			}
			// Updates and removes that touch no row lost a race or target a missing record.
			if ch.Action != portsrepo.ActionInsert && tag.RowsAffected() == 0 {
				missed = &ch
				break
			}
		}
		if err := br.Close(); err != nil {
			return translate(err, "apply change set")
		}
		if missed != nil {
			return r.explainMiss(ctx, tx, *missed)
		}
		return nil
	})
}

// explainMiss tells a missing row apart from a version mismatch.
func (r *PgxDocumentStore) explainMiss(ctx context.Context, tx pgx.Tx, ch portsrepo.Change) error {
	var version int64
	err := tx.QueryRow(ctx, documentVersionQuery, string(ch.Kind), ch.ID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ch.Kind, ch.ID)
	}
	if err != nil {
		return translate(err, fmt.Sprintf("version of %s %s", ch.Kind, ch.ID))
	}
	return fmt.Errorf("%w: %s %s is at version %d, expected %d",
		apperrors.ErrConflict, ch.Kind, ch.ID, version, ch.ExpectedVersion)
}
