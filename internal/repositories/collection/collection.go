// Package collection implements typed entity repositories on top of any DocumentStore.
package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
)

type recordPtr[T any] interface {
	*T
	domain.Record
}

// Repository is a typed view over one collection of a DocumentStore.
type Repository[T any, PT recordPtr[T]] struct {
	kind  domain.EntityKind
	store portsrepo.DocumentStore
}

// New creates a repository for the collection that T belongs to.
func New[T any, PT recordPtr[T]](store portsrepo.DocumentStore) *Repository[T, PT] {
	var zero T
	return &Repository[T, PT]{kind: PT(&zero).Kind(), store: store}
}

// List returns every record in insertion order.
func (r *Repository[T, PT]) List(ctx context.Context) ([]T, error) {
	docs, err := r.store.List(ctx, r.kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := r.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Get returns one record.
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := r.store.Get(ctx, r.kind, id)
	if err != nil {
		return nil, err
	}
	return r.decode(*doc)
}

// Insert stores a new record.
func (r *Repository[T, PT]) Insert(ctx context.Context, rec *T) error {
	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(PT(rec)); err != nil {
		return err
	}
	if err := r.store.Apply(ctx, cs); err != nil {
		return err
	}
	PT(rec).Audit().Version = 1
	return nil
}

// Update patches a record under an optimistic version check.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, patch func(*T) error) (*T, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch(rec); err != nil {
		return nil, err
	}
	if PT(rec).RecordID() != id {
		return nil, fmt.Errorf("%w: %s id cannot change from %s", apperrors.ErrValidation, r.kind, id)
	}

	cs := portsrepo.NewChangeSet()
	if err := cs.UpdateVersioned(PT(rec)); err != nil {
		return nil, err
	}
	if err := r.store.Apply(ctx, cs); err != nil {
		return nil, err
	}
	PT(rec).Audit().Version++
	return rec, nil
}

// Remove deletes a record.
func (r *Repository[T, PT]) Remove(ctx context.Context, id string) error {
	cs := portsrepo.NewChangeSet()
	cs.Remove(r.kind, id)
	return r.store.Apply(ctx, cs)
}

func (r *Repository[T, PT]) decode(doc portsrepo.Document) (*T, error) {
	rec := new(T)
	if err := json.Unmarshal(doc.Data, rec); err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to decode %s %s", r.kind, doc.ID), err)
	}
	PT(rec).Audit().Version = doc.Version
	return rec, nil
}

// NewRepositoryProvider wires a typed repository for every collection onto store.
func NewRepositoryProvider(store portsrepo.DocumentStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:      store,
		LeadRepo:        New[domain.Lead](store),
		ClientRepo:      New[domain.Client](store),
		ProjectRepo:     New[domain.Project](store),
		TransactionRepo: New[domain.Transaction](store),
		CardRepo:        New[domain.Card](store),
		PocketRepo:      New[domain.FinancialPocket](store),
		TeamMemberRepo:  New[domain.TeamMember](store),
		TeamPaymentRepo: New[domain.TeamProjectPayment](store),
		PromoCodeRepo:   New[domain.PromoCode](store),
		PackageRepo:     New[domain.Package](store),
		AddOnRepo:       New[domain.AddOn](store),
	}
}
