// Package memory is an in-process DocumentStore. It backs development runs
// without a database and every service test.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/repositories/collection"
)

type table struct {
	order []string
	docs  map[string]portsrepo.Document
}

func newTable() *table {
	return &table{docs: make(map[string]portsrepo.Document)}
}

func (c *table) clone() *table {
	cp := &table{
		order: make([]string, len(c.order)),
		docs:  make(map[string]portsrepo.Document, len(c.docs)),
	}
	copy(cp.order, c.order)
	for k, v := range c.docs {
		cp.docs[k] = v
	}
	return cp
}

func (c *table) remove(id string) {
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Store keeps every collection in memory behind a single lock.
type Store struct {
	mu          sync.RWMutex
	collections map[domain.EntityKind]*table
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[domain.EntityKind]*table)}
}

// Ensure Store implements portsrepo.DocumentStore
var _ portsrepo.DocumentStore = (*Store)(nil)

// NewRepositoryProvider builds the typed repositories over a fresh in-memory store.
func NewRepositoryProvider() (portsrepo.RepositoryProvider, *Store) {
	store := NewStore()
	return collection.NewRepositoryProvider(store), store
}

func (s *Store) List(ctx context.Context, kind domain.EntityKind) ([]portsrepo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[kind]
	if !ok {
		return []portsrepo.Document{}, nil
	}
	out := make([]portsrepo.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, kind domain.EntityKind, id string) (*portsrepo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[kind]; ok {
		if doc, ok := c.docs[id]; ok {
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

// Apply stages every change on copies of the touched collections and swaps
// them in only when all changes succeed.
func (s *Store) Apply(ctx context.Context, cs *portsrepo.ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cs == nil || cs.Len() == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[domain.EntityKind]*table)
	stage := func(kind domain.EntityKind) *table {
		if c, ok := staged[kind]; ok {
			return c
		}
		c, ok := s.collections[kind]
		if !ok {
			c = newTable()
		} else {
			c = c.clone()
		}
		staged[kind] = c
		return c
	}

	for i, ch := range cs.Changes {
		c := stage(ch.Kind)
		current, exists := c.docs[ch.ID]

		switch ch.Action {
		case portsrepo.ActionInsert:
			if exists {
				return fmt.Errorf("%w: %s %s (change %d)", apperrors.ErrDuplicate, ch.Kind, ch.ID, i)
			}
			c.docs[ch.ID] = portsrepo.Document{ID: ch.ID, Version: 1, Data: ch.Data}
			c.order = append(c.order, ch.ID)

		case portsrepo.ActionUpdate:
			if !exists {
				return fmt.Errorf("%w: %s %s (change %d)", apperrors.ErrNotFound, ch.Kind, ch.ID, i)
			}
			if ch.ExpectedVersion != 0 && ch.ExpectedVersion != current.Version {
				return fmt.Errorf("%w: %s %s is at version %d, expected %d",
					apperrors.ErrConflict, ch.Kind, ch.ID, current.Version, ch.ExpectedVersion)
			}
			c.docs[ch.ID] = portsrepo.Document{ID: ch.ID, Version: current.Version + 1, Data: ch.Data}

		case portsrepo.ActionRemove:
			if !exists {
				return fmt.Errorf("%w: %s %s (change %d)", apperrors.ErrNotFound, ch.Kind, ch.ID, i)
			}
			if ch.ExpectedVersion != 0 && ch.ExpectedVersion != current.Version {
				return fmt.Errorf("%w: %s %s is at version %d, expected %d",
					apperrors.ErrConflict, ch.Kind, ch.ID, current.Version, ch.ExpectedVersion)
			}
			c.remove(ch.ID)

		default:
			return fmt.Errorf("unknown change action %q", ch.Action)
		}
	}

	for kind, c := range staged {
		s.collections[kind] = c
	}
	return nil
}
