package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
)

// Document is a stored record in its serialized form.
type Document struct {
	ID      string
	Version int64
	Data    []byte
}

// DocumentReader defines read operations over raw collections.
type DocumentReader interface {
	// List returns every document of a kind in insertion order.
	List(ctx context.Context, kind domain.EntityKind) ([]Document, error)

	// Get returns a single document or an error wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, kind domain.EntityKind, id string) (*Document, error)
}

// UnitOfWork applies a batch of changes all-or-nothing.
type UnitOfWork interface {
	// Apply validates every change against the current state and commits
	// them together. Nothing is written when any change fails.
	Apply(ctx context.Context, cs *ChangeSet) error
}

// DocumentStore is the persistence port every adapter implements.
type DocumentStore interface {
	DocumentReader
	UnitOfWork
}

// ChangeAction is the kind of write a Change performs.
type ChangeAction string

const (
	ActionInsert ChangeAction = "insert"
	ActionUpdate ChangeAction = "update"
	ActionRemove ChangeAction = "remove"
)

// Change is one write inside a ChangeSet. ExpectedVersion of zero skips the
// optimistic version check.
type Change struct {
	Kind            domain.EntityKind
	ID              string
	Action          ChangeAction
	Data            []byte
	ExpectedVersion int64
}

// ChangeSet is an ordered batch of writes applied through a UnitOfWork.
type ChangeSet struct {
	Changes []Change
}

// NewChangeSet creates an empty batch.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Insert queues a new record. The store rejects ids that already exist.
func (cs *ChangeSet) Insert(rec domain.Record) error {
	return cs.add(rec, ActionInsert, 0)
}

// Update queues a full replacement of an existing record.
func (cs *ChangeSet) Update(rec domain.Record) error {
	return cs.add(rec, ActionUpdate, 0)
}

// UpdateVersioned queues a replacement that only applies when the stored
// version still equals the version the record was read at.
func (cs *ChangeSet) UpdateVersioned(rec domain.Record) error {
	return cs.add(rec, ActionUpdate, rec.Audit().Version)
}

// Remove queues a deletion.
func (cs *ChangeSet) Remove(kind domain.EntityKind, id string) {
	cs.Changes = append(cs.Changes, Change{Kind: kind, ID: id, Action: ActionRemove})
}

// Put replaces the payload of a change already queued for the same record,
// keeping its action and expected version. Records not yet in the batch are
// queued as an update checked against the version they were read at.
func (cs *ChangeSet) Put(rec domain.Record) error {
	for i := range cs.Changes {
		ch := &cs.Changes[i]
		if ch.Kind != rec.Kind() || ch.ID != rec.RecordID() || ch.Action == ActionRemove {
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", rec.Kind(), rec.RecordID(), err)
		}
		ch.Data = data
		return nil
	}
	return cs.UpdateVersioned(rec)
}

// Has reports whether the batch already touches the record.
func (cs *ChangeSet) Has(kind domain.EntityKind, id string) bool {
	for _, ch := range cs.Changes {
		if ch.Kind == kind && ch.ID == id {
			return true
		}
	}
	return false
}

// Len is the number of queued changes.
func (cs *ChangeSet) Len() int {
	return len(cs.Changes)
}

func (cs *ChangeSet) add(rec domain.Record, action ChangeAction, expected int64) error {
	if rec.RecordID() == "" {
		return fmt.Errorf("cannot %s %s record without an id", action, rec.Kind())
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", rec.Kind(), rec.RecordID(), err)
	}
	cs.Changes = append(cs.Changes, Change{
		Kind:            rec.Kind(),
		ID:              rec.RecordID(),
		Action:          action,
		Data:            data,
		ExpectedVersion: expected,
	})
	return nil
}
