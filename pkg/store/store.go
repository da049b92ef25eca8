// Package store persists named graph documents.
//
// A [Store] is a simple key/value collection of [Entry] values keyed by
// document id. Writes are last-writer-wins; there are no transactions and
// no history. Backends:
//   - file: one JSON file per document in a directory (CLI default)
//   - memory: process-local map, for tests and ephemeral servers
//   - redis: one key per document plus an index set
//   - mongo: one MongoDB document per entry
//   - sqlite: a single table in a SQLite database file
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: "file", Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	entry := &store.Entry{Name: "My graph", Content: data}
//	if err := s.Put(ctx, entry); err != nil { // assigns entry.ID
//	    return err
//	}
//
// Get and Delete fail with NOT_FOUND for unknown ids. Content is the saved
// document text; stores never parse it.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphit/pkg/errors"
)

// Entry is a stored document.
type Entry struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Content   []byte    `json:"content,omitempty" bson:"content,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is a document collection.
type Store interface {
	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (*Entry, error)

	// Put inserts or replaces e. An empty e.ID is assigned a new id, and
	// e.UpdatedAt is set to the write time.
	Put(ctx context.Context, e *Entry) error

	// Delete removes the entry with the given id.
	Delete(ctx context.Context, id string) error

	// List returns all entries without content, most recently updated first.
	List(ctx context.Context) ([]Entry, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.NewString()
}

// prepare validates e and fills in its id and timestamp.
func prepare(e *Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if err := errors.ValidateDocumentID(e.ID); err != nil {
		return err
	}
	if err := errors.ValidateDocumentName(e.Name); err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "document %q not found", id)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
