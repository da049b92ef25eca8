// Package service ties graph documents to a store and reports every
// operation to observability hooks. The CLI and the HTTP server both go
// through it.
package service

import (
	"context"
	"time"

	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/observability"
	"github.com/matzehuels/graphit/pkg/search"
	"github.com/matzehuels/graphit/pkg/store"
)

// DocumentService provides document operations over a store.
type DocumentService struct {
	store store.Store
	hooks observability.Hooks
}

// New creates a document service. A nil store is allowed for callers that
// only work on documents in memory.
func New(s store.Store, hooks observability.Hooks) *DocumentService {
	return &DocumentService{store: s, hooks: hooks.OrNoop()}
}

// =============================================================================
// Document Operations
// =============================================================================

// Load builds a document from a parsed value.
func (s *DocumentService) Load(ctx context.Context, v jsonvalue.Value, name string) (*document.GraphDocument, error) {
	start := time.Now()
	doc, err := document.LoadValue(v, name)
	if err != nil {
		s.hooks.Document.OnLoad(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	s.hooks.Document.OnLoad(ctx, len(doc.Nodes), len(doc.Links), time.Since(start), nil)
	return doc, nil
}

// Parse builds a document from JSON text.
func (s *DocumentService) Parse(ctx context.Context, data []byte, name string) (*document.GraphDocument, error) {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "parse document")
		s.hooks.Document.OnLoad(ctx, 0, 0, 0, err)
		return nil, err
	}
	return s.Load(ctx, v, name)
}

// Save serializes doc.
func (s *DocumentService) Save(ctx context.Context, doc *document.GraphDocument) ([]byte, error) {
	start := time.Now()
	data, err := doc.Save()
	s.hooks.Document.OnSave(ctx, len(data), time.Since(start), err)
	return data, err
}

// Merge merges incoming into doc and returns the result. doc is unchanged.
func (s *DocumentService) Merge(ctx context.Context, doc *document.GraphDocument, incoming *jsonvalue.Object) (*document.GraphDocument, error) {
	start := time.Now()
	merged, err := doc.Merge(incoming)
	if err != nil {
		s.hooks.Document.OnMerge(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	s.hooks.Document.OnMerge(ctx, len(merged.Nodes), len(merged.Links), time.Since(start), nil)
	return merged, nil
}

// Search returns the nodes of doc whose labels match query, best first.
// A limit of zero or less returns every match.
func (s *DocumentService) Search(ctx context.Context, doc *document.GraphDocument, query string, limit int) []*document.Node {
	ranked := s.Rank(ctx, doc, query, limit)
	nodes := make([]*document.Node, len(ranked))
	for i, r := range ranked {
		nodes[i] = r.Item
	}
	return nodes
}

// Rank is like Search but keeps the match scores. Lower scores are better.
func (s *DocumentService) Rank(ctx context.Context, doc *document.GraphDocument, query string, limit int) []search.Result[*document.Node] {
	start := time.Now()
	ranked := doc.NodeSearchHelper().Rank(query)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	s.hooks.Document.OnSearch(ctx, len(ranked), time.Since(start))
	return ranked
}

// =============================================================================
// Stored Documents
// =============================================================================

// List returns stored document summaries.
func (s *DocumentService) List(ctx context.Context) ([]store.Entry, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// Open loads a stored document.
func (s *DocumentService) Open(ctx context.Context, id string) (*document.GraphDocument, *store.Entry, error) {
	if err := s.requireStore(); err != nil {
		return nil, nil, err
	}
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.Parse(ctx, entry.Content, entry.Name)
	if err != nil {
		return nil, nil, err
	}
	return doc, entry, nil
}

// Create validates v and stores it as a new document. An empty name means
// [document.DefaultName].
func (s *DocumentService) Create(ctx context.Context, name string, v jsonvalue.Value) (*store.Entry, error) {
	doc, err := s.Load(ctx, v, name)
	if err != nil {
		return nil, err
	}
	return s.Put(ctx, "", doc)
}

// Replace validates v and stores it over the document id, keeping the
// stored name unless name is non-empty. The document must exist.
func (s *DocumentService) Replace(ctx context.Context, id, name string, v jsonvalue.Value) (*store.Entry, error) {
	_, entry, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = entry.Name
	}
	doc, err := s.Load(ctx, v, name)
	if err != nil {
		return nil, err
	}
	return s.Put(ctx, id, doc)
}

// MergeStored merges incoming into the stored document id and stores the
// result.
func (s *DocumentService) MergeStored(ctx context.Context, id string, incoming *jsonvalue.Object) (*store.Entry, error) {
	doc, _, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := s.Merge(ctx, doc, incoming)
	if err != nil {
		return nil, err
	}
	return s.Put(ctx, id, merged)
}

// SearchStored searches the node labels of the stored document id.
func (s *DocumentService) SearchStored(ctx context.Context, id, query string, limit int) ([]*document.Node, error) {
	doc, _, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, doc, query, limit), nil
}

// Put saves doc under id. An empty id creates a new entry.
func (s *DocumentService) Put(ctx context.Context, id string, doc *document.GraphDocument) (*store.Entry, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	data, err := s.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	entry := &store.Entry{ID: id, Name: doc.Name, Content: data}
	if err := s.store.Put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the stored document id.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *DocumentService) requireStore() error {
	if s.store == nil {
		return errors.New(errors.ErrCodeInternal, "no document store configured")
	}
	return nil
}
