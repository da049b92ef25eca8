package service

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/observability"
	"github.com/matzehuels/graphit/pkg/store"
)

type countingHooks struct {
	observability.NoopDocumentHooks
	loads, merges, saves, searches, failures int
}

func (h *countingHooks) OnLoad(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.loads++
	if err != nil {
		h.failures++
	}
}

func (h *countingHooks) OnMerge(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.merges++
	if err != nil {
		h.failures++
	}
}

func (h *countingHooks) OnSave(context.Context, int, time.Duration, error) { h.saves++ }
func (h *countingHooks) OnSearch(context.Context, int, time.Duration)      { h.searches++ }

func newService(t *testing.T) (*DocumentService, *countingHooks) {
	t.Helper()
	hooks := &countingHooks{}
	return New(store.NewMemoryStore(), observability.Hooks{Document: hooks}), hooks
}

func parse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return v
}

const sample = `{"nodes":[{"id":"a","label":"payment queue"},{"id":"b","label":"billing worker"}],"links":[{"source":"a","target":"b"}]}`

func TestCreateAndOpen(t *testing.T) {
	ctx := context.Background()
	svc, hooks := newService(t)

	entry, err := svc.Create(ctx, "", parse(t, sample))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if entry.Name != "Untitled" {
		t.Errorf("Name = %q, want %q", entry.Name, "Untitled")
	}

	doc, got, err := svc.Open(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got.ID != entry.ID || len(doc.Nodes) != 2 || doc.Links[0].Source != doc.Nodes[0] {
		t.Errorf("Open() = %+v", doc)
	}
	if hooks.loads != 2 || hooks.saves != 1 {
		t.Errorf("hooks loads/saves = %d/%d, want 2/1", hooks.loads, hooks.saves)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, hooks := newService(t)

	_, err := svc.Create(ctx, "bad", parse(t, `{"links":[{"source":"x","target":"y"}]}`))
	if !errors.Is(err, errors.ErrCodeDanglingReference) {
		t.Errorf("Create() error = %v, want DANGLING_REFERENCE", err)
	}
	if hooks.failures != 1 {
		t.Errorf("failures = %d, want 1", hooks.failures)
	}

	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Errorf("invalid document was stored: %v", list)
	}
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	entry, err := svc.Create(ctx, "named", parse(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Replace(ctx, entry.ID, "", parse(t, `{}`)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	doc, got, err := svc.Open(ctx, entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "named" || len(doc.Nodes) != 0 {
		t.Errorf("after Replace name=%q nodes=%d", got.Name, len(doc.Nodes))
	}

	if _, err := svc.Replace(ctx, "missing", "", parse(t, `{}`)); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Replace(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestMergeStored(t *testing.T) {
	ctx := context.Background()
	svc, hooks := newService(t)

	entry, err := svc.Create(ctx, "", parse(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	incoming := parse(t, `{"nodes":[{"id":"a"},{"id":"b","color":"red"},{"id":"c","label":"cache"}]}`).(*jsonvalue.Object)
	if _, err := svc.MergeStored(ctx, entry.ID, incoming); err != nil {
		t.Fatalf("MergeStored error: %v", err)
	}

	doc, _, err := svc.Open(ctx, entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 3 || doc.Nodes[0].Label != "payment queue" || *doc.Nodes[1].Color != "red" {
		t.Errorf("merged nodes = %+v", doc.Nodes)
	}
	if hooks.merges != 1 {
		t.Errorf("merges = %d, want 1", hooks.merges)
	}
}

func TestSearchStored(t *testing.T) {
	ctx := context.Background()
	svc, hooks := newService(t)

	entry, err := svc.Create(ctx, "", parse(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	nodes, err := svc.SearchStored(ctx, entry.ID, "payment", 10)
	if err != nil {
		t.Fatalf("SearchStored error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "a" {
		t.Errorf("SearchStored() = %v", nodes)
	}
	if hooks.searches != 1 {
		t.Errorf("searches = %d, want 1", hooks.searches)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	entry, err := svc.Create(ctx, "", parse(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, _, err := svc.Open(ctx, entry.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Open() after Delete error = %v, want NOT_FOUND", err)
	}
}

func TestWithoutStore(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, observability.Hooks{})

	doc, err := svc.Parse(ctx, []byte(sample), "x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := svc.Put(ctx, "", doc); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Put() without store error = %v, want INTERNAL_ERROR", err)
	}
	if _, err := svc.Parse(ctx, []byte("{"), "x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Parse() error = %v, want INVALID_INPUT", err)
	}
}
