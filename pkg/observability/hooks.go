// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Components that do interesting work take
// hook values in their constructors and report events to them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op implementations
//   - Let the application pass concrete implementations at construction time
//
// The HTTP server passes Prometheus-backed hooks; the CLI passes [LogHooks]
// when run with --verbose and the no-op hooks otherwise.
//
// # Usage
//
//	hooks := observability.Hooks{
//	    Document: observability.NoopDocumentHooks{},
//	    Store:    &myStoreMetrics{},
//	}
//	svc := service.New(store, hooks)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives events from document operations.
type DocumentHooks interface {
	// OnLoad records a document load. nodes and links are zero on error.
	OnLoad(ctx context.Context, nodes, links int, duration time.Duration, err error)

	// OnMerge records a merge of an incoming document.
	OnMerge(ctx context.Context, nodes, links int, duration time.Duration, err error)

	// OnSave records a save producing size bytes.
	OnSave(ctx context.Context, size int, duration time.Duration, err error)

	// OnSearch records a label search.
	OnSearch(ctx context.Context, results int, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnStoreOp records one store call. op is one of get, put, delete, list.
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// Hooks bundles the hook categories.
type Hooks struct {
	Document DocumentHooks
	Store    StoreHooks
}

// Noop returns hooks that do nothing.
func Noop() Hooks {
	return Hooks{Document: NoopDocumentHooks{}, Store: NoopStoreHooks{}}
}

// OrNoop fills unset categories with no-op hooks.
func (h Hooks) OrNoop() Hooks {
	if h.Document == nil {
		h.Document = NoopDocumentHooks{}
	}
	if h.Store == nil {
		h.Store = NoopStoreHooks{}
	}
	return h
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnLoad(context.Context, int, int, time.Duration, error)  {}
func (NoopDocumentHooks) OnMerge(context.Context, int, int, time.Duration, error) {}
func (NoopDocumentHooks) OnSave(context.Context, int, time.Duration, error)       {}
func (NoopDocumentHooks) OnSearch(context.Context, int, time.Duration)            {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}
