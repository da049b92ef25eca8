package store

import (
	"context"
	"time"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/observability"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Dir is the file backend directory.
	Dir string `toml:"dir"`

	// Path is the SQLite database file.
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Open creates the store cfg describes. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite backend needs a database path")
		}
		return NewSQLiteStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
}

// =============================================================================
// Instrumentation
// =============================================================================

// Instrumented reports every call of the wrapped store to hooks.
type Instrumented struct {
	Store
	backend string
	hooks   observability.StoreHooks
}

// Instrument wraps s so each call is reported under the given backend name.
func Instrument(s Store, backend string, hooks observability.StoreHooks) *Instrumented {
	if hooks == nil {
		hooks = observability.NoopStoreHooks{}
	}
	return &Instrumented{Store: s, backend: backend, hooks: hooks}
}

func (s *Instrumented) Get(ctx context.Context, id string) (*Entry, error) {
	start := time.Now()
	e, err := s.Store.Get(ctx, id)
	s.hooks.OnStoreOp(ctx, s.backend, "get", time.Since(start), err)
	return e, err
}

func (s *Instrumented) Put(ctx context.Context, e *Entry) error {
	start := time.Now()
	err := s.Store.Put(ctx, e)
	s.hooks.OnStoreOp(ctx, s.backend, "put", time.Since(start), err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, id)
	s.hooks.OnStoreOp(ctx, s.backend, "delete", time.Since(start), err)
	return err
}

func (s *Instrumented) List(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	entries, err := s.Store.List(ctx)
	s.hooks.OnStoreOp(ctx, s.backend, "list", time.Since(start), err)
	return entries, err
}

var _ Store = (*Instrumented)(nil)
