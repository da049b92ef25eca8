// Package config loads graphit settings.
//
// Settings are resolved in three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at [Path], if it exists
//  3. GRAPHIT_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # File Format
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/graphit/graphit.db"
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["https://editor.example.com"]
//
//	[search]
//	limit = 20
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphit/pkg/store"
)

// AppName is used for directories and display.
const AppName = "graphit"

// Defaults.
const (
	DefaultAddr        = ":8080"
	DefaultSearchLimit = 20
)

// Config holds all graphit settings.
type Config struct {
	Store  store.Config `toml:"store"`
	Server ServerConfig `toml:"server"`
	Search SearchConfig `toml:"search"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// SearchConfig configures label search.
type SearchConfig struct {
	// Limit caps the number of results; zero or less means no cap.
	Limit int `toml:"limit"`
}

// Default returns the built-in settings. The file store lives in
// [DataDir].
func Default() Config {
	dir, err := DataDir()
	if err != nil {
		dir = "."
	}
	return Config{
		Store: store.Config{
			Backend: store.BackendFile,
			Dir:     filepath.Join(dir, "documents"),
			Path:    filepath.Join(dir, "graphit.db"),
		},
		Server: ServerConfig{
			Addr:        DefaultAddr,
			CORSOrigins: []string{"*"},
		},
		Search: SearchConfig{Limit: DefaultSearchLimit},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DataDir returns the data directory, honoring XDG_DATA_HOME.
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// Path returns the config file path. GRAPHIT_CONFIG overrides the default
// location.
func Path() (string, error) {
	if p := os.Getenv("GRAPHIT_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load resolves settings from defaults, the file at path and the
// environment. A missing file is not an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overlays GRAPHIT_* variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"GRAPHIT_STORE_BACKEND", &c.Store.Backend},
		{"GRAPHIT_STORE_DIR", &c.Store.Dir},
		{"GRAPHIT_STORE_PATH", &c.Store.Path},
		{"GRAPHIT_REDIS_ADDR", &c.Store.RedisAddr},
		{"GRAPHIT_REDIS_PASSWORD", &c.Store.RedisPassword},
		{"GRAPHIT_MONGO_URI", &c.Store.MongoURI},
		{"GRAPHIT_MONGO_DATABASE", &c.Store.MongoDatabase},
		{"GRAPHIT_SERVER_ADDR", &c.Server.Addr},
	}
	for _, s := range strs {
		if v := getenv(s.name); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"GRAPHIT_REDIS_DB", &c.Store.RedisDB},
		{"GRAPHIT_SEARCH_LIMIT", &c.Search.Limit},
	}
	for _, i := range ints {
		v := getenv(i.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.name, err)
		}
		*i.dst = n
	}

	if v := getenv("GRAPHIT_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	return nil
}

// Encode writes c as TOML with secrets masked.
func (c Config) Encode(w io.Writer) error {
	if c.Store.RedisPassword != "" {
		c.Store.RedisPassword = "********"
	}
	return toml.NewEncoder(w).Encode(c)
}
