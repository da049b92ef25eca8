package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/internal/config"
	"github.com/matzehuels/graphit/internal/service"
	"github.com/matzehuels/graphit/pkg/buildinfo"
	"github.com/matzehuels/graphit/pkg/codec"
	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/observability"
	"github.com/matzehuels/graphit/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdinPath names standard input in file arguments.
const stdinPath = "-"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is resolved in the root command's pre-run.
	Config config.Config

	configPath string
	backend    string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "graphit edits, merges and serves graph editor documents",
		Long: `graphit works with the JSON documents saved by the graph editor: it
validates and upgrades them, merges spreadsheet imports into existing
graphs, searches node labels, renders graphs with Graphviz and serves a
document store over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphit/config.toml)")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "store backend: file, sqlite, redis, mongo, memory")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Service Factory
// =============================================================================

// hooks returns log-backed hooks with --verbose and no-op hooks otherwise.
func (c *CLI) hooks() observability.Hooks {
	if c.verbose {
		return observability.NewLogHooks(c.Logger)
	}
	return observability.Noop()
}

// documentService returns a service without a store for file commands.
func (c *CLI) documentService() *service.DocumentService {
	return service.New(nil, c.hooks())
}

// storedService opens the configured store. The returned close function
// must be called when done.
func (c *CLI) storedService(ctx context.Context) (*service.DocumentService, func(), error) {
	return c.storedServiceWith(ctx, c.hooks())
}

func (c *CLI) storedServiceWith(ctx context.Context, hooks observability.Hooks) (*service.DocumentService, func(), error) {
	hooks = hooks.OrNoop()
	s, err := store.Open(ctx, c.Config.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", c.Config.Store.Backend, err)
	}
	c.Logger.Debug("opened store", "backend", c.Config.Store.Backend)
	closeFn := func() {
		if err := s.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}
	backend := c.Config.Store.Backend
	if backend == "" {
		backend = store.BackendFile
	}
	return service.New(store.Instrument(s, backend, hooks.Store), hooks), closeFn, nil
}

// =============================================================================
// Input/Output Helpers
// =============================================================================

// readValue decodes a document file, choosing the codec by extension.
// "-" reads JSON from stdin.
func readValue(path string) (jsonvalue.Value, error) {
	if path == stdinPath {
		return codec.NewJSONCodec().Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := codec.ForPath(path).Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// readObject decodes a document file that must hold a JSON object.
func readObject(path string) (*jsonvalue.Object, error) {
	v, err := readValue(path)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*jsonvalue.Object)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: document must be an object, got %s", path, jsonvalue.Kind(v))
	}
	return obj, nil
}

// loadDocument reads and loads a document file, naming it after the file.
func loadDocument(ctx context.Context, svc *service.DocumentService, path string) (*document.GraphDocument, error) {
	v, err := readValue(path)
	if err != nil {
		return nil, err
	}
	doc, err := svc.Load(ctx, v, documentName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// documentName derives a display name from a file path.
func documentName(path string) string {
	if path == stdinPath {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputCodec picks the codec for an output: an explicit format wins, then
// the output extension, then JSON.
func outputCodec(format, output string) (codec.Codec, error) {
	if format != "" {
		return codec.ForFormat(format)
	}
	if output != "" {
		return codec.ForPath(output), nil
	}
	return codec.NewJSONCodec(), nil
}

// writeDocument encodes doc to output (stdout when empty).
func writeDocument(w io.Writer, doc *document.GraphDocument, format, output string) error {
	v, err := doc.SaveValue()
	if err != nil {
		return err
	}
	return writeValue(w, v, format, output)
}

func writeValue(w io.Writer, v jsonvalue.Value, format, output string) error {
	c, err := outputCodec(format, output)
	if err != nil {
		return err
	}
	out, err := openOutput(w, output)
	if err != nil {
		return err
	}
	defer out.Close()
	return c.Encode(v, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns w when path is empty and the created file otherwise.
func openOutput(w io.Writer, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{w}, nil
	}
	return os.Create(path)
}
