package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novanode/internal"
	"github.com/tuannm99/novanode/internal/btree"
	"github.com/tuannm99/novanode/internal/storage"
)

type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string

	cfg *internal.NovaNodeConfig
}

// NewRootCmd builds the nodectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "nodectl",
		Short:         "Inspect and edit B-tree node pages",
		Long:          "nodectl reads and writes fixed-size B-tree node pages in a novanode page file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory holding the page file (overrides storage.workdir)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (overrides log_level)")

	root.AddCommand(
		newInitCmd(opts),
		newPutLeafCmd(opts),
		newPutInternalCmd(opts),
		newAppendLeafCmd(opts),
		newDumpCmd(opts),
		newHexdumpCmd(opts),
	)
	return root
}

// Execute runs nodectl with os.Args and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nodectl: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := internal.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.dataDir != "" {
		cfg.Storage.Workdir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	level, err := internal.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	o.cfg = cfg
	return nil
}

// withStore opens the node store for the duration of fn, creating the data
// dir and the store files when missing.
func (o *rootOptions) withStore(fn func(s *btree.NodeStore) error) error {
	if err := os.MkdirAll(o.cfg.Storage.Workdir, storage.FileMode0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	s, err := btree.OpenNodeStore(o.cfg.DataPath(), o.cfg.Storage.CachePages)
	if err != nil {
		return err
	}
	return runWithStore(s, fn)
}

// withExistingStore is withStore for read-only commands: it never touches
// the filesystem when the store is absent.
func (o *rootOptions) withExistingStore(fn func(s *btree.NodeStore) error) error {
	s, err := btree.OpenExistingNodeStore(o.cfg.DataPath(), o.cfg.Storage.CachePages)
	if err != nil {
		return err
	}
	return runWithStore(s, fn)
}

func runWithStore(s *btree.NodeStore, fn func(s *btree.NodeStore) error) (err error) {
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
