// Package cmd provides the CLI commands for khadamatctl.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat"
	logpkg "github.com/kailas-cloud/khadamat/internal/logger"
	"github.com/kailas-cloud/khadamat/internal/version"
)

const defaultCatalog = "config/catalog.yaml"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	driver   string
	dsn      string
	catalog  string
	variants string
	verbose  bool
}

// NewRootCmd creates the root command for the khadamatctl CLI.
func NewRootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:   "khadamatctl",
		Short: "Query and manage the government service catalog",
		Long: `khadamatctl runs the khadamat search pipeline in-process.

With the default memory driver the catalog file is loaded on every run.
With sqlite or postgres, load it once with 'khadamatctl seed'.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("khadamatctl version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "memory", "Record store: memory, sqlite, postgres")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "SQLite file path or Postgres connection string")
	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", defaultCatalog, "Catalog YAML file (memory driver)")
	cmd.PersistentFlags().StringVar(&opts.variants, "variants", "", "Spelling variant YAML file (default: built-in table)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to stderr")

	cmd.AddCommand(newQueryCmd(&opts))
	cmd.AddCommand(newExpandCmd(&opts))
	cmd.AddCommand(newSeedCmd(&opts))
	cmd.AddCommand(newStatsCmd(&opts))
	cmd.AddCommand(newSetActiveCmd(&opts, true))
	cmd.AddCommand(newSetActiveCmd(&opts, false))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// openClient builds a client for the selected store. seed controls whether the
// memory driver loads the catalog file.
func openClient(opts *globalOptions, seed bool) (*khadamat.Client, error) {
	clientOpts := []khadamat.Option{khadamat.WithLogger(newLogger(opts.verbose))}

	switch opts.driver {
	case "memory":
		clientOpts = append(clientOpts, khadamat.WithMemory())
		if seed && opts.catalog != "" {
			clientOpts = append(clientOpts, khadamat.WithCatalogFile(opts.catalog))
		}
	case "sqlite":
		if opts.dsn == "" {
			return nil, fmt.Errorf("--dsn is required for the sqlite driver")
		}
		clientOpts = append(clientOpts, khadamat.WithSQLite(opts.dsn))
	case "postgres":
		if opts.dsn == "" {
			return nil, fmt.Errorf("--dsn is required for the postgres driver")
		}
		clientOpts = append(clientOpts, khadamat.WithPostgres(opts.dsn))
	default:
		return nil, fmt.Errorf("unknown driver %q (want memory, sqlite or postgres)", opts.driver)
	}

	if opts.variants != "" {
		clientOpts = append(clientOpts, khadamat.WithVariantsFile(opts.variants))
	}

	return khadamat.New(clientOpts...)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := logpkg.NewLogger("local", "debug")
	if err != nil {
		return zap.NewNop()
	}
	return l
}
