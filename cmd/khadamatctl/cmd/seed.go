package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [catalog.yaml]",
		Short: "Load a catalog file into the record store",
		Long: `Load a catalog file into the record store. Existing services with the
same id are replaced. The file defaults to --catalog.

Examples:
  khadamatctl seed --driver sqlite --dsn khadamat.db
  khadamatctl seed --driver postgres --dsn "$DATABASE_URL" services.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.catalog
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no catalog file given")
			}

			client, err := openClient(global, false)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := client.Seed(cmd.Context(), path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d services from %s\n", n, path)
			return err
		},
	}
}
