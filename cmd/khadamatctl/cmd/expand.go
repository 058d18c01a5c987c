package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/khadamat"
)

func newExpandCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <text>",
		Short: "Print the spelling variants searched for a query",
		Long: `Print the normalized query followed by every variant and token the
matcher would search for, one per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []khadamat.Option{khadamat.WithMemory()}
			if global.variants != "" {
				opts = append(opts, khadamat.WithVariantsFile(global.variants))
			}
			client, err := khadamat.New(opts...)
			if err != nil {
				return err
			}
			defer client.Close()

			for _, term := range client.Expand(strings.Join(args, " ")) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), term); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
