package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSetActiveCmd builds the enable and disable commands. Both need a
// persistent store: with the memory driver the change would be lost on exit.
func newSetActiveCmd(global *globalOptions, active bool) *cobra.Command {
	use, short, verb := "enable", "Make services searchable again", "Enabled"
	if !active {
		use, short, verb = "disable", "Hide services from search results", "Disabled"
	}

	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Long: short + `. Disabled services still count in 'stats'.

Examples:
  khadamatctl ` + use + ` --driver sqlite --dsn khadamat.db civil-passport`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if global.driver == "memory" {
				return fmt.Errorf("%s needs --driver sqlite or postgres", use)
			}

			client, err := openClient(global, false)
			if err != nil {
				return err
			}
			defer client.Close()

			for _, id := range args {
				if err := client.SetActive(cmd.Context(), id, active); err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
