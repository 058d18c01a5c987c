package cmd

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/khadamat"
)

func newStatsCmd(global *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Display service counts: total, active, online and active services per category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := openClient(global, true)
			if err != nil {
				return err
			}
			defer client.Close()

			st, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			return printStats(cmd, &st)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func printStats(cmd *cobra.Command, st *khadamat.Stats) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total:  %d\n", st.Total)
	fmt.Fprintf(out, "Active: %d\n", st.Active)
	fmt.Fprintf(out, "Online: %d\n", st.Online)

	categories := make([]string, 0, len(st.ByCategory))
	for c := range st.ByCategory {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	if len(categories) > 0 {
		fmt.Fprintln(out, "By category:")
	}
	for _, c := range categories {
		if _, err := fmt.Fprintf(out, "  %-16s %d\n", c, st.ByCategory[c]); err != nil {
			return err
		}
	}
	return nil
}
