package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type queryOptions struct {
	limit      int
	jsonOutput bool
}

func newQueryCmd(global *globalOptions) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search the catalog and print the answer",
		Long: `Search the catalog the way the chat API does and print the rendered
answer in the language of the query.

Examples:
  khadamatctl query "بطاقه الهويه"
  khadamatctl query "passport renewal" --limit 3
  khadamatctl query "permis de conduire" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, global, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of services (default from the matcher)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the structured result as JSON")

	return cmd
}

func runQuery(cmd *cobra.Command, global *globalOptions, query string, opts queryOptions) error {
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	client, err := openClient(global, true)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.Search(cmd.Context(), query, opts.limit)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
