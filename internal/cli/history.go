package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"quiz-client/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var (
		username string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := buildDeps(ctx, flags, credentialsInFile)
			if err != nil {
				return err
			}
			defer d.Close()

			if username == "" {
				creds, err := d.credentials.Load(ctx, d.cfg.Client.ID)
				if err != nil {
					return fmt.Errorf("no --user given and no stored session: %w", err)
				}
				username = creds.Username
			}
			results, err := d.results.ListResults(ctx, username, limit)
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}
			return printResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "user whose results to list (default: stored session)")
	cmd.Flags().IntVar(&limit, "limit", 10, "max results, 0 for all")
	return cmd
}

func printResults(out io.Writer, results []domain.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "no results")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tCOURSE\tNAME\tSCORE\tPERCENT\tTIMED OUT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%v\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Course, r.DisplayName, r.Score, r.Total, r.Percentage, r.TimedOut)
	}
	return w.Flush()
}
