package cli

import (
	"fmt"

	"quiz-client/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// newMigrateCmd applies database migrations.
func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			group, err := postgres.Migrate(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "no new migrations")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied: %s\n", group)
			return nil
		},
	}
}
