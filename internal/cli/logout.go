package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored terminal session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := buildDeps(ctx, flags, credentialsInFile)
			if err != nil {
				return err
			}
			defer d.Close()

			ctrl := d.controller(d.cfg.Client.ID, nil)
			defer ctrl.Close()
			if err := ctrl.Initialize(ctx); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			sess, ok := ctrl.Session()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			if err := ctrl.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged out %s\n", sess.Username)
			return nil
		},
	}
}
