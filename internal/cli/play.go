package cli

import (
	"os"
	"os/signal"
	"syscall"

	"quiz-client/internal/terminal"
	"github.com/spf13/cobra"
)

func newPlayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := buildDeps(ctx, flags, credentialsInFile)
			if err != nil {
				return err
			}
			defer d.Close()

			console := terminal.NewConsole(cmd.OutOrStdout())
			ctrl := d.controller(d.cfg.Client.ID, console)
			defer ctrl.Close()

			if err := ctrl.Initialize(ctx); err != nil {
				d.log.Info("stored session not restored", "err", err)
			}
			return terminal.Run(ctx, ctrl, cmd.InOrStdin(), console)
		},
	}
}
