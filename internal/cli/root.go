package cli

import (
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	apiURL     string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "quiz-client",
		Short:         "Quiz client for the terminal and the browser",
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api", "", "quiz API base URL (overrides config and QUIZ_API_URL)")
	cmd.AddCommand(newPlayCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))
	cmd.AddCommand(newHistoryCmd(flags))
	cmd.AddCommand(newMigrateCmd(flags))
	return cmd
}
