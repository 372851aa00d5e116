package cli

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "fgvgameba",
		Short:        "Daily question campaign with XP scoring and class rankings",
		SilenceUsage: true,
	}

	// glog registers -v, -logtostderr and friends on the standard flag set
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewTickCmd(&configPath))
	cmd.AddCommand(NewImportQuestionsCmd(&configPath))
	cmd.AddCommand(NewImportUsersCmd(&configPath))
	cmd.AddCommand(NewCampaignCmd(&configPath))
	return cmd
}
