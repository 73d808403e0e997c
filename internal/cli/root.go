package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "Task management service and client",
	Long:  "taskman — a task management service with a terminal client.\nRun the HTTP service with `taskman serve` and the UI with `taskman ui`.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".taskman/config.yaml", "path to the config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(taskCmd)
}
