package root

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "social",
	Short: "Social network CLI",
	Long:  "Command line interface for interacting with the social network API",
}

// GetRoot returns the root command for subcommand registration.
func GetRoot() *cobra.Command {
	return rootCmd
}
