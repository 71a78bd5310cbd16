// Package cmd defines the syaos CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "syaos",
	Short: "syaOS chat gateway",
	Long: `syaos runs the chat tool-calling gateway behind the syaOS desktop:
auth and rate limiting, prompt assembly, the tool catalog, the virtual
filesystem router, and the streaming chat endpoint.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
