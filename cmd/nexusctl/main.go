// Command nexusctl is the operator CLI for the NexusLearn backend.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nexusctl",
	Short: "Operator tools for the NexusLearn backend",
	Long: `Operator tools for the NexusLearn backend.

Database settings are read from the same environment variables as the server
(DB_DRIVER, POSTGRES_*, SQLITE_PATH), including a .env file when present.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(seedAdminCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
