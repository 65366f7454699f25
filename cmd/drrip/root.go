package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "drrip",
	Short: "DRRIP CLI tool replays cache access traces through a DRRIP " +
		"replacement engine.",
	Long: `DRRIP CLI tool replays cache access traces through a DRRIP ` +
		`replacement engine. It records every replacement decision to a ` +
		`SQLite database and can summarize recorded runs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file can provide defaults such as DRRIP_DB.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
