package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/decisiondeck/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "decisiondeck",
		Short: "DecisionDeck card triage API server",
		Long:  `DecisionDeck turns incoming events from connected tools into actionable cards and serves them as a triage inbox API.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
