package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "market-sentiment",
	Short: "Stock quote and news sentiment aggregation service",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(populateStocksCmd)
	rootCmd.AddCommand(populateNewsCmd)
	rootCmd.AddCommand(analyzeSentimentsCmd)
	return rootCmd.Execute()
}
