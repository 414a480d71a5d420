package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optioner",
	Short: "Execute multi-leg index option strategies across brokers",
	Long: `Optioner reads a declarative strategy file, expands it into hedged
option legs, slices every leg to the exchange freeze quantity, and places the
orders through a brokerage account - buys first, then sells after a settlement
pause.

Supported brokers: 5paisa and Shoonya (Finvasia).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
