package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/potatoshell/potsh/core/history"
)

// historyCmd prints the persisted command history without starting the shell.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the saved command history.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		hist, err := history.Open(configuration.Fs(), configuration.HistoryPath())
		if err != nil {
			return err
		}

		for _, entry := range hist.Entries() {
			fmt.Fprintln(cmd.OutOrStdout(), entry.Command)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
