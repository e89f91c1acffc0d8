package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/potatoshell/potsh/core/config"
)

// initCmd writes the default configuration into the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the shell configuration in the current directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(".", logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
