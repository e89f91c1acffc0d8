package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"github.com/potatoshell/potsh/core/config"
	"github.com/potatoshell/potsh/core/shell"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands.
// It starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "potsh",
	Short: "An interactive line-oriented shell.",
	Long: `potsh is a small interactive shell with a fixed set of builtins,
" | " pipelines and "<<"/">>" file redirection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := shell.New(configuration)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
