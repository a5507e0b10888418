package cmd

import (
	"github.com/spf13/cobra"

	"github.com/enfoco/enfoco/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize enfoco configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the model provider, listener port and CORS origins, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
