package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akinus/organize/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the workspace settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}

		loader := config.NewLoader(root)
		settings, err := loader.Load()
		if err != nil {
			return err
		}

		settings, err = config.NewWizard().Run(settings)
		if err != nil {
			return err
		}

		if err := loader.Save(settings); err != nil {
			return err
		}

		fmt.Printf("Settings saved to %s\n", config.SettingsPath(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
