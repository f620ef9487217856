package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dumbmux/internal/cli/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the config file path and the configuration dumbmux would run with,
after defaults, environment overrides and normalization.

If the file fails to load or validate, the error is shown and the
defaults in effect are printed instead.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	fmt.Println(renderer.RenderConfigInfo(app.ConfigFile()))
	if app.ConfigErr != nil {
		fmt.Println(renderer.RenderError(app.ConfigErr))
	}
	fmt.Println(renderer.RenderEffective(app.Config))
	return nil
}
