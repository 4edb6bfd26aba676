package main

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha/internal/theme"
)

func newPaletteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the resolved theme colours and fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name := themeSource(configPath)
			cfg, err := theme.Load(src, name)
			if err != nil {
				return err
			}
			newOutput(cmd).PrintPalette(theme.Resolve(cfg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Theme config file (defaults to the embedded theme)")

	return cmd
}
