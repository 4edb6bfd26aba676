package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha"
	"github.com/3-lines-studio/gacha/internal/adapters/fs"
	"github.com/3-lines-studio/gacha/internal/usecase"
)

type buildCSSOptions struct {
	config string
	outDir string
}

func newBuildCSSCmd() *cobra.Command {
	opts := &buildCSSOptions{}

	cmd := &cobra.Command{
		Use:   "build-css",
		Short: "Compile the theme into a fingerprinted stylesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildCSS(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "Theme config file (defaults to the embedded theme)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "dist", "Output directory")

	return cmd
}

// themeSource returns the tree the theme is read from and the config path
// inside it.
func themeSource(configPath string) (fs.FileSystem, string) {
	if configPath == "" {
		return fs.NewEmbedFileSystem(gacha.Web()), gacha.ThemeFile
	}
	return fs.NewOSFileSystem(filepath.Dir(configPath)), filepath.Base(configPath)
}

func runBuildCSS(cmd *cobra.Command, opts *buildCSSOptions) error {
	src, configPath := themeSource(opts.config)

	service := usecase.NewBuildService(src, fs.NewOSFileSystem("."), newOutput(cmd))
	result := service.BuildCSS(cmd.Context(), usecase.BuildCSSInput{
		ConfigPath: configPath,
		OutDir:     opts.outDir,
	})
	if !result.Success {
		if result.Error != nil {
			return result.Error
		}
		return errors.New("build failed")
	}
	return nil
}
