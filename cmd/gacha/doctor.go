package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha"
	"github.com/3-lines-studio/gacha/internal/config"
	"github.com/3-lines-studio/gacha/internal/usecase"
	"github.com/3-lines-studio/gacha/internal/users"
)

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, theme, views and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	output := newOutput(cmd)
	output.PrintHeader("Gacha Doctor")

	var cfg config.Config
	checks := []check{
		{"environment", func(context.Context) (string, error) {
			var err error
			cfg, err = config.LoadFromEnv()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s mode on %s", cfg.Mode, cfg.Addr), nil
		}},
		{"theme", func(context.Context) (string, error) {
			src, name := themeSource(cfg.ThemePath)
			sheet, err := usecase.CompileTheme(src, name)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d files, %d classes", len(sheet.Files), len(sheet.Classes)), nil
		}},
		{"routes", func(ctx context.Context) (string, error) {
			web := gacha.Web()
			table, err := gacha.Routes(web)
			if err != nil {
				return "", err
			}
			for _, r := range table.Routes() {
				if r.IsLazy() {
					if _, err := r.Loader(ctx); err != nil {
						return "", fmt.Errorf("%s: %w", r.Path, err)
					}
				}
			}
			return fmt.Sprintf("%d routes", table.Len()), nil
		}},
		{"database", func(context.Context) (string, error) {
			if !cfg.AuthEnabled() {
				return "skipped, discord login disabled", nil
			}
			repo, err := users.Open(cfg.DBPath)
			if err != nil {
				return "", err
			}
			return cfg.DBPath, repo.Close()
		}},
	}

	failed := 0
	for _, c := range checks {
		detail, err := c.run(cmd.Context())
		if err != nil {
			output.PrintError("%s: %v", c.name, err)
			failed++
			if c.name == "environment" {
				break
			}
			continue
		}
		output.PrintSuccess("%s: %s", c.name, detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	output.PrintDone("All checks passed")
	return nil
}
