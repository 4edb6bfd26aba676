package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha"
	"github.com/3-lines-studio/gacha/internal/config"
	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/logging"
)

type serveOptions struct {
	addr string
	dev  bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web client",
		Long:  "Serve the web client. Settings come from GACHA_* and DISCORD_* environment variables; flags override them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides GACHA_ADDR)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Run in development mode (same as GACHA_DEV=1)")

	return cmd
}

func loadServeConfig(opts *serveOptions) (config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.dev {
		cfg.Mode = core.ModeDev
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	app, err := gacha.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(); err != nil {
			log.Error(err, "stop failed", nil)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.ListenAndServe(ctx)
}
