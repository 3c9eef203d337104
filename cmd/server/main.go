package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"workflowpro/internal/app/server"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/platform/config"
	"workflowpro/internal/platform/jobs"
	"workflowpro/internal/platform/logging"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "workflowpro",
		Short:         "WorkFlow Pro workspace server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $CONFIG_FILE)")

	load := func() (config.Config, error) {
		var (
			cfg config.Config
			err error
		)
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid configuration: %w", err)
		}
		slog.SetDefault(logging.New(cfg.LogLevel, cfg.LogFormat))
		return cfg, nil
	}

	cmd.AddCommand(serveCmd(load), seedCmd(load), payrollCmd(load), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "workflowpro version %s (build: %s)\n", Version, BuildTime)
		},
	})
	return cmd
}

type loader func() (config.Config, error)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("start app: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					slog.Warn("close app", "err", err)
				}
			}()
			return app.Run(ctx)
		},
	}
}

func seedCmd(load loader) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo dataset into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if reset {
				if err := store.Reset(ctx); err != nil {
					return err
				}
				slog.Info("store reset")
			}
			return store.EnsureSeeded(ctx)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every stored value before seeding")
	return cmd
}

func payrollCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll batch operations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate one Draft payroll record per employee for the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			var records []payroll.Record
			_, err = app.Jobs.RunNow(ctx, jobs.JobPayrollGenerate, func(ctx context.Context) (any, error) {
				var runErr error
				records, runErr = app.Payroll.Generate(ctx)
				return map[string]int{"generated": len(records)}, runErr
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	})
	return cmd
}
