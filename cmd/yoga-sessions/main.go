package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/openkcm/common-sdk/pkg/utils"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/yogaflow/yoga-sessions/internal/business"
	"github.com/yogaflow/yoga-sessions/internal/cmdutils"
	"github.com/yogaflow/yoga-sessions/internal/config"
)

var (
	// BuildInfo will be set by the build system
	BuildInfo = "{}"

	isVersionCmd     bool
	gracefulShutdown time.Duration
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Yoga Sessions Version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		isVersionCmd = true

		value, err := utils.ExtractFromComplexValue(BuildInfo)
		if err != nil {
			return err
		}

		slog.InfoContext(cmd.Context(), value)

		return nil
	},
}

func apiServerCmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Yoga Sessions API server",
		"Serves the session and pose REST API together with the gRPC health service.",
		BuildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}

func migrateCmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Yoga Sessions migrations",
		"Applies the embedded PostgreSQL migrations.",
		BuildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}

func seedPosesCmd() *cobra.Command {
	var file string

	cmd := cmdutils.CobraCommand(
		"seed-poses",
		"Import a pose catalogue",
		"Creates the poses of a YAML catalogue. Poses that already exist are skipped.",
		BuildInfo,
		cmdutils.RunAsJob,
		func(ctx context.Context, cfg *config.Config) error {
			return business.SeedPosesMain(ctx, cfg, file)
		},
	)

	cmd.Flags().StringVar(&file, "file", "poses.yaml", "path to the pose catalogue")

	return cmd
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yoga-sessions",
		Short: "Yoga Sessions",
		Long:  "Yoga Sessions, a REST service managing yoga sessions composed of named poses.",
	}

	cmd.PersistentFlags().DurationVar(&gracefulShutdown, "graceful-shutdown", 1*time.Second, "graceful shutdown")

	cmd.AddCommand(
		versionCmd,
		apiServerCmd(),
		migrateCmd(),
		seedPosesCmd(),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "failed to start the application", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)

		return err
	}

	if !isVersionCmd {
		_, _ = fmt.Fprintf(os.Stderr, "Graceful shutdown in %s\n", gracefulShutdown)
		time.Sleep(gracefulShutdown)
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
