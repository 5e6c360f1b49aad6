// Package main is the entry point for the formgraph compiler. It loads
// form-model documents, compiles each form into deployed views and a rule
// graph, and writes the artifacts and diagnostics report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/config"
	"github.com/homepresso/formgraph/internal/deploy"
	"github.com/homepresso/formgraph/internal/formmodel"
	"github.com/homepresso/formgraph/internal/observability"
	"github.com/homepresso/formgraph/internal/pipeline"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string

	root := &cobra.Command{
		Use:           "formgraph",
		Short:         "Compile form models into runtime views and rule graphs",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")

	root.AddCommand(
		compileCommand(&configPath),
		validateCommand(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "formgraph: %v\n", err)
		return 1
	}
	return 0
}

// compileCommand runs the full pipeline and writes artifacts.
func compileCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile all configured form models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(cfg.Observability)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			tracingShutdown, err := observability.InitTracing(ctx, cfg.Observability.Tracing, "formgraph", version)
			if err != nil {
				return fmt.Errorf("tracing: %w", err)
			}
			defer func() {
				if err := tracingShutdown(context.Background()); err != nil {
					logger.Error("tracing shutdown error", zap.Error(err))
				}
			}()

			deployer, err := buildDeployer(cfg, logger)
			if err != nil {
				return err
			}

			logger.Info("compilation started",
				zap.String("version", version),
				zap.String("commit", commit),
				zap.String("mode", cfg.Runtime.Mode),
			)

			result, err := pipeline.New(cfg, logger, deployer).Run(ctx)
			if err != nil {
				return err
			}

			if err := pipeline.NewWriter(cfg.Output, logger).WriteAll(result); err != nil {
				return err
			}

			if result.Report.HasFatal() {
				return fmt.Errorf("compilation finished with structural gaps (%d diagnostics, see %s/report.json)",
					len(result.Report.Diagnostics), cfg.Output.Directory)
			}
			if n := len(result.Report.Diagnostics); n > 0 {
				logger.Warn("compilation finished with diagnostics", zap.Int("count", n))
			}
			return nil
		},
	}
}

// validateCommand loads and validates input documents without generating
// anything.
func validateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate form-model input documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			docs, err := formmodel.NewLoader().LoadAll(cfg.Models.Directories)
			if err != nil {
				return err
			}
			if verrs := formmodel.NewValidator().Validate(docs); len(verrs) > 0 {
				for _, ve := range verrs {
					fmt.Fprintf(os.Stderr, "%s: [%s] %s\n", ve.Path, ve.Code, ve.Message)
				}
				return fmt.Errorf("%d validation errors", len(verrs))
			}

			forms := 0
			for _, doc := range docs {
				forms += len(doc.Forms)
			}
			fmt.Printf("%d documents, %d forms: OK\n", len(docs), forms)
			return nil
		},
	}
}

// buildDeployer selects the deployer implementation for the configured
// runtime mode.
func buildDeployer(cfg *config.Config, logger *zap.Logger) (deploy.Deployer, error) {
	switch cfg.Runtime.Mode {
	case "http":
		return deploy.NewClient(cfg.Runtime, logger)
	case "dry-run", "":
		logger.Info("using dry-run deployer; identifiers are synthetic")
		return deploy.NewDryRun(), nil
	default:
		return nil, fmt.Errorf("unsupported runtime mode: %q", cfg.Runtime.Mode)
	}
}
