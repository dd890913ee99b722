package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/api"
	"github.com/planweave/planweave/internal/config"
	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/llm"
	"github.com/planweave/planweave/internal/repository"
	"github.com/planweave/planweave/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "planweave",
		Short: "Business plan generation service",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "planweave.yaml", "path to the YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newSectionsCmd())
	return root
}

// newLogger writes human-readable logs on a terminal and JSON otherwise.
func newLogger() zerolog.Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			database, err := db.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			planRepo := repository.NewSQLitePlanRepo(database)
			answerRepo := repository.NewSQLiteAnswerRepo(database)
			snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
			shareRepo := repository.NewSQLiteShareRepo(database)
			uow := db.NewSQLiteUnitOfWork(database)

			generator := llm.NewRetryingGenerator(
				llm.NewOllamaClient(cfg.LLM, llm.LogObserver{Log: log}),
				cfg.LLM.MaxRetries,
				time.Duration(cfg.LLM.BackoffMs)*time.Millisecond,
			)
			if !generator.Available(cmd.Context()) {
				log.Warn().
					Err(llm.ErrUnavailable).
					Str("endpoint", cfg.LLM.Endpoint).
					Msg("generation requests will fail until the model server is reachable")
			}

			handler := api.NewHandler(
				service.NewPlanService(planRepo, answerRepo),
				service.NewGenerationService(planRepo, answerRepo, generator, cfg.LLM, log),
				service.NewSnapshotService(planRepo, snapshotRepo, uow),
				service.NewShareService(planRepo, shareRepo),
				log,
			)

			server := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: api.NewRouter(handler, log),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections <category>",
		Short: "Print the ordered section manifest for a plan category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := domain.SectionsFor(domain.PlanCategory(args[0]))
			if err != nil {
				return err
			}
			for i, s := range sections {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, s)
			}
			return nil
		},
	}
}
