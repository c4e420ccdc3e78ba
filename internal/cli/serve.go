package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/techvote/techvote/internal/api"
	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/database"
	"github.com/techvote/techvote/internal/geo"
	"github.com/techvote/techvote/internal/llm"
	"github.com/techvote/techvote/internal/preview"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
	"github.com/techvote/techvote/internal/session"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg.Logging)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port")
	serveCmd.Flags().String("db-driver", "", "database driver (sqlite, postgres, none)")
	serveCmd.Flags().String("provider", "", "remote assessor (gemini, openai, anthropic, ollama)")
	serveCmd.Flags().String("sink", "", "report sink (log, amqp)")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("database.driver", serveCmd.Flags().Lookup("db-driver"))
	_ = viper.BindPFlag("llm.provider", serveCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("reports.sink", serveCmd.Flags().Lookup("sink"))

	rootCmd.AddCommand(serveCmd)
}

// newChecker wires the remote assessor, if any, to the rumor checker.
func newChecker(cfg *config.Config, store database.Store) (*rumor.Checker, error) {
	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessor: %w", err)
	}
	if provider == nil {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("No assessor credential configured, rumor checks use the fallback table")
		return rumor.NewChecker(nil, store, checkerOptions(cfg)), nil
	}
	log.Info().Str("provider", provider.Name()).Msg("Remote assessor enabled")
	return rumor.NewChecker(provider, store, checkerOptions(cfg)), nil
}

func checkerOptions(cfg *config.Config) rumor.Options {
	return rumor.Options{
		FallbackDelay:     cfg.RumorCheck.FallbackDelay,
		CacheTTL:          cfg.RumorCheck.CacheTTL,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	checker, err := newChecker(cfg, store)
	if err != nil {
		return err
	}

	sink, err := report.NewSink(cfg.Reports)
	if err != nil {
		return err
	}
	if c, ok := sink.(io.Closer); ok {
		defer c.Close()
	}

	hierarchy := geo.Default()
	previews := preview.NewRegistry(api.PreviewPath)

	sweep := cfg.Server.SessionTTL / 4
	if sweep <= 0 {
		sweep = time.Minute
	}
	sessions := session.NewStore(session.Deps{
		Selector: report.NewSelector(hierarchy),
		Previews: previews,
		Sink:     sink,
		ReportOptions: report.Options{
			StrictLocationValidation: cfg.Reports.StrictLocationValidation,
			MaxAttachmentBytes:       cfg.Reports.MaxAttachmentBytes,
		},
		Assessor: checker,
	}, cfg.Server.SessionTTL, sweep)
	defer sessions.Close()

	handler := api.NewHandler(cfg, sessions, hierarchy, previews, checker, store, Version)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(cfg, handler, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("database", cfg.Database.Driver).
			Str("sink", cfg.Reports.Sink).
			Int("seats", hierarchy.SeatCount()).
			Msg("Starting TechVote server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}
