package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/metrics"
	"github.com/ashrotd/singcoach/internal/server"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		mm := metrics.NewManager(metrics.WithRuntimeCollectors(true))
		coach, err := e.newCoach(ctx, coaching.WithObserver(mm))
		if err != nil {
			return fmt.Errorf("create coach: %w", err)
		}

		srv := server.New(coach, e.store.SessionRepo(),
			server.WithMetrics(mm),
			server.WithLogger(e.logger),
		).HTTPServer(addr)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			e.logger.Info("starting HTTP server",
				"addr", addr,
				"ai_configured", coach.IsConfigured(),
				"provider", e.cfg.LLM.Provider,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			e.logger.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		e.logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides the addr config key)")
}
