package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/config"
	"github.com/ashrotd/singcoach/internal/llm"
	"github.com/ashrotd/singcoach/internal/logger"
	"github.com/ashrotd/singcoach/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "singcoach",
	Short:         "AI singing coach",
	Long:          "Singcoach turns singing practice scores and pitch analysis into structured vocal coaching feedback.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite file or postgres:// DSN (overrides SINGCOACH_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides SINGCOACH_CONFIG env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads layered configuration using the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database location using --db flag (highest
// priority), then the db config key, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" && cfg != nil {
		p = cfg.DB
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// env bundles what most commands need.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
}

// openEnv loads config, sets up logging and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, logger: log, store: st}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// newCoach builds the coach. A missing or placeholder credential yields a
// coach that serves mock feedback.
func (e *env) newCoach(ctx context.Context, opts ...coaching.Option) (*coaching.Coach, error) {
	opts = append([]coaching.Option{
		coaching.WithLogger(e.logger),
		coaching.WithMaxTokens(e.cfg.LLM.MaxTokens),
		coaching.WithTimeout(e.cfg.LLM.Timeout),
	}, opts...)

	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		e.logger.Debug("LLM provider not configured, using mock feedback", "provider", e.cfg.LLM.Provider)
		return coaching.NewCoach(nil, opts...), nil
	case err != nil:
		return nil, err
	}
	return coaching.NewCoach(provider, opts...), nil
}
