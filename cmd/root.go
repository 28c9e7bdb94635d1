// Package cmd wires the pastq command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/adaptive"
	"github.com/UgwuGeorge/Past-Questions/internal/backfill"
	"github.com/UgwuGeorge/Past-Questions/internal/config"
	"github.com/UgwuGeorge/Past-Questions/internal/llm"
	"github.com/UgwuGeorge/Past-Questions/internal/practice"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/quizgen"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pastq",
	Short: "Adaptive past-questions practice",
	Long:  "Pastq — exam practice from past questions, with weakness-driven question selection and AI-generated backfill.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; explicit env always wins.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PASTQ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then PASTQ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cmd *cobra.Command) (*zap.SugaredLogger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop().Sugar(), nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

func newProvider(ctx context.Context, log *zap.SugaredLogger) (llm.Provider, error) {
	return llm.NewProvider(ctx, llm.ConfigFromEnv(), log)
}

func difficultyConfig(cfg config.Config) adaptive.DifficultyConfig {
	return adaptive.DifficultyConfig{
		WeakThreshold:   cfg.Adaptive.WeakThreshold,
		StrongThreshold: cfg.Adaptive.StrongThreshold,
		DefaultTier:     quiz.Medium,
	}
}

func buildEngine(s *store.Store, cfg config.Config) *practice.Engine {
	return practice.NewEngine(s.Exams(), s.Questions(), s.Attempts(), difficultyConfig(cfg))
}

func buildBackfill(ctx context.Context, s *store.Store, log *zap.SugaredLogger) (*backfill.Service, error) {
	provider, err := newProvider(ctx, log)
	if err != nil {
		return nil, err
	}
	gen := quizgen.New(provider, quizgen.DefaultConfig())
	return backfill.New(gen, s.Questions(), log), nil
}

func buildScorer(s *store.Store) *scoring.Scorer {
	return scoring.NewScorer(s.Attempts(), s.Questions())
}
