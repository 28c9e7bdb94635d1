package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("no JWT secret configured; set PASTQ_JWT_SECRET or auth.jwt-secret in the config file")
		}

		log, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		sugar := log.Sugar()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		bf, err := buildBackfill(cmd.Context(), s, sugar)
		if err != nil {
			return err
		}

		srv := server.New(server.Deps{
			Store:    s,
			Engine:   buildEngine(s, cfg),
			Scorer:   buildScorer(s),
			Backfill: bf,
			Auth:     cfg.Auth,
			Log:      sugar,
		})

		sugar.Infow("listening", "addr", cfg.Server.Addr)
		return srv.Run(cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
