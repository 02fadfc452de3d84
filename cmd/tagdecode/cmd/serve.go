/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/api"
	"github.com/ssargent/tagdecode/pkg/config"
	"github.com/ssargent/tagdecode/pkg/family"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST decode server",
	Long: `Build the decode table of every configured family and serve the REST
decode API. Requests authenticate with the X-API-Key header. An api_key of
"auto" generates a key for this run only.

Examples:
  tagdecode serve
  tagdecode serve --port 9000 --bind 0.0.0.0
  tagdecode serve --max-hamming 3 --no-history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		cfg := e.cfg
		applyServeFlags(cmd, cfg)
		noHistory, _ := cmd.Flags().GetBool("no-history")

		if cfg.Server.APIKey == "auto" {
			key, err := config.GenerateSecureKey(32)
			if err != nil {
				return err
			}
			cfg.Server.APIKey = key
			cmd.Printf("Generated API key for this run: %s\n", key)
		}

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}
		defer reg.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := reg.InitAll(ctx, cfg.MaxHamming, family.WithLogger(e.logger)); err != nil {
			return err
		}
		e.logger.Info("decode tables ready", "families", reg.Len(), "max_hamming", cfg.MaxHamming)

		var history api.DetectionHistory
		if !noHistory {
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			history = store
		}

		starter := container.GetServerFactory().CreateServerStarter()
		serverConfig := api.ServerConfig{
			Port:    cfg.Server.Port,
			Bind:    cfg.Server.Bind,
			APIKey:  cfg.Server.APIKey,
			Metrics: cfg.Server.Metrics,
		}
		cmd.Printf("Starting tagdecode server on %s:%d\n", cfg.Server.Bind, cfg.Server.Port)
		if cfg.Server.Metrics {
			cmd.Printf("Metrics available at: http://%s:%d/metrics\n", cfg.Server.Bind, cfg.Server.Port)
		}

		if err := starter.StartServer(ctx, reg, history, serverConfig, e.logger); err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: server.port from config)")
	serveCmd.Flags().String("bind", "", "Address to bind server to (default: server.bind from config)")
	serveCmd.Flags().Int("max-hamming", -1, "Bit errors to correct, at most 3 (default: max_hamming from config)")
	serveCmd.Flags().Bool("no-history", false, "Do not record decodes in the detection history")
	serveCmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
		cfg.Server.Bind = bind
	}
	if mh, _ := cmd.Flags().GetInt("max-hamming"); mh >= 0 {
		cfg.MaxHamming = mh
	}
	if off, _ := cmd.Flags().GetBool("no-metrics"); off {
		cfg.Server.Metrics = false
	}
}
