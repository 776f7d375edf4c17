package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/config"
	"github.com/avtomat-app/avtomat/internal/gateway"
	"github.com/avtomat-app/avtomat/internal/logger"
	"github.com/avtomat-app/avtomat/internal/tui"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
)

var runFlags struct {
	apiURL string
	alerts string
}

func init() {
	rootCmd.Flags().StringVar(&runFlags.apiURL, "api-url", "", "Backend API base URL (overrides config)")
	rootCmd.Flags().StringVar(&runFlags.alerts, "alerts", "", "Alert mode: modal, log or silent (overrides config)")
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runFlags.apiURL != "" {
		cfg.APIURL = runFlags.apiURL
	}
	if runFlags.alerts != "" {
		cfg.Alerts = runFlags.alerts
	}
	applyLogConfig(cfg)

	logger.Info("avtomat starting, api=%s alerts=%s", cfg.APIURL, cfg.Alerts)

	br := bridge.Detect(cfg)
	theme.Set(theme.FromTokens(br.ThemeTokens()))

	gw := gateway.New(cfg.APIURL, time.Duration(cfg.TimeoutSeconds)*time.Second)

	if err := tui.Run(cfg, br, gw); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// applyLogConfig raises config-file log settings onto the default
// logger. Environment variables were already applied at init and keep
// precedence, so only fill what the env left unset.
func applyLogConfig(cfg *config.Config) {
	if os.Getenv("AVTOMAT_LOG_LEVEL") == "" && cfg.LogLevel != "" {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.Default.SetLevel(level)
		}
	}
	if os.Getenv("AVTOMAT_LOG_FILE") == "" && cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logger.Default.SetOutput(f)
		}
	}
}
