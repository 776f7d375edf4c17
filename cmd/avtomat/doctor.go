package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/config"
	"github.com/avtomat-app/avtomat/internal/gateway"
)

var doctorFlags struct {
	application int64
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend reachability and host platform configuration",
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().Int64Var(&doctorFlags.application, "application", 0, "Also fetch this application id to verify the write path end to end")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("api url:   %s\n", cfg.APIURL)
	fmt.Printf("timeout:   %ds\n", cfg.TimeoutSeconds)
	fmt.Printf("alerts:    %s\n", cfg.Alerts)

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	fmt.Printf("terminal:  %s colors\n\n", profile)

	checkBackend(cfg)
	checkInitData(cfg)
	checkThemeParams(cfg)
	return nil
}

func checkBackend(cfg *config.Config) {
	gw := gateway.New(cfg.APIURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	cities, err := gw.ListCities(ctx)
	if err != nil {
		var terr *gateway.TransportError
		if errors.As(err, &terr) {
			fmt.Printf("✗ backend unreachable: %v\n", err)
		} else {
			fmt.Printf("✗ backend rejected request: %v\n", err)
		}
		return
	}
	fmt.Printf("✓ backend reachable, %d cities\n", len(cities))

	if doctorFlags.application != 0 {
		app, err := gw.GetApplication(ctx, doctorFlags.application)
		if err != nil {
			fmt.Printf("✗ application %d: %v\n", doctorFlags.application, err)
			return
		}
		fmt.Printf("✓ application %d: %s\n", app.ID, app.Status)
	}
}

func checkInitData(cfg *config.Config) {
	if cfg.InitData == "" {
		fmt.Println("- no init data, will run in degraded mode")
		return
	}
	id, err := bridge.ParseInitData(cfg.InitData, cfg.BotToken)
	if err != nil {
		fmt.Printf("✗ init data rejected: %v\n", err)
		return
	}
	if cfg.BotToken == "" {
		fmt.Printf("✓ init data parsed (unverified, no bot token), user %d\n", id.ID)
		return
	}
	fmt.Printf("✓ init data verified, user %d\n", id.ID)
}

func checkThemeParams(cfg *config.Config) {
	if cfg.ThemeParams == "" {
		fmt.Println("- no theme params, using built-in palette")
		return
	}
	var tokens bridge.ThemeTokens
	if err := json.Unmarshal([]byte(cfg.ThemeParams), &tokens); err != nil {
		fmt.Printf("✗ theme params ignored: %v\n", err)
		return
	}
	fmt.Println("✓ theme params parsed")
}
