package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/avtomat-app/avtomat/internal/logger"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
)

const (
	logoText1 = "▄▀█ █ █ ▀█▀ █▀█ █▀▄▀█ ▄▀█ ▀█▀"
	logoText2 = "█▀█ ▀▄▀  █  █▄█ █ ▀ █ █▀█  █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "avtomat",
	Short: "Terminal client for the AvtoMat driving-school enrollment service",
	RunE:  runApp,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewDefaultDark()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

avtomat is a terminal client for the AvtoMat enrollment backend. It walks
a student through one of two enrollment wizards (full driving-school
course or practice with an independent instructor) and submits the
application over the REST API.

Run it inside a Telegram-connected host by passing the web-app init data
via AVTOMAT_INIT_DATA; without it the client runs in degraded mode with
a guest identity.`

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
}
