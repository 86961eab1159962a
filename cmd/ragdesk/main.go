package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/csheth/ragdesk/internal/config"
	"github.com/csheth/ragdesk/internal/logging"
	"github.com/csheth/ragdesk/internal/rag"
	"github.com/csheth/ragdesk/internal/session"
	"github.com/csheth/ragdesk/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags
	cmd := &cobra.Command{
		Use:           "ragdesk",
		Short:         "Sign in to an Enterprise RAG service and ask it questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.API, "api", "", "API base URL (default: $"+config.EnvAPIBase+", $"+config.EnvGlobalBase+", or same origin)")
	f.StringVar(&flags.Origin, "origin", "", "origin used when no API base is set (default: $"+config.EnvOrigin+" or "+config.DefaultOrigin+")")
	f.StringVarP(&flags.Username, "username", "u", session.DefaultUsername, "prefilled login email")
	f.StringVarP(&flags.Password, "password", "p", session.DefaultPassword, "prefilled login password")
	f.BoolVar(&flags.Markdown, "markdown", false, "render answers as markdown instead of verbatim text")
	f.BoolVar(&flags.NoAlt, "no-alt-screen", false, "disable the alternate screen buffer")
	f.DurationVar(&flags.Timeout, "timeout", 0, "HTTP client timeout (0 leaves it to the transport)")
	f.StringVar(&flags.LogFile, "log-file", "", "log file path (default: user cache dir)")
	f.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&flags.LogFormat, "log-format", "json", "log format: json or text")
	return cmd
}

func run(flags config.Flags) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfg := config.Resolve(flags, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	_, closer, err := logging.Init(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging disabled:", err)
	}
	defer closer.Close()

	slog.Info("ragdesk starting", "api", cfg.DisplayBase(), "origin", cfg.Origin, "timeout", cfg.Timeout)

	client := rag.New(rag.Config{Endpoint: cfg.Endpoint, Timeout: cfg.Timeout})
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Controller:    session.NewController(client),
			Credentials:   rag.Credentials{Username: cfg.Username, Password: cfg.Password},
			APILabel:      cfg.DisplayBase(),
			MarkdownStyle: markdownStyle(cfg.Markdown),
		}),
		opts...,
	)

	started := time.Now()
	if _, err := program.Run(); err != nil {
		slog.Error("program error", "err", err)
		fmt.Fprintln(os.Stderr, "program error:", err)
		return err
	}
	slog.Info("ragdesk exited", "uptime", time.Since(started))
	return nil
}

func markdownStyle(enabled bool) string {
	if !enabled {
		return ""
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
