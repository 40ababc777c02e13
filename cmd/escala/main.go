// Package main provides the CLI entry point for escala.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/config"
	"github.com/wfm-tools/escala-go/pkg/escala/kpi"
	"github.com/wfm-tools/escala-go/pkg/escala/output"
	"github.com/wfm-tools/escala-go/pkg/escala/web"
)

var (
	configPath string
	logFormat  string
	logLevel   string

	addr   string
	sheet  string
	date   string
	pretty bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "escala",
		Short: "Shift-schedule dashboard over a spreadsheet",
		Long: `escala reads a shift-schedule workbook (a local .xlsx or a Google
Sheets spreadsheet), serves a dashboard of its monthly and daily sheets and
writes edits back.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logFormat, logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets of the workbook by kind",
		Args:  cobra.NoArgs,
		RunE:  runSheets,
	}
	sheetsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	kpiCmd := &cobra.Command{
		Use:   "kpi",
		Short: "Print the headcount figures of a sheet as JSON",
		Args:  cobra.NoArgs,
		RunE:  runKPI,
	}
	kpiCmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: the monthly sheet)")
	kpiCmd.Flags().StringVar(&date, "date", "", "Date column of the monthly sheet, DD/MM (default: all)")
	kpiCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(serveCmd, sheetsCmd, kpiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(format, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// openLoader loads the configuration and builds a loader over its source.
func openLoader(ctx context.Context) (config.Config, *escala.Loader, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	src, err := cfg.OpenSource(ctx)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, escala.NewLoader(src, cfg.Schedule), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, loader, err := openLoader(ctx)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if len(cfg.Users) == 0 {
		slog.Warn("no_users_configured", "config", configPath)
	}

	srv, err := web.New(loader, cfg.Users, web.Config{
		Title:         cfg.Server.Title,
		CSRFKey:       []byte(cfg.Server.CSRFKey),
		SessionKey:    []byte(cfg.Server.SessionKey),
		SecureCookies: cfg.Server.SecureCookies,
		TokenDays:     cfg.Server.TokenDays,
	}, slog.Default())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("server_started", "addr", cfg.Server.Addr, "source", cfg.Source.Kind)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("server_stopping")
	return httpSrv.Shutdown(shutdownCtx)
}

func runSheets(cmd *cobra.Command, args []string) error {
	_, loader, err := openLoader(cmd.Context())
	if err != nil {
		return err
	}
	cat, err := loader.Catalog(cmd.Context())
	if err != nil {
		return err
	}
	return output.WriteJSON(cmd.OutOrStdout(), cat, pretty)
}

func runKPI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, loader, err := openLoader(ctx)
	if err != nil {
		return err
	}
	name := sheet
	if name == "" {
		cat, err := loader.Catalog(ctx)
		if err != nil {
			return err
		}
		if cat.Monthly == "" {
			return errors.New("no monthly sheet found; use --sheet")
		}
		name = cat.Monthly
	}

	table, err := loader.LoadTable(ctx, name)
	if err != nil {
		return err
	}
	report := kpi.Summarize(table, date, loader.Options().KPI)
	return output.WriteJSON(cmd.OutOrStdout(), report, pretty)
}
