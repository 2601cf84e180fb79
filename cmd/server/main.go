// Package main is the entry point for the hostel complaint server.
// It serves the student, warden and maintenance dashboards over a JSON
// API backed by in-memory stores loaded from a YAML seed document.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aawaaz/hostel-server/internal/config"
	"github.com/aawaaz/hostel-server/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	Version = "1.0.0"
	appName = "hostel-server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	port     int
	seedFile string
	logLevel string
}

func rootCmd() *cobra.Command {
	var f flags

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, f)
		if err != nil {
			return err
		}
		return run(cfg)
	}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Hostel complaint tracker",
		SilenceUsage: true,
		RunE:         serve,
	}

	cmd.PersistentFlags().IntVarP(&f.port, "port", "p", 0, "HTTP port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&f.seedFile, "seed", "", "Seed YAML file (overrides SEED_FILE)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  serve,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "staff",
		Short: "List the staff directory from the seed document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			doc, err := seed.Load(cfg.SeedFile)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSPECIALTIES")
			for _, s := range doc.StaffMembers() {
				fmt.Fprintf(tw, "%s\t%s\t%v\n", s.ID, s.Name, s.Specialties)
			}
			return tw.Flush()
		},
	})

	return cmd
}

// loadConfig reads the environment and applies flags the user set
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("seed") {
		cfg.SeedFile = f.seedFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
