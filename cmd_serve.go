package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmoiron/nbtedit/internal/app"
	"github.com/jmoiron/nbtedit/internal/config"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		pretty     bool
		maxUpload  int64
		quit       bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Browse the NBT files under a directory in a web UI",
		Long: `Serve a web UI listing the NBT files under dir, with a searchable tree
view, raw SNBT, path queries and an upload converter.

Settings are read from --config when given; flags override them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if len(args) == 1 {
				cfg.Root = args[0]
			}
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("pretty") {
				cfg.Pretty = &pretty
			}
			if flags.Changed("max-upload") {
				cfg.MaxUpload = maxUpload
			}
			if cfg.Verbose && verbose == 0 {
				verbose = 1
			}

			abs, err := filepath.Abs(cfg.Root)
			if err != nil {
				return fmt.Errorf("resolve dir: %w", err)
			}
			info, err := os.Stat(abs)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", abs)
			}
			cfg.Root = abs

			fmt.Fprintf(cmd.OutOrStdout(), "nbtedit %s\n", version)
			a, err := app.New(cfg, verbose)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			lib := a.Library()
			log.Printf("scan summary: %d parsed, %d failed", len(lib.Files), len(lib.Failures))
			if quit {
				log.Printf("initialized successfully; loaded %d files; quitting (--quit)", len(lib.Files))
				return nil
			}
			log.Printf("listening on http://%s", cfg.Addr)
			if err := httpListenAndServe(cfg.Addr, a.Router()); err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address for the web UI (host:port)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the raw SNBT view")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", config.DefaultMaxUpload, "largest document accepted by the converter, in bytes")
	cmd.Flags().BoolVarP(&quit, "quit", "q", false, "initialize (load templates, scan files), then exit without serving")

	return cmd
}

// httpListenAndServe exists to facilitate testing/mocking if desired.
var httpListenAndServe = func(addr string, h http.Handler) error {
	return http.ListenAndServe(addr, h)
}
