package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/acustudio/acu-annotator/internal/app"
	"github.com/acustudio/acu-annotator/internal/config"
	"github.com/acustudio/acu-annotator/internal/export"
	"github.com/acustudio/acu-annotator/internal/pdfinfo"
	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/state"
	"github.com/acustudio/acu-annotator/internal/ui"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging sends log output to stderr so it never corrupts the
// alternate-screen TUI on stdout.
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if !cfg.IsDebug() {
		log.SetOutput(os.NewFile(0, os.DevNull))
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if err := run(cfg); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// Component type registry: builtins, then YAML plugins, then configured
	// alias overlays
	reg, err := registry.New(cfg.PluginsDir, nil)
	if err != nil {
		return fmt.Errorf("failed to build component registry: %w", err)
	}
	for token, typeID := range cfg.Aliases {
		if err := reg.AppendAlias(typeID, token); err != nil {
			return fmt.Errorf("failed to register alias %q: %w", token, err)
		}
	}

	store := state.NewStore(reg)
	exporter := export.New(reg)
	saver := app.NewSaver(store, exporter, cfg)

	// Optional positional PDF argument
	if args := pflag.Args(); len(args) > 0 {
		info, err := pdfinfo.Read(args[0])
		if err != nil {
			return err
		}
		if _, err := store.Apply(state.SetPDFDocument{Path: info.Path, PageCount: info.PageCount}); err != nil {
			return err
		}
		if info.Title != "" {
			if _, err := store.Apply(state.SetUnitMeta{Meta: state.Meta{UnitTag: info.Title}}); err != nil {
				return err
			}
		}
		// Document setup is not user work: not dirty, not undoable
		if _, err := store.Apply(state.MarkSaved{}); err != nil {
			return err
		}
		store.ClearHistory()
		log.Printf("opened %s (%d pages)", info.Path, info.PageCount)
	}

	return ui.Run(ui.Options{
		Store:    store,
		Registry: reg,
		Saver:    saver,
		Config:   cfg,
	})
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("ACU Annotator\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
