// Package main is the entry point for termtree, which runs a TOML scene of
// boxes, text and scroll viewports in the terminal with mouse interaction.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/termtree/internal/app"
	"github.com/dshills/termtree/internal/config"
	"github.com/dshills/termtree/internal/logging"
	"github.com/dshills/termtree/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	inv, err := config.LoadOS()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stderr, inv.Usage)
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if inv.Usage != "" {
			printUsage(os.Stderr, inv.Usage)
		}
		return 2
	}
	cfg := inv.Config

	if inv.Version {
		fmt.Printf("termtree %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	log, closeLog, err := openLog(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog.Close()

	if inv.Dump {
		if err := app.Dump(cfg, os.Stdout, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if cfg.Scene.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene given")
		printUsage(os.Stderr, "")
		return 2
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: termtree needs an interactive terminal (use --dump for headless output)")
		return 1
	}

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	screen.SetMouse(cfg.UI.Mouse)

	application := app.New(cfg, screen, log)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openLog returns the configured file logger, or a no-op logger when no
// file is set. The terminal itself is never used for log output.
func openLog(cfg config.Logging) (*logging.Logger, io.Closer, error) {
	if cfg.File == "" {
		return logging.Nop(), io.NopCloser(nil), nil
	}
	return logging.OpenFile(cfg.File, logging.ParseLevel(cfg.Level))
}

func printUsage(w io.Writer, flags string) {
	fmt.Fprintf(w, "termtree - interactive terminal scenes\n\n")
	fmt.Fprintf(w, "Usage: termtree [options] scene.toml\n\n")
	if flags != "" {
		fmt.Fprintf(w, "%s\n", flags)
	}
	fmt.Fprintf(w, "Examples:\n")
	fmt.Fprintf(w, "  termtree demo.toml              Run a scene\n")
	fmt.Fprintf(w, "  termtree --watch demo.toml      Reload on save\n")
	fmt.Fprintf(w, "  termtree --dump demo.toml       Print the resolved layout as JSON\n")
	fmt.Fprintf(w, "\nPress q, Esc or Ctrl-C to quit.\n")
}
