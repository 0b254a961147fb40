package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Invocation is the result of parsing a command line.
type Invocation struct {
	Config Config
	// ConfigPath is the config file that was read, if any.
	ConfigPath string
	// Dump prints a layout snapshot and exits instead of running.
	Dump bool
	// Version prints build information and exits.
	Version bool
	// Usage holds the flag help text when parsing failed or -h was given.
	Usage string
	// Args holds the positional arguments.
	Args []string
}

// LoadArgs parses command-line arguments. Flags override the environment,
// which overrides the config file, which overrides the defaults.
func LoadArgs(args []string, environ []string) (Invocation, error) {
	fs := flag.NewFlagSet("termtree", flag.ContinueOnError)
	usage := new(strings.Builder)
	fs.SetOutput(usage)

	configPath := fs.String("config", lookupEnv(environ, envConfigFile), "path to the TOML config file")
	width := fs.Int("width", 0, "surface width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "surface height in rows (0 uses terminal height)")
	autoFocus := fs.Bool("autofocus", true, "focus the nearest focusable node on click")
	mouse := fs.Bool("mouse", true, "enable mouse reporting")
	scene := fs.String("scene", "", "scene file to load")
	watch := fs.Bool("watch", false, "reload the scene when it changes")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "path to the log file")
	dump := fs.Bool("dump", false, "print the resolved layout as JSON and exit")
	version := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return Invocation{Usage: usage.String()}, err
	}

	cfg, err := Load(*configPath, environ)
	if err != nil {
		return Invocation{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.UI.Width = *width
		case "height":
			cfg.UI.Height = *height
		case "autofocus":
			cfg.UI.AutoFocus = *autoFocus
		case "mouse":
			cfg.UI.Mouse = *mouse
		case "scene":
			cfg.Scene.Path = *scene
		case "watch":
			cfg.Scene.Watch = *watch
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-file":
			cfg.Logging.File = *logFile
		}
	})

	if fs.NArg() > 0 && cfg.Scene.Path == "" {
		cfg.Scene.Path = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return Invocation{}, fmt.Errorf("invalid flags: %w", err)
	}

	return Invocation{
		Config:     cfg,
		ConfigPath: *configPath,
		Dump:       *dump,
		Version:    *version,
		Args:       append([]string(nil), fs.Args()...),
	}, nil
}

// LoadOS parses the process arguments and environment.
func LoadOS() (Invocation, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

func lookupEnv(environ []string, key string) string {
	for _, entry := range environ {
		if name, value, ok := strings.Cut(entry, "="); ok && name == key {
			return value
		}
	}
	return ""
}
