package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// LogLevelEnv selects the log level when --verbose is not given.
const LogLevelEnv = config.EnvLogLevel

// Global is shared state bound into every command's Run.
type Global struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Console *Console
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

// CLI definition & global flags.
type CLI struct {
	Root    string           `short:"p" name:"path" help:"Website root directory" default:"." type:"existingdir"`
	Config  string           `short:"c" help:"Alternative configuration file (.ini, .toml, .yaml)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init     InitCmd     `cmd:"" help:"Build a new website"`
	Generate GenerateCmd `cmd:"" help:"Generate static files"`
	Serve    ServeCmd    `cmd:"" help:"Start built-in web server"`
	Deploy   DeployCmd   `cmd:"" help:"Deploy static files"`
	List     ListCmd     `cmd:"" help:"Lists content"`
}

// AfterApply runs after flag parsing; setup logging once and load .env files
// from the site root.
func (c *CLI) AfterApply() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(c.Verbose, os.Getenv(LogLevelEnv)),
	})))

	loaded, err := config.LoadDotEnv(c.Root)
	if err != nil {
		return err
	}
	for _, path := range loaded {
		slog.Debug("Loaded environment file", logfields.Path(path))
	}
	return nil
}

func logLevel(verbose bool, env string) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if env != "" && level.UnmarshalText([]byte(strings.TrimSpace(env))) == nil {
		return level
	}
	return slog.LevelWarn
}

// loadConfig reads --config when given, the site's config.ini otherwise.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.Config != "" {
		return config.Load(c.Config)
	}
	return config.LoadSite(c.Root)
}
