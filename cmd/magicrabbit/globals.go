package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/magicrabbit/internal/config"
	"github.com/lox/magicrabbit/internal/session"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" env:"MAGICRABBIT_CONFIG" default:"magicrabbit.hcl" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel string `env:"MAGICRABBIT_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	NoColor  bool   `help:"Disable colored output"`
}

func (g *Globals) applyColor() {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", g.Config, err)
	}
	return cfg, nil
}

func (g *Globals) newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", g.LogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	}), nil
}

func pacing(cfg *config.Config) session.Pacing {
	minDelay, maxDelay, defaultDelay := cfg.Delays()
	return session.Pacing{Min: minDelay, Max: maxDelay, Default: defaultDelay}
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
