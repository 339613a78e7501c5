// Package config loads game settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/magicrabbit/internal/agent"
)

// Defaults used when a file omits a value.
const (
	DefaultPlayers      = 2
	DefaultTimeLimit    = 150 * time.Second
	DefaultTurnLimit    = 500
	DefaultMinDelay     = 400 * time.Millisecond
	DefaultMaxDelay     = 5 * time.Second
	DefaultDelay        = 800 * time.Millisecond
	DefaultAddress      = "localhost:8080"
	DefaultRecordFolder = "records"
)

// Config is the complete configuration file.
type Config struct {
	Game      *GameSettings      `hcl:"game,block"`
	Pacing    *PacingSettings    `hcl:"pacing,block"`
	Agents    []AgentSettings    `hcl:"agent,block"`
	Spectator *SpectatorSettings `hcl:"spectator,block"`
	Record    *RecordSettings    `hcl:"record,block"`
}

// GameSettings controls the deal and when a game ends.
type GameSettings struct {
	Players   int    `hcl:"players,optional"`
	Seed      int64  `hcl:"seed,optional"`       // 0 picks a fresh seed
	TimeLimit string `hcl:"time_limit,optional"` // e.g. "150s", "0" disables
	TurnLimit int    `hcl:"turn_limit,optional"`
}

// PacingSettings controls how long computer players wait before acting.
type PacingSettings struct {
	MinDelay     string `hcl:"min_delay,optional"`
	MaxDelay     string `hcl:"max_delay,optional"`
	DefaultDelay string `hcl:"default_delay,optional"`
}

// AgentSettings tunes one named computer player.
type AgentSettings struct {
	Name                string `hcl:"name,label"`
	HistoryWindow       int    `hcl:"history_window,optional"`
	SkipSolvedHatsAfter int    `hcl:"skip_solved_hats_after,optional"`
}

// SpectatorSettings configures the HTTP spectator server.
type SpectatorSettings struct {
	Address string `hcl:"address,optional"`
}

// RecordSettings configures where finished games are written.
type RecordSettings struct {
	Directory string `hcl:"directory,optional"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.Players == 0 {
		c.Game.Players = DefaultPlayers
	}
	if c.Game.TimeLimit == "" {
		c.Game.TimeLimit = DefaultTimeLimit.String()
	}
	if c.Game.TurnLimit == 0 {
		c.Game.TurnLimit = DefaultTurnLimit
	}

	if c.Pacing == nil {
		c.Pacing = &PacingSettings{}
	}
	if c.Pacing.MinDelay == "" {
		c.Pacing.MinDelay = DefaultMinDelay.String()
	}
	if c.Pacing.MaxDelay == "" {
		c.Pacing.MaxDelay = DefaultMaxDelay.String()
	}
	if c.Pacing.DefaultDelay == "" {
		c.Pacing.DefaultDelay = DefaultDelay.String()
	}

	defaults := agent.DefaultConfig()
	for i := range c.Agents {
		if c.Agents[i].HistoryWindow == 0 {
			c.Agents[i].HistoryWindow = defaults.HistoryWindow
		}
		if c.Agents[i].SkipSolvedHatsAfter == 0 {
			c.Agents[i].SkipSolvedHatsAfter = defaults.SkipSolvedHatsAfter
		}
	}

	if c.Spectator == nil {
		c.Spectator = &SpectatorSettings{}
	}
	if c.Spectator.Address == "" {
		c.Spectator.Address = DefaultAddress
	}

	if c.Record == nil {
		c.Record = &RecordSettings{}
	}
	if c.Record.Directory == "" {
		c.Record.Directory = DefaultRecordFolder
	}
}

// Validate checks ranges and durations.
func (c *Config) Validate() error {
	if c.Game.Players < 1 || c.Game.Players > 4 {
		return fmt.Errorf("players must be between 1 and 4, got %d", c.Game.Players)
	}
	if c.Game.TurnLimit < 0 {
		return fmt.Errorf("turn limit must not be negative, got %d", c.Game.TurnLimit)
	}
	if _, err := parseDuration("time_limit", c.Game.TimeLimit); err != nil {
		return err
	}

	minDelay, err := parseDuration("min_delay", c.Pacing.MinDelay)
	if err != nil {
		return err
	}
	maxDelay, err := parseDuration("max_delay", c.Pacing.MaxDelay)
	if err != nil {
		return err
	}
	if _, err := parseDuration("default_delay", c.Pacing.DefaultDelay); err != nil {
		return err
	}
	if minDelay > maxDelay {
		return fmt.Errorf("min_delay %s exceeds max_delay %s", minDelay, maxDelay)
	}

	seen := make(map[string]bool)
	for _, a := range c.Agents {
		if seen[a.Name] {
			return fmt.Errorf("agent %s: defined twice", a.Name)
		}
		seen[a.Name] = true
		if a.HistoryWindow < 1 {
			return fmt.Errorf("agent %s: history window must be positive", a.Name)
		}
		if a.SkipSolvedHatsAfter < 0 {
			return fmt.Errorf("agent %s: skip_solved_hats_after must not be negative", a.Name)
		}
	}
	return nil
}

// TimeLimit returns the game clock, zero when disabled.
func (c *Config) TimeLimit() time.Duration {
	d, _ := parseDuration("time_limit", c.Game.TimeLimit)
	return d
}

// Delays returns the minimum, maximum and default agent delay.
func (c *Config) Delays() (minDelay, maxDelay, defaultDelay time.Duration) {
	minDelay, _ = parseDuration("min_delay", c.Pacing.MinDelay)
	maxDelay, _ = parseDuration("max_delay", c.Pacing.MaxDelay)
	defaultDelay, _ = parseDuration("default_delay", c.Pacing.DefaultDelay)
	return minDelay, maxDelay, defaultDelay
}

// Agent returns the name and policy for the i-th computer player. Named
// agent blocks are used in order and repeat when there are fewer blocks
// than players; without any blocks every agent gets the default policy.
func (c *Config) Agent(i int) (string, agent.Config) {
	if len(c.Agents) == 0 {
		return fmt.Sprintf("ai-%d", i+1), agent.DefaultConfig()
	}
	a := c.Agents[i%len(c.Agents)]
	name := a.Name
	if i >= len(c.Agents) {
		name = fmt.Sprintf("%s-%d", a.Name, i/len(c.Agents)+1)
	}
	return name, agent.Config{
		HistoryWindow:       a.HistoryWindow,
		SkipSolvedHatsAfter: a.SkipSolvedHatsAfter,
	}
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", name, value)
	}
	return d, nil
}
