// Package config loads server settings from config.json with environment
// overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/uci"
)

const FileName = "config.json"

type Config struct {
	Addr         string       `json:"addr"`
	AllowOrigins string       `json:"allowOrigins"`
	Engine       EngineConfig `json:"engine"`
	ArchiveDir   string       `json:"archiveDir"`
}

// EngineConfig describes the external move-suggestion engine. An empty Path
// disables it; engine games then fall back to random legal moves.
type EngineConfig struct {
	Path       string   `json:"path"`
	Args       []string `json:"args"`
	MoveTimeMS int      `json:"moveTimeMs"`
	Retries    int      `json:"retries"`
	Difficulty int      `json:"difficulty"`
}

func (e EngineConfig) MoveTime() time.Duration {
	return time.Duration(e.MoveTimeMS) * time.Millisecond
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		Engine: EngineConfig{
			MoveTimeMS: 1000,
			Retries:    3,
			Difficulty: 10,
		},
	}
}

// Find walks up from the working directory looking for config.json.
func Find() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found from %s: %w", FileName, cwd, os.ErrNotExist)
}

// Load reads path over the defaults; keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Engine.Path = resolveEngine(filepath.Dir(path), cfg.Engine.Path)
	return cfg, nil
}

// resolveEngine anchors a relative engine path to the config directory. A
// bare command name is left for the PATH lookup at start.
func resolveEngine(dir, engine string) string {
	if engine == "" || filepath.IsAbs(engine) || !strings.ContainsAny(engine, `/`+string(filepath.Separator)) {
		return engine
	}
	return filepath.Join(dir, engine)
}

// ApplyEnv overlays BCHESS_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Addr = getenv("BCHESS_ADDR", c.Addr)
	c.AllowOrigins = getenv("BCHESS_ORIGINS", c.AllowOrigins)
	c.Engine.Path = getenv("BCHESS_ENGINE", c.Engine.Path)
	c.ArchiveDir = getenv("BCHESS_ARCHIVE_DIR", c.ArchiveDir)
	if v := os.Getenv("BCHESS_MOVETIME"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCHESS_MOVETIME: %w", err)
		}
		c.Engine.MoveTimeMS = ms
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Engine.MoveTimeMS <= 0 {
		errs = append(errs, fmt.Errorf("engine.moveTimeMs must be positive, got %d", c.Engine.MoveTimeMS))
	}
	if c.Engine.Retries < 1 {
		errs = append(errs, fmt.Errorf("engine.retries must be at least 1, got %d", c.Engine.Retries))
	}
	if _, err := uci.TierFor(c.Engine.Difficulty); err != nil {
		errs = append(errs, fmt.Errorf("engine.difficulty: %w", err))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
