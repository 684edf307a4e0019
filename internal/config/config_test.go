package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/uci"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"addr": ":9000", "engine": {"path": "bin/stockfish", "retries": 5}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Engine.Retries != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Engine.MoveTime() != time.Second || cfg.Engine.Difficulty != 10 {
		t.Fatalf("defaults lost: %+v", cfg.Engine)
	}
	if want := filepath.Join(dir, "bin", "stockfish"); cfg.Engine.Path != want {
		t.Fatalf("engine path = %q, want %q", cfg.Engine.Path, want)
	}
}

func TestLoadEnginePath(t *testing.T) {
	tests := []struct {
		name   string
		engine string
		want   func(dir string) string
	}{
		{"bare command", "stockfish", func(string) string { return "stockfish" }},
		{"relative", "./engines/sf", func(dir string) string { return filepath.Join(dir, "engines", "sf") }},
		{"absolute", "/usr/games/stockfish", func(string) string { return "/usr/games/stockfish" }},
		{"unset", "", func(string) string { return "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, fmt.Sprintf(`{"engine": {"path": %q}}`, tt.engine))
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if want := tt.want(dir); cfg.Engine.Path != want {
				t.Fatalf("engine path = %q, want %q", cfg.Engine.Path, want)
			}
		})
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"addr": `)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted truncated JSON")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got, err := Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BCHESS_ADDR", ":8080")
	t.Setenv("BCHESS_ENGINE", "/usr/games/stockfish")
	t.Setenv("BCHESS_MOVETIME", "250")
	t.Setenv("BCHESS_ARCHIVE_DIR", "/var/lib/bchess")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Engine.Path != "/usr/games/stockfish" || cfg.ArchiveDir != "/var/lib/bchess" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Engine.MoveTime() != 250*time.Millisecond {
		t.Fatalf("move time = %v", cfg.Engine.MoveTime())
	}

	t.Setenv("BCHESS_MOVETIME", "soon")
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("ApplyEnv accepted a non-numeric move time")
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := Default()
	cfg.Engine.Difficulty = 0
	cfg.Engine.MoveTimeMS = 0
	err := cfg.Validate()
	if !errors.Is(err, uci.ErrLevelRange) {
		t.Fatalf("err = %v, want level range error", err)
	}
}
