package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/borderless-chess/internal/model"
	"github.com/benbeisheim/borderless-chess/internal/rules"
	"github.com/benbeisheim/borderless-chess/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(service.ManagerOptions{})
	t.Cleanup(gm.Close)
	app := fiber.New()
	SetupRoutes(app, service.NewGameService(gm), []string{"http://localhost:5173"})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, player, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, data := do(t, app, http.MethodPost, "/api/game/create", "alice", body)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", status, data)
	}
	var resp struct {
		GameID string          `json:"game_id"`
		State  model.GameState `json:"state"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if resp.GameID == "" || resp.State.ID != resp.GameID {
		t.Fatalf("create response = %s", data)
	}
	return resp.GameID
}

func TestCreateAndFetchGame(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, `{"mode":{"wraparound":true,"randomArmies":true}}`)

	status, data := do(t, app, http.MethodGet, "/api/game/"+id, "alice", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var state model.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if !state.Mode.Wraparound || !state.Mode.RandomArmies || state.ToMove != rules.White {
		t.Fatalf("state = %+v", state)
	}
	if state.Board.WhiteKingPosition == nil || *state.Board.WhiteKingPosition != rules.Sq(4, 7) {
		t.Fatalf("white king = %v", state.Board.WhiteKingPosition)
	}
}

func TestCreateGameRejectsOptions(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		body   string
		status int
	}{
		{`{"opponent":"engine","difficulty":25}`, http.StatusBadRequest},
		{`{"opponent":"network"}`, http.StatusBadRequest},
		{`{"mode":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if status, data := do(t, app, http.MethodPost, "/api/game/create", "alice", tt.body); status != tt.status {
			t.Errorf("%s: status = %d body = %s", tt.body, status, data)
		}
	}
}

func TestMoveFlow(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	status, data := do(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=e2", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("moves status = %d", status)
	}
	var hints struct {
		Moves []rules.Square `json:"moves"`
	}
	if err := json.Unmarshal(data, &hints); err != nil {
		t.Fatal(err)
	}
	if len(hints.Moves) != 2 {
		t.Fatalf("e2 hints = %v", hints.Moves)
	}

	status, data = do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":{"x":4,"y":6},"to":{"x":4,"y":4}}`)
	if status != http.StatusOK {
		t.Fatalf("move status = %d body = %s", status, data)
	}
	var state model.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.ToMove != rules.Black || state.Sound != "move" || len(state.MoveHistory) != 1 {
		t.Fatalf("state = %+v", state)
	}

	status, _ = do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"uci":"e7e5"}`)
	if status != http.StatusOK {
		t.Fatalf("uci move status = %d", status)
	}
}

func TestMoveErrors(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	engineID := createGame(t, app, `{"opponent":"engine","difficulty":3}`)

	tests := []struct {
		name   string
		target string
		player string
		body   string
		status int
	}{
		{"illegal", "/api/game/" + id + "/move", "alice", `{"uci":"e2e5"}`, http.StatusUnprocessableEntity},
		{"empty square", "/api/game/" + id + "/move", "alice", `{"uci":"e4e5"}`, http.StatusUnprocessableEntity},
		{"wrong side", "/api/game/" + id + "/move", "alice", `{"uci":"e7e5"}`, http.StatusConflict},
		{"bad square", "/api/game/" + id + "/move", "alice", `{"uci":"z9z8"}`, http.StatusBadRequest},
		{"stranger", "/api/game/" + id + "/move", "bob", `{"uci":"e2e4"}`, http.StatusForbidden},
		{"unknown game", "/api/game/missing/move", "alice", `{"uci":"e2e4"}`, http.StatusNotFound},
		{"no player", "/api/game/" + id + "/move", "", `{"uci":"e2e4"}`, http.StatusUnauthorized},
		{"human moves black in engine game", "/api/game/" + engineID + "/move", "alice", `{"uci":"e7e5"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, http.MethodPost, tt.target, tt.player, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.status, data)
			}
		})
	}
}

func TestLegalMovesBadSquare(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	if status, _ := do(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=k3", "alice", ""); status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
}

func TestResignEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	status, data := do(t, app, http.MethodPost, "/api/game/"+id+"/resign", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var state model.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Resolve == nil || *state.Resolve != model.ResultResignation {
		t.Fatalf("resolve = %v", state.Resolve)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/resign", "alice", ""); status != http.StatusConflict {
		t.Fatalf("second resign status = %d", status)
	}
}

func TestDifficultyEndpoint(t *testing.T) {
	app := newTestApp(t)
	status, data := do(t, app, http.MethodGet, "/api/difficulty", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var tiers []struct {
		Level       int    `json:"level"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &tiers); err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 20 || tiers[0].Description != "Beginner (Elo ~1100)" {
		t.Fatalf("tiers = %+v", tiers)
	}
}

func TestStatusForInternal(t *testing.T) {
	if got := statusFor(errors.New("disk full")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d", got)
	}
}

func TestCreatorSurvivesOtherPlayersRequests(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	for _, player := range []string{"zzzzz", "mallo", "bob42"} {
		for range 10 {
			do(t, app, http.MethodGet, "/api/game/"+id, player, "")
		}
	}

	status, data := do(t, app, http.MethodGet, "/api/game/"+id, "zzzzz", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var state model.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Players.White.ID != "alice" {
		t.Fatalf("white player = %q", state.Players.White.ID)
	}

	if status, data := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"uci":"e2e4"}`); status != http.StatusOK {
		t.Fatalf("creator move status = %d body = %s", status, data)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "zzzzz", `{"uci":"e7e5"}`); status != http.StatusForbidden {
		t.Fatalf("stranger move status = %d", status)
	}
}
