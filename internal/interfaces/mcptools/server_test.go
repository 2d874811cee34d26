package mcptools

import (
	"context"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

var testSquad = usecase.CreateSquadInput{
	ManagerID: "m-1",
	PlayerIDs: []string{
		"psj-gk-1", "psb-gk-1",
		"psj-def-1", "psb-def-1", "prb-def-1", "bu-def-1", "psm-def-1",
		"psj-mid-1", "psb-mid-1", "prb-mid-1", "bu-mid-1", "psm-mid-1",
		"prb-fwd-1", "bu-fwd-1", "psm-fwd-1",
	},
	CaptainID:     "prb-fwd-1",
	ViceCaptainID: "psj-mid-1",
	BenchOrder:    []string{"psb-gk-1", "psm-def-1", "psm-mid-1", "psm-fwd-1"},
}

func newTestSession(t *testing.T) (*mcp.ClientSession, Services) {
	t.Helper()

	logger := logging.NewNop()
	rules := usecase.DefaultEngineRules()
	gameweeks := usecase.NewGameweekService(memory.NewGameweekRepository(gameweek.Gameweek{
		Number:   1,
		Deadline: time.Now().Add(24 * time.Hour),
		Status:   gameweek.StatusActive,
	}), logger)
	squads := usecase.NewSquadService(
		gameweeks,
		memory.NewPlayerRepository(memory.SeedPlayers()),
		memory.NewSquadRepository(),
		memory.NewTransferRepository(),
		memory.NewChipRepository(),
		rules,
		logger,
	)
	services := Services{
		Gameweeks: gameweeks,
		Squads:    squads,
		Transfers: usecase.NewTransferService(gameweeks, squads, logger),
		Chips:     usecase.NewChipService(gameweeks, squads, logger),
		Scoring:   usecase.NewScoringService(gameweeks, squads, memory.NewScoringRepository(), 2, logger),
	}

	server := NewServer(services, "test", logger)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx := context.Background()
	if _, err := server.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("connect server: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, services
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (map[string]any, bool) {
	t.Helper()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("call %s: empty content", name)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("call %s: content is %T", name, res.Content[0])
	}
	if res.IsError {
		return map[string]any{"error": text.Text}, true
	}
	var out map[string]any
	if err := sonic.UnmarshalString(text.Text, &out); err != nil {
		t.Fatalf("decode %s result %q: %v", name, text.Text, err)
	}
	return out, false
}

func TestServerRegistersAllTools(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}

	want := map[string]bool{
		"validate_squad": false, "selling_price": false, "score_player": false, "gameweek_status": false,
		"manager_points": false, "buy_player": false, "confirm_transfers": false, "activate_chip": false,
	}
	for _, tool := range res.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("tool %s is not registered", name)
		}
	}
}

func TestValidateSquadTool(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	out, isErr := callTool(t, session, "validate_squad", map[string]any{
		"player_ids":      []string{"psj-gk-1", "psj-def-1"},
		"captain_id":      "psj-def-1",
		"vice_captain_id": "psj-gk-1",
	})
	if isErr {
		t.Fatalf("unexpected tool error: %v", out["error"])
	}
	if out["valid"] != false {
		t.Fatalf("expected invalid squad, got %v", out["valid"])
	}
	issues, _ := out["issues"].([]any)
	if len(issues) == 0 {
		t.Fatalf("expected issues")
	}
}

func TestSellingPriceTool_RawPrices(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	tests := []struct {
		current, purchase, want string
	}{
		{current: "7.6", purchase: "7.0", want: "7.3"},
		{current: "7.5", purchase: "7.0", want: "7.2"},
		{current: "6.5", purchase: "7.0", want: "6.5"},
		{current: "6.46", purchase: "7.0", want: "6.5"},
	}
	for _, tt := range tests {
		out, isErr := callTool(t, session, "selling_price", map[string]any{
			"current_price":  tt.current,
			"purchase_price": tt.purchase,
		})
		if isErr {
			t.Fatalf("unexpected tool error: %v", out["error"])
		}
		if got := out["selling_price"]; got != tt.want {
			t.Fatalf("selling_price(%s, %s)=%v want=%s", tt.current, tt.purchase, got, tt.want)
		}
	}
}

func TestScorePlayerTool(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	out, isErr := callTool(t, session, "score_player", map[string]any{
		"position":       "MID",
		"minutes_played": 90,
		"goals_scored":   1,
		"clean_sheet":    true,
		"captain":        true,
		"chip":           "triplecaptain",
	})
	if isErr {
		t.Fatalf("unexpected tool error: %v", out["error"])
	}
	// 2 appearance + 5 goal + 1 clean sheet, tripled.
	if got := out["points"]; got != float64(24) {
		t.Fatalf("expected 24 points, got %v", got)
	}
}

func TestGameweekStatusTool(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	out, isErr := callTool(t, session, "gameweek_status", map[string]any{})
	if isErr {
		t.Fatalf("unexpected tool error: %v", out["error"])
	}
	if out["number"] != float64(1) || out["status"] != "ACTIVE" || out["market_open"] != true {
		t.Fatalf("unexpected status: %v", out)
	}
}

func TestTransferAndChipTools(t *testing.T) {
	t.Parallel()

	session, services := newTestSession(t)
	if _, err := services.Squads.CreateSquad(context.Background(), testSquad); err != nil {
		t.Fatalf("create squad: %v", err)
	}

	out, isErr := callTool(t, session, "buy_player", map[string]any{
		"manager_id":    "m-1",
		"player_in_id":  "psis-fwd-1",
		"player_out_id": "bu-fwd-1",
	})
	if isErr {
		t.Fatalf("unexpected buy error: %v", out["error"])
	}
	// bank 1.0 + 8.0 sold - 6.5 bought
	if got := out["bank"]; got != "2.5" {
		t.Fatalf("expected bank 2.5, got %v", got)
	}

	out, isErr = callTool(t, session, "confirm_transfers", map[string]any{"manager_id": "m-1"})
	if isErr {
		t.Fatalf("unexpected confirm error: %v", out["error"])
	}
	if out["net_transfers"] != float64(1) || out["cost"] != float64(0) {
		t.Fatalf("expected one free transfer, got %v", out)
	}

	out, isErr = callTool(t, session, "activate_chip", map[string]any{"manager_id": "m-1", "chip": "benchboost"})
	if isErr {
		t.Fatalf("unexpected chip error: %v", out["error"])
	}
	if out["active"] != "benchboost" {
		t.Fatalf("expected benchboost active, got %v", out["active"])
	}

	out, isErr = callTool(t, session, "activate_chip", map[string]any{"manager_id": "m-1", "chip": "wildcard"})
	if !isErr || !strings.Contains(out["error"].(string), "invalid chip") {
		t.Fatalf("expected a second chip to be rejected, got %v", out)
	}
}

func TestManagerPointsTool_UnknownManager(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	out, isErr := callTool(t, session, "manager_points", map[string]any{"manager_id": "nobody"})
	if !isErr {
		t.Fatalf("expected an error for an unknown manager, got %v", out)
	}
}
