package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/economy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/shopspring/decimal"
)

type ValidateSquadArgs struct {
	PlayerIDs     []string `json:"player_ids" jsonschema:"the 15 player ids of the squad"`
	CaptainID     string   `json:"captain_id,omitempty" jsonschema:"player id wearing the armband"`
	ViceCaptainID string   `json:"vice_captain_id,omitempty" jsonschema:"player id of the vice captain"`
	BenchOrder    []string `json:"bench_order,omitempty" jsonschema:"the 4 substitutes, first substitute first"`
}

type SellingPriceArgs struct {
	ManagerID     string `json:"manager_id,omitempty" jsonschema:"manager owning the player; omit to price raw values"`
	PlayerID      string `json:"player_id,omitempty" jsonschema:"owned player id, used with manager_id"`
	CurrentPrice  string `json:"current_price,omitempty" jsonschema:"current market price, for example 7.6"`
	PurchasePrice string `json:"purchase_price,omitempty" jsonschema:"price paid, for example 7.0"`
}

type ScorePlayerArgs struct {
	Position        string `json:"position" jsonschema:"GK, DEF, MID or FWD"`
	Captain         bool   `json:"captain,omitempty" jsonschema:"apply the captain multiplier"`
	Chip            string `json:"chip,omitempty" jsonschema:"active chip, triplecaptain triples the captain"`
	MinutesPlayed   int    `json:"minutes_played" jsonschema:"minutes on the pitch"`
	GoalsScored     int    `json:"goals_scored,omitempty"`
	Assists         int    `json:"assists,omitempty"`
	CleanSheet      bool   `json:"clean_sheet,omitempty"`
	GoalsConceded   int    `json:"goals_conceded,omitempty"`
	OwnGoals        int    `json:"own_goals,omitempty"`
	PenaltiesSaved  int    `json:"penalties_saved,omitempty"`
	PenaltiesMissed int    `json:"penalties_missed,omitempty"`
	YellowCards     int    `json:"yellow_cards,omitempty"`
	RedCards        int    `json:"red_cards,omitempty"`
	Saves           int    `json:"saves,omitempty"`
	Bonus           int    `json:"bonus,omitempty" jsonschema:"bonus points already awarded, 0 to 3"`
}

type GameweekStatusArgs struct{}

type ManagerArgs struct {
	ManagerID string `json:"manager_id" jsonschema:"manager id"`
}

type ManagerPointsArgs struct {
	ManagerID string `json:"manager_id" jsonschema:"manager id"`
	Gameweek  int    `json:"gameweek,omitempty" jsonschema:"finalized gameweek; omit for live points of the current gameweek"`
}

type BuyPlayerArgs struct {
	ManagerID   string `json:"manager_id" jsonschema:"manager id"`
	PlayerInID  string `json:"player_in_id" jsonschema:"player to buy"`
	PlayerOutID string `json:"player_out_id,omitempty" jsonschema:"player to sell; defaults to the pending selection"`
}

type ActivateChipArgs struct {
	ManagerID string `json:"manager_id" jsonschema:"manager id"`
	Chip      string `json:"chip" jsonschema:"wildcard, freehit, benchboost or triplecaptain"`
}

type validationResult struct {
	Valid  bool          `json:"valid"`
	Issues []issueResult `json:"issues"`
}

type issueResult struct {
	Kind    fantasy.IssueKind `json:"kind"`
	Club    string            `json:"club,omitempty"`
	Message string            `json:"message"`
}

type gameweekResult struct {
	Number         int             `json:"number"`
	Status         gameweek.Status `json:"status"`
	Deadline       time.Time       `json:"deadline"`
	DeadlinePassed bool            `json:"deadline_passed"`
	MarketOpen     bool            `json:"market_open"`
}

type squadResult struct {
	ManagerID  string          `json:"manager_id"`
	PlayerIDs  []string        `json:"player_ids"`
	CaptainID  string          `json:"captain_id"`
	ViceID     string          `json:"vice_captain_id"`
	BenchOrder []string        `json:"bench_order"`
	Bank       decimal.Decimal `json:"bank"`
}

type pointsResult struct {
	ManagerID    string         `json:"manager_id"`
	Gameweek     int            `json:"gameweek"`
	Chip         chip.Type      `json:"chip,omitempty"`
	GrossPoints  int            `json:"gross_points"`
	TransferCost int            `json:"transfer_cost"`
	TotalPoints  int            `json:"total_points"`
	Players      map[string]int `json:"players"`
}

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "validate_squad",
		Description: "Check a 15-player squad against composition, formation, club quota, budget and captaincy rules",
	}, s.validateSquad)

	addTool(s, &mcp.Tool{
		Name:        "selling_price",
		Description: "Selling price of an owned player, or of a current/purchase price pair (half the profit, rounded down to 0.1)",
	}, s.sellingPrice)

	addTool(s, &mcp.Tool{
		Name:        "score_player",
		Description: "Fantasy points for one player's match stats with the rule breakdown",
	}, s.scorePlayer)

	addTool(s, &mcp.Tool{
		Name:        "gameweek_status",
		Description: "Current gameweek number, lifecycle status and transfer deadline",
	}, s.gameweekStatus)

	addTool(s, &mcp.Tool{
		Name:        "manager_points",
		Description: "A manager's points for a finalized gameweek, or live points for the current one",
	}, s.managerPoints)

	addTool(s, &mcp.Tool{
		Name:        "buy_player",
		Description: "Swap a squad player for another of the same position in the working squad",
	}, s.buyPlayer)

	addTool(s, &mcp.Tool{
		Name:        "confirm_transfers",
		Description: "Commit pending transfers and charge points beyond the free allowance",
	}, s.confirmTransfers)

	addTool(s, &mcp.Tool{
		Name:        "activate_chip",
		Description: "Play a chip for the current gameweek",
	}, s.activateChip)
}

func (s *Server) validateSquad(ctx context.Context, _ *mcp.CallToolRequest, args ValidateSquadArgs) (*mcp.CallToolResult, any, error) {
	issues, err := s.services.Squads.ValidateDraft(ctx, usecase.DraftSquadInput{
		PlayerIDs:     args.PlayerIDs,
		CaptainID:     args.CaptainID,
		ViceCaptainID: args.ViceCaptainID,
		BenchOrder:    args.BenchOrder,
	})
	if err != nil {
		return s.toolJSON(ctx, "validate_squad", nil, err)
	}

	out := validationResult{Valid: len(issues) == 0, Issues: make([]issueResult, 0, len(issues))}
	for _, issue := range issues {
		out.Issues = append(out.Issues, issueResult{Kind: issue.Kind, Club: issue.Club, Message: issue.Message})
	}
	return s.toolJSON(ctx, "validate_squad", out, nil)
}

func (s *Server) sellingPrice(ctx context.Context, _ *mcp.CallToolRequest, args SellingPriceArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.ManagerID) != "" {
		price, err := s.services.Transfers.SellingPrice(ctx, args.ManagerID, args.PlayerID)
		return s.toolJSON(ctx, "selling_price", map[string]any{
			"player_id":     args.PlayerID,
			"selling_price": price,
		}, err)
	}

	current, err := economy.ParsePrice(strings.TrimSpace(args.CurrentPrice))
	if err != nil {
		return s.toolJSON(ctx, "selling_price", nil, fmt.Errorf("%w: current_price: %v", usecase.ErrInvalidInput, err))
	}
	purchase, err := economy.ParsePrice(strings.TrimSpace(args.PurchasePrice))
	if err != nil {
		return s.toolJSON(ctx, "selling_price", nil, fmt.Errorf("%w: purchase_price: %v", usecase.ErrInvalidInput, err))
	}
	return s.toolJSON(ctx, "selling_price", map[string]any{
		"current_price":  current,
		"purchase_price": purchase,
		"selling_price":  economy.SellingPrice(current, purchase),
	}, nil)
}

func (s *Server) scorePlayer(ctx context.Context, _ *mcp.CallToolRequest, args ScorePlayerArgs) (*mcp.CallToolResult, any, error) {
	pos, err := player.ParsePosition(args.Position)
	if err != nil {
		return s.toolJSON(ctx, "score_player", nil, err)
	}
	active := chip.None
	if strings.TrimSpace(args.Chip) != "" {
		if active, err = chip.ParseType(args.Chip); err != nil {
			return s.toolJSON(ctx, "score_player", nil, err)
		}
	}

	result, err := s.services.Scoring.ScorePlayer(usecase.ScorePlayerInput{
		Stats: scoring.MatchStats{
			MinutesPlayed:   args.MinutesPlayed,
			GoalsScored:     args.GoalsScored,
			Assists:         args.Assists,
			CleanSheet:      args.CleanSheet,
			GoalsConceded:   args.GoalsConceded,
			OwnGoals:        args.OwnGoals,
			PenaltiesSaved:  args.PenaltiesSaved,
			PenaltiesMissed: args.PenaltiesMissed,
			YellowCards:     args.YellowCards,
			RedCards:        args.RedCards,
			Saves:           args.Saves,
			Bonus:           args.Bonus,
		},
		Position: pos,
		Captain:  args.Captain,
		Chip:     active,
	})
	if err != nil {
		return s.toolJSON(ctx, "score_player", nil, err)
	}
	b := result.Breakdown
	return s.toolJSON(ctx, "score_player", map[string]any{
		"base_points": result.BasePoints,
		"multiplier":  result.Multiplier,
		"points":      result.Points,
		"breakdown": map[string]int{
			"appearance":     b.Appearance,
			"goals":          b.Goals,
			"assists":        b.Assists,
			"clean_sheet":    b.CleanSheet,
			"goals_conceded": b.GoalsConceded,
			"cards":          b.Cards,
			"penalties":      b.Penalties,
			"saves":          b.Saves,
			"own_goals":      b.OwnGoals,
			"bonus":          b.Bonus,
		},
	}, nil)
}

func (s *Server) gameweekStatus(ctx context.Context, _ *mcp.CallToolRequest, _ GameweekStatusArgs) (*mcp.CallToolResult, any, error) {
	gw, err := s.services.Gameweeks.Current(ctx)
	if err != nil {
		return s.toolJSON(ctx, "gameweek_status", nil, err)
	}
	now := time.Now()
	return s.toolJSON(ctx, "gameweek_status", gameweekResult{
		Number:         gw.Number,
		Status:         gw.Status,
		Deadline:       gw.Deadline,
		DeadlinePassed: gw.DeadlinePassed(now),
		MarketOpen:     gw.EnsureOpen(now) == nil,
	}, nil)
}

func (s *Server) managerPoints(ctx context.Context, _ *mcp.CallToolRequest, args ManagerPointsArgs) (*mcp.CallToolResult, any, error) {
	var (
		points scoring.ManagerPoints
		err    error
	)
	if args.Gameweek > 0 {
		points, err = s.services.Scoring.GetManagerPoints(ctx, args.ManagerID, args.Gameweek)
	} else {
		points, err = s.services.Scoring.LiveManagerPoints(ctx, args.ManagerID)
	}
	if err != nil {
		return s.toolJSON(ctx, "manager_points", nil, err)
	}

	perPlayer := make(map[string]int, len(points.Players))
	for _, p := range points.Players {
		perPlayer[p.PlayerID] = p.CountedPoints
	}
	return s.toolJSON(ctx, "manager_points", pointsResult{
		ManagerID:    points.ManagerID,
		Gameweek:     points.Gameweek,
		Chip:         points.Chip,
		GrossPoints:  points.GrossPoints,
		TransferCost: points.TransferCost,
		TotalPoints:  points.TotalPoints,
		Players:      perPlayer,
	}, nil)
}

func (s *Server) buyPlayer(ctx context.Context, _ *mcp.CallToolRequest, args BuyPlayerArgs) (*mcp.CallToolResult, any, error) {
	squad, err := s.services.Transfers.Buy(ctx, usecase.BuyInput{
		ManagerID:   args.ManagerID,
		PlayerInID:  args.PlayerInID,
		PlayerOutID: args.PlayerOutID,
	})
	if err != nil {
		return s.toolJSON(ctx, "buy_player", nil, err)
	}
	return s.toolJSON(ctx, "buy_player", squadResult{
		ManagerID:  squad.ManagerID,
		PlayerIDs:  squad.PlayerIDs(),
		CaptainID:  squad.CaptainID,
		ViceID:     squad.ViceCaptainID,
		BenchOrder: squad.BenchOrder,
		Bank:       squad.Bank,
	}, nil)
}

func (s *Server) confirmTransfers(ctx context.Context, _ *mcp.CallToolRequest, args ManagerArgs) (*mcp.CallToolResult, any, error) {
	result, err := s.services.Transfers.Confirm(ctx, args.ManagerID)
	if err != nil {
		return s.toolJSON(ctx, "confirm_transfers", nil, err)
	}
	return s.toolJSON(ctx, "confirm_transfers", map[string]any{
		"gameweek":            result.Gameweek,
		"net_transfers":       result.NetTransfers,
		"cost":                result.Cost,
		"free_transfers":      result.FreeTransfers,
		"gameweek_points_hit": result.GameweekPointsHit,
		"chip":                result.Chip,
	}, nil)
}

func (s *Server) activateChip(ctx context.Context, _ *mcp.CallToolRequest, args ActivateChipArgs) (*mcp.CallToolResult, any, error) {
	inv, err := s.services.Chips.Activate(ctx, args.ManagerID, args.Chip)
	if err != nil {
		return s.toolJSON(ctx, "activate_chip", nil, err)
	}
	remaining := make(map[chip.Type]int, len(chip.AllTypes))
	for _, t := range chip.AllTypes {
		remaining[t] = inv.Remaining(t)
	}
	return s.toolJSON(ctx, "activate_chip", map[string]any{
		"active":          inv.Active,
		"active_gameweek": inv.ActiveGameweek,
		"remaining":       remaining,
	}, nil)
}
