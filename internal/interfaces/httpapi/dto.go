package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/shopspring/decimal"
)

type createSquadRequest struct {
	PlayerIDs     []string `json:"player_ids" validate:"required,max=30,dive,required"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
	BenchOrder    []string `json:"bench_order" validate:"omitempty,dive,required"`
}

type draftSquadRequest struct {
	PlayerIDs     []string `json:"player_ids" validate:"required,max=30,dive,required"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
	BenchOrder    []string `json:"bench_order" validate:"omitempty,dive,required"`
}

type updateLineupRequest struct {
	CaptainID     string   `json:"captain_id" validate:"required"`
	ViceCaptainID string   `json:"vice_captain_id" validate:"required,nefield=CaptainID"`
	BenchOrder    []string `json:"bench_order" validate:"required,dive,required"`
}

type selectOutgoingRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type buyPlayerRequest struct {
	PlayerInID  string `json:"player_in_id" validate:"required"`
	PlayerOutID string `json:"player_out_id" validate:"omitempty,nefield=PlayerInID"`
}

type activateChipRequest struct {
	Chip string `json:"chip" validate:"required,oneof=wildcard freehit benchboost triplecaptain"`
}

type matchStatsRequest struct {
	PlayerID        string `json:"player_id"`
	FixtureID       string `json:"fixture_id"`
	MinutesPlayed   int    `json:"minutes_played" validate:"gte=0,lte=130"`
	GoalsScored     int    `json:"goals_scored" validate:"gte=0"`
	Assists         int    `json:"assists" validate:"gte=0"`
	CleanSheet      bool   `json:"clean_sheet"`
	GoalsConceded   int    `json:"goals_conceded" validate:"gte=0"`
	OwnGoals        int    `json:"own_goals" validate:"gte=0"`
	PenaltiesSaved  int    `json:"penalties_saved" validate:"gte=0"`
	PenaltiesMissed int    `json:"penalties_missed" validate:"gte=0"`
	YellowCards     int    `json:"yellow_cards" validate:"gte=0,lte=2"`
	RedCards        int    `json:"red_cards" validate:"gte=0,lte=1"`
	Saves           int    `json:"saves" validate:"gte=0"`
	Touches         int    `json:"touches" validate:"gte=0"`
	DuelsWon        int    `json:"duels_won" validate:"gte=0"`
	Bonus           int    `json:"bonus" validate:"gte=0,lte=3"`
}

func (r matchStatsRequest) toDomain(gameweekNumber int) scoring.MatchStats {
	return scoring.MatchStats{
		PlayerID:        r.PlayerID,
		FixtureID:       r.FixtureID,
		Gameweek:        gameweekNumber,
		MinutesPlayed:   r.MinutesPlayed,
		GoalsScored:     r.GoalsScored,
		Assists:         r.Assists,
		CleanSheet:      r.CleanSheet,
		GoalsConceded:   r.GoalsConceded,
		OwnGoals:        r.OwnGoals,
		PenaltiesSaved:  r.PenaltiesSaved,
		PenaltiesMissed: r.PenaltiesMissed,
		YellowCards:     r.YellowCards,
		RedCards:        r.RedCards,
		Saves:           r.Saves,
		Touches:         r.Touches,
		DuelsWon:        r.DuelsWon,
		Bonus:           r.Bonus,
	}
}

type scorePlayerRequest struct {
	Position string            `json:"position" validate:"required,oneof=GK DEF MID FWD"`
	Captain  bool              `json:"captain"`
	Chip     string            `json:"chip" validate:"omitempty,oneof=wildcard freehit benchboost triplecaptain"`
	Stats    matchStatsRequest `json:"stats"`
}

type ingestFixtureRequest struct {
	FixtureID string              `json:"fixture_id" validate:"required"`
	Stats     []matchStatsRequest `json:"stats" validate:"required,min=1,dive"`
}

type finalizeGameweekRequest struct {
	NextDeadline time.Time `json:"next_deadline" validate:"required"`
}

type startSeasonRequest struct {
	Deadline time.Time `json:"deadline" validate:"required"`
}

type importPlayerRequest struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required,max=120"`
	Club     string          `json:"club" validate:"required,max=60"`
	Position string          `json:"position" validate:"required,oneof=GK DEF MID FWD"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status" validate:"omitempty,oneof=available injured suspended doubtful"`
}

type importPlayersRequest struct {
	Players []importPlayerRequest `json:"players" validate:"required,min=1,dive"`
}

type marketUpdateRequest struct {
	PlayerID string           `json:"player_id" validate:"required"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Status   *string          `json:"status,omitempty" validate:"omitempty,oneof=available injured suspended doubtful"`
}

type marketUpdatesRequest struct {
	Updates []marketUpdateRequest `json:"updates" validate:"required,min=1,dive"`
}

type internalJobSyncRequest struct {
	Gameweek   int    `json:"gameweek" validate:"gte=0"`
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=200"`
}

type playerDTO struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Club               string          `json:"club"`
	Position           player.Position `json:"position"`
	Price              decimal.Decimal `json:"price"`
	Status             player.Status   `json:"status"`
	TotalPoints        int             `json:"total_points"`
	PointsLastGameweek int             `json:"points_last_gameweek"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:                 p.ID,
		Name:               p.Name,
		Club:               p.Club,
		Position:           p.Position,
		Price:              p.CurrentPrice,
		Status:             p.Status,
		TotalPoints:        p.TotalPoints,
		PointsLastGameweek: p.PointsLastGameweek,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

type gameweekDTO struct {
	Number      int             `json:"number"`
	Deadline    time.Time       `json:"deadline"`
	Status      gameweek.Status `json:"status"`
	LockedAt    *time.Time      `json:"locked_at,omitempty"`
	FinalizedAt *time.Time      `json:"finalized_at,omitempty"`
}

func gameweekToDTO(gw gameweek.Gameweek) gameweekDTO {
	return gameweekDTO{
		Number:      gw.Number,
		Deadline:    gw.Deadline,
		Status:      gw.Status,
		LockedAt:    gw.LockedAt,
		FinalizedAt: gw.FinalizedAt,
	}
}

type squadPlayerDTO struct {
	PlayerID      string          `json:"player_id"`
	Club          string          `json:"club"`
	Position      player.Position `json:"position"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	IsStarter     bool            `json:"is_starter"`
	IsCaptain     bool            `json:"is_captain"`
	IsViceCaptain bool            `json:"is_vice_captain"`
}

type squadDTO struct {
	ManagerID     string           `json:"manager_id"`
	Players       []squadPlayerDTO `json:"players"`
	CaptainID     string           `json:"captain_id"`
	ViceCaptainID string           `json:"vice_captain_id"`
	BenchOrder    []string         `json:"bench_order"`
	Bank          decimal.Decimal  `json:"bank"`
	TotalBudget   decimal.Decimal  `json:"total_budget"`
	SquadValue    decimal.Decimal  `json:"squad_value"`
}

func squadToDTO(squad fantasy.Squad) squadDTO {
	players := make([]squadPlayerDTO, 0, len(squad.Players))
	value := decimal.Zero
	for _, p := range squad.Players {
		value = value.Add(p.CurrentPrice)
		players = append(players, squadPlayerDTO{
			PlayerID:      p.PlayerID,
			Club:          p.Club,
			Position:      p.Position,
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice(),
			IsStarter:     !squad.IsBenched(p.PlayerID),
			IsCaptain:     p.PlayerID == squad.CaptainID,
			IsViceCaptain: p.PlayerID == squad.ViceCaptainID,
		})
	}
	bench := squad.BenchOrder
	if bench == nil {
		bench = []string{}
	}
	return squadDTO{
		ManagerID:     squad.ManagerID,
		Players:       players,
		CaptainID:     squad.CaptainID,
		ViceCaptainID: squad.ViceCaptainID,
		BenchOrder:    bench,
		Bank:          squad.Bank,
		TotalBudget:   squad.TotalBudget,
		SquadValue:    value,
	}
}

type issueDTO struct {
	Kind    fantasy.IssueKind `json:"kind"`
	Club    string            `json:"club,omitempty"`
	Message string            `json:"message"`
}

type validationDTO struct {
	Valid  bool       `json:"valid"`
	Issues []issueDTO `json:"issues"`
}

func issuesToDTO(issues []fantasy.Issue) validationDTO {
	out := validationDTO{Valid: len(issues) == 0, Issues: make([]issueDTO, 0, len(issues))}
	for _, issue := range issues {
		out.Issues = append(out.Issues, issueDTO{Kind: issue.Kind, Club: issue.Club, Message: issue.Message})
	}
	return out
}

type transferStateDTO struct {
	ManagerID             string `json:"manager_id"`
	Gameweek              int    `json:"gameweek"`
	FreeTransfers         int    `json:"free_transfers"`
	ConfirmedTransferCost int    `json:"confirmed_transfer_cost"`
	GameweekPointsHit     int    `json:"gameweek_points_hit"`
	PendingOut            string `json:"pending_out,omitempty"`
}

func transferStateToDTO(state transfer.State) transferStateDTO {
	return transferStateDTO{
		ManagerID:             state.ManagerID,
		Gameweek:              state.Gameweek,
		FreeTransfers:         state.FreeTransfers,
		ConfirmedTransferCost: state.ConfirmedTransferCost,
		GameweekPointsHit:     state.GameweekPointsHit,
		PendingOut:            state.PendingOut,
	}
}

type chipInventoryDTO struct {
	ManagerID      string            `json:"manager_id"`
	Remaining      map[chip.Type]int `json:"remaining"`
	Active         chip.Type         `json:"active,omitempty"`
	ActiveGameweek int               `json:"active_gameweek,omitempty"`
	Committed      bool              `json:"committed"`
}

func chipInventoryToDTO(inv chip.Inventory) chipInventoryDTO {
	remaining := make(map[chip.Type]int, len(chip.AllTypes))
	for _, t := range chip.AllTypes {
		remaining[t] = inv.Remaining(t)
	}
	return chipInventoryDTO{
		ManagerID:      inv.ManagerID,
		Remaining:      remaining,
		Active:         inv.Active,
		ActiveGameweek: inv.ActiveGameweek,
		Committed:      inv.Committed,
	}
}

type managerDTO struct {
	Gameweek     gameweekDTO      `json:"gameweek"`
	Squad        squadDTO         `json:"squad"`
	Transfer     transferStateDTO `json:"transfer"`
	Chips        chipInventoryDTO `json:"chips"`
	ActiveChip   chip.Type        `json:"active_chip,omitempty"`
	NetTransfers int              `json:"net_transfers"`
	PendingCost  int              `json:"pending_cost"`
}

func managerToDTO(view usecase.ManagerView) managerDTO {
	return managerDTO{
		Gameweek:     gameweekToDTO(view.Gameweek),
		Squad:        squadToDTO(view.Squad),
		Transfer:     transferStateToDTO(view.Transfer),
		Chips:        chipInventoryToDTO(view.Chips),
		ActiveChip:   view.ActiveChip,
		NetTransfers: view.NetTransfers,
		PendingCost:  view.PendingCost,
	}
}

type breakdownDTO struct {
	Appearance    int `json:"appearance"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	CleanSheet    int `json:"clean_sheet"`
	GoalsConceded int `json:"goals_conceded"`
	Cards         int `json:"cards"`
	Penalties     int `json:"penalties"`
	Saves         int `json:"saves"`
	OwnGoals      int `json:"own_goals"`
	Bonus         int `json:"bonus"`
}

func breakdownToDTO(b scoring.Breakdown) breakdownDTO {
	return breakdownDTO{
		Appearance:    b.Appearance,
		Goals:         b.Goals,
		Assists:       b.Assists,
		CleanSheet:    b.CleanSheet,
		GoalsConceded: b.GoalsConceded,
		Cards:         b.Cards,
		Penalties:     b.Penalties,
		Saves:         b.Saves,
		OwnGoals:      b.OwnGoals,
		Bonus:         b.Bonus,
	}
}

type scorePlayerDTO struct {
	Breakdown  breakdownDTO `json:"breakdown"`
	BasePoints int          `json:"base_points"`
	Multiplier int          `json:"multiplier"`
	Points     int          `json:"points"`
}

type playerScoreDTO struct {
	PlayerID  string          `json:"player_id"`
	FixtureID string          `json:"fixture_id"`
	Position  player.Position `json:"position"`
	Minutes   int             `json:"minutes"`
	BPS       int             `json:"bps"`
	Bonus     int             `json:"bonus"`
	Points    int             `json:"points"`
	Breakdown breakdownDTO    `json:"breakdown"`
}

func playerScoresToDTO(items []scoring.PlayerScore) []playerScoreDTO {
	out := make([]playerScoreDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerScoreDTO{
			PlayerID:  item.Stats.PlayerID,
			FixtureID: item.Stats.FixtureID,
			Position:  item.Position,
			Minutes:   item.Stats.MinutesPlayed,
			BPS:       item.Stats.BPS,
			Bonus:     item.Stats.Bonus,
			Points:    item.Points,
			Breakdown: breakdownToDTO(item.Breakdown),
		})
	}
	return out
}

type playerPointsDTO struct {
	PlayerID      string          `json:"player_id"`
	Position      player.Position `json:"position"`
	IsStarter     bool            `json:"is_starter"`
	IsCaptain     bool            `json:"is_captain"`
	IsViceCaptain bool            `json:"is_vice_captain"`
	Minutes       int             `json:"minutes"`
	Multiplier    int             `json:"multiplier"`
	BasePoints    int             `json:"base_points"`
	CountedPoints int             `json:"counted_points"`
}

type managerPointsDTO struct {
	ManagerID    string            `json:"manager_id"`
	Gameweek     int               `json:"gameweek"`
	Chip         chip.Type         `json:"chip,omitempty"`
	GrossPoints  int               `json:"gross_points"`
	TransferCost int               `json:"transfer_cost"`
	TotalPoints  int               `json:"total_points"`
	Players      []playerPointsDTO `json:"players"`
}

func managerPointsToDTO(mp scoring.ManagerPoints) managerPointsDTO {
	players := make([]playerPointsDTO, 0, len(mp.Players))
	for _, p := range mp.Players {
		players = append(players, playerPointsDTO{
			PlayerID:      p.PlayerID,
			Position:      p.Position,
			IsStarter:     p.IsStarter,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
			Minutes:       p.Minutes,
			Multiplier:    p.Multiplier,
			BasePoints:    p.BasePoints,
			CountedPoints: p.CountedPoints,
		})
	}
	return managerPointsDTO{
		ManagerID:    mp.ManagerID,
		Gameweek:     mp.Gameweek,
		Chip:         mp.Chip,
		GrossPoints:  mp.GrossPoints,
		TransferCost: mp.TransferCost,
		TotalPoints:  mp.TotalPoints,
		Players:      players,
	}
}

type confirmDTO struct {
	Gameweek          int       `json:"gameweek"`
	NetTransfers      int       `json:"net_transfers"`
	Cost              int       `json:"cost"`
	FreeTransfers     int       `json:"free_transfers"`
	GameweekPointsHit int       `json:"gameweek_points_hit"`
	Chip              chip.Type `json:"chip,omitempty"`
}

type finalizeDTO struct {
	Gameweek       gameweekDTO `json:"gameweek"`
	Next           gameweekDTO `json:"next"`
	ManagersScored int         `json:"managers_scored"`
	PlayersUpdated int         `json:"players_updated"`
	WorkerCount    int         `json:"worker_count"`
}
