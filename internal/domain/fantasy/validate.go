package fantasy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

// Validate evaluates every squad rule independently and returns all issues.
// An empty result means the squad is legal.
func (r Rules) Validate(s Squad) []Issue {
	var issues []Issue

	issues = append(issues, r.compositionIssues(s)...)
	issues = append(issues, r.clubQuotaIssues(s)...)

	if s.Bank.IsNegative() {
		issues = append(issues, Issue{
			Kind:    IssueBudgetExceeded,
			Message: fmt.Sprintf("bank is %s", s.Bank.StringFixed(1)),
		})
	}

	if issue, ok := r.formationIssue(s); ok {
		issues = append(issues, issue)
	}

	captainOK := s.CaptainID != "" && s.Has(s.CaptainID)
	if !captainOK {
		issues = append(issues, Issue{Kind: IssueMissingCaptain, Message: "a captain from the squad is required"})
	}
	switch {
	case s.ViceCaptainID == "" || !s.Has(s.ViceCaptainID):
		issues = append(issues, Issue{Kind: IssueMissingViceCaptain, Message: "a vice-captain from the squad is required"})
	case s.ViceCaptainID == s.CaptainID:
		issues = append(issues, Issue{Kind: IssueMissingViceCaptain, Message: "vice-captain must differ from captain"})
	}

	return issues
}

func (r Rules) compositionIssues(s Squad) []Issue {
	var issues []Issue

	if len(s.Players) != r.SquadSize {
		issues = append(issues, Issue{
			Kind:    IssueInvalidComposition,
			Message: fmt.Sprintf("expected %d players, got %d", r.SquadSize, len(s.Players)),
		})
	}

	seen := make(map[string]struct{}, len(s.Players))
	counts := make(map[player.Position]int, len(player.AllPositions))
	for _, p := range s.Players {
		if _, dup := seen[p.PlayerID]; dup {
			issues = append(issues, Issue{
				Kind:    IssueInvalidComposition,
				Message: fmt.Sprintf("player %s appears more than once", p.PlayerID),
			})
		}
		seen[p.PlayerID] = struct{}{}
		counts[p.Position]++
	}

	var mismatched []string
	for _, pos := range player.AllPositions {
		if counts[pos] != r.Composition[pos] {
			mismatched = append(mismatched, fmt.Sprintf("%s %d/%d", pos, counts[pos], r.Composition[pos]))
		}
	}
	if len(mismatched) > 0 {
		issues = append(issues, Issue{
			Kind:    IssueInvalidComposition,
			Message: "position counts off: " + strings.Join(mismatched, ", "),
		})
	}

	benchSeen := make(map[string]struct{}, len(s.BenchOrder))
	benchOK := len(s.BenchOrder) == r.BenchSize()
	for _, id := range s.BenchOrder {
		if _, dup := benchSeen[id]; dup || !s.Has(id) {
			benchOK = false
		}
		benchSeen[id] = struct{}{}
	}
	if !benchOK {
		issues = append(issues, Issue{
			Kind:    IssueInvalidComposition,
			Message: fmt.Sprintf("bench must list %d distinct squad players", r.BenchSize()),
		})
	}

	return issues
}

func (r Rules) clubQuotaIssues(s Squad) []Issue {
	counts := s.ClubCounts("")
	clubs := make([]string, 0, len(counts))
	for club, n := range counts {
		if n > r.MaxPerClub {
			clubs = append(clubs, club)
		}
	}
	sort.Strings(clubs)

	issues := make([]Issue, 0, len(clubs))
	for _, club := range clubs {
		issues = append(issues, Issue{
			Kind:    IssueClubQuotaExceeded,
			Club:    club,
			Message: fmt.Sprintf("%d players from %s, max %d", counts[club], club, r.MaxPerClub),
		})
	}
	return issues
}

func (r Rules) formationIssue(s Squad) (Issue, bool) {
	counts := make(map[player.Position]int, len(player.AllPositions))
	starters := s.Starters()
	for _, p := range starters {
		counts[p.Position]++
	}
	if r.FormationValid(counts) {
		return Issue{}, false
	}

	return Issue{
		Kind: IssueInvalidFormation,
		Message: fmt.Sprintf("starting %d: GK %d, DEF %d, MID %d, FWD %d",
			len(starters),
			counts[player.PositionGoalkeeper],
			counts[player.PositionDefender],
			counts[player.PositionMidfielder],
			counts[player.PositionForward],
		),
	}, true
}
