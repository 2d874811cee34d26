package memory

import (
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/shopspring/decimal"
)

type seedPlayer struct {
	id    string
	name  string
	club  string
	pos   player.Position
	price string
}

var seedPlayers = []seedPlayer{
	{"psj-gk-1", "Andritany Ardhiyasa", "PSJ", player.PositionGoalkeeper, "5.0"},
	{"psj-def-1", "Hansamu Yama", "PSJ", player.PositionDefender, "5.5"},
	{"psj-def-2", "Rizky Ridho", "PSJ", player.PositionDefender, "6.0"},
	{"psj-mid-1", "Maciej Gajos", "PSJ", player.PositionMidfielder, "8.0"},
	{"psj-mid-2", "Syahrian Abimanyu", "PSJ", player.PositionMidfielder, "6.5"},
	{"psj-fwd-1", "Gustavo Almeida", "PSJ", player.PositionForward, "9.5"},

	{"psb-gk-1", "Teja Paku Alam", "PSB", player.PositionGoalkeeper, "5.0"},
	{"psb-def-1", "Nick Kuipers", "PSB", player.PositionDefender, "6.0"},
	{"psb-def-2", "Alberto Rodriguez", "PSB", player.PositionDefender, "5.5"},
	{"psb-mid-1", "Marc Klok", "PSB", player.PositionMidfielder, "8.5"},
	{"psb-mid-2", "Dedi Kusnandar", "PSB", player.PositionMidfielder, "5.5"},
	{"psb-fwd-1", "David da Silva", "PSB", player.PositionForward, "10.0"},

	{"prb-gk-1", "Ernando Ari", "PRB", player.PositionGoalkeeper, "4.5"},
	{"prb-def-1", "Dusan Stevanovic", "PRB", player.PositionDefender, "5.0"},
	{"prb-def-2", "Arief Catur", "PRB", player.PositionDefender, "4.5"},
	{"prb-mid-1", "Bruno Moreira", "PRB", player.PositionMidfielder, "7.5"},
	{"prb-mid-2", "Toni Firmansyah", "PRB", player.PositionMidfielder, "5.0"},
	{"prb-fwd-1", "Paulo Henrique", "PRB", player.PositionForward, "8.5"},

	{"bu-gk-1", "Adilson Maringa", "BU", player.PositionGoalkeeper, "4.5"},
	{"bu-def-1", "Ricky Fajrin", "BU", player.PositionDefender, "5.0"},
	{"bu-def-2", "Elias Dolah", "BU", player.PositionDefender, "4.5"},
	{"bu-mid-1", "Eber Bessa", "BU", player.PositionMidfielder, "7.5"},
	{"bu-mid-2", "Mitsuru Maruoka", "BU", player.PositionMidfielder, "6.0"},
	{"bu-fwd-1", "Boris Kopitovic", "BU", player.PositionForward, "8.0"},

	{"psm-gk-1", "Reza Arya", "PSM", player.PositionGoalkeeper, "4.5"},
	{"psm-def-1", "Yuran Fernandes", "PSM", player.PositionDefender, "5.5"},
	{"psm-def-2", "Aloisio Neto", "PSM", player.PositionDefender, "4.5"},
	{"psm-mid-1", "Ananda Raehan", "PSM", player.PositionMidfielder, "6.5"},
	{"psm-mid-2", "Victor Dethan", "PSM", player.PositionMidfielder, "5.5"},
	{"psm-fwd-1", "Alex Tanque", "PSM", player.PositionForward, "7.5"},

	{"pss-gk-1", "Alan Bernardon", "PSS", player.PositionGoalkeeper, "4.0"},
	{"pss-def-1", "Kim Jin-sung", "PSS", player.PositionDefender, "4.5"},
	{"pss-def-2", "Cleberson", "PSS", player.PositionDefender, "4.5"},
	{"pss-mid-1", "Kevin Gomes", "PSS", player.PositionMidfielder, "6.0"},
	{"pss-mid-2", "Betinho", "PSS", player.PositionMidfielder, "5.0"},
	{"pss-fwd-1", "Gustavo Tocantins", "PSS", player.PositionForward, "7.0"},

	{"are-gk-1", "Lucas Frigeri", "ARE", player.PositionGoalkeeper, "4.5"},
	{"are-def-1", "Julian Guevara", "ARE", player.PositionDefender, "5.0"},
	{"are-def-2", "Bayu Aji", "ARE", player.PositionDefender, "4.0"},
	{"are-mid-1", "Dendi Santoso", "ARE", player.PositionMidfielder, "6.0"},
	{"are-mid-2", "Pablo Oliveira", "ARE", player.PositionMidfielder, "5.5"},
	{"are-fwd-1", "Dalberto", "ARE", player.PositionForward, "7.5"},

	{"bor-gk-1", "Nadeo Argawinata", "BOR", player.PositionGoalkeeper, "5.0"},
	{"bor-def-1", "Komang Teguh", "BOR", player.PositionDefender, "5.5"},
	{"bor-def-2", "Leo Guntara", "BOR", player.PositionDefender, "5.0"},
	{"bor-mid-1", "Kei Hirose", "BOR", player.PositionMidfielder, "7.0"},
	{"bor-mid-2", "Juan Villa", "BOR", player.PositionMidfielder, "6.5"},
	{"bor-fwd-1", "Mariano Peralta", "BOR", player.PositionForward, "8.0"},

	{"psis-gk-1", "Adi Satryo", "PSIS", player.PositionGoalkeeper, "4.0"},
	{"psis-def-1", "Alfeandra Dewangga", "PSIS", player.PositionDefender, "4.5"},
	{"psis-def-2", "Wawan Febrianto", "PSIS", player.PositionDefender, "4.0"},
	{"psis-mid-1", "Septian David", "PSIS", player.PositionMidfielder, "6.0"},
	{"psis-mid-2", "Riyan Ardiansyah", "PSIS", player.PositionMidfielder, "4.5"},
	{"psis-fwd-1", "Paulo Gali", "PSIS", player.PositionForward, "6.5"},
}

// SeedPlayers returns a Liga 1 player pool with six players per club.
func SeedPlayers() []player.Player {
	out := make([]player.Player, 0, len(seedPlayers))
	for _, p := range seedPlayers {
		out = append(out, player.Player{
			ID:           p.id,
			Name:         p.name,
			Club:         p.club,
			Position:     p.pos,
			CurrentPrice: decimal.RequireFromString(p.price),
			Status:       player.StatusAvailable,
		})
	}
	return out
}

// SeedGameweek opens gameweek 1 with its deadline a week after now.
func SeedGameweek(now time.Time) gameweek.Gameweek {
	return gameweek.Gameweek{
		Number:    1,
		Deadline:  now.UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour),
		Status:    gameweek.StatusActive,
		UpdatedAt: now.UTC(),
	}
}
