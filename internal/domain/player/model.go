package player

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownPosition = errors.New("unknown player position")
	ErrUnknownStatus   = errors.New("unknown player status")
)

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// AllPositions lists positions in squad display order.
var AllPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	default:
		return false
	}
}

// ParsePosition accepts the canonical codes case-insensitively.
func ParsePosition(raw string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, raw)
	}
	return p, nil
}

// Status is the availability flag supplied by the results feed.
type Status string

const (
	StatusAvailable Status = "available"
	StatusInjured   Status = "injured"
	StatusSuspended Status = "suspended"
	StatusDoubtful  Status = "doubtful"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInjured, StatusSuspended, StatusDoubtful:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Player is a selectable athlete in the fantasy pool. Prices and points are
// fed from outside the engine between gameweeks.
type Player struct {
	ID                 string
	Name               string
	Club               string
	Position           Position
	CurrentPrice       decimal.Decimal
	Status             Status
	TotalPoints        int
	PointsLastGameweek int
	UpdatedAt          time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.Club) == "" {
		return fmt.Errorf("player club is required")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, p.Position)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, p.Status)
	}
	if !p.CurrentPrice.IsPositive() {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}
