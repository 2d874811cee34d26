package chip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidChip = errors.New("invalid chip")

// Type is one of the season chips.
type Type string

const (
	None          Type = ""
	Wildcard      Type = "wildcard"
	FreeHit       Type = "freehit"
	BenchBoost    Type = "benchboost"
	TripleCaptain Type = "triplecaptain"
)

var AllTypes = []Type{Wildcard, FreeHit, BenchBoost, TripleCaptain}

func (t Type) Valid() bool {
	switch t {
	case Wildcard, FreeHit, BenchBoost, TripleCaptain:
		return true
	default:
		return false
	}
}

func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return None, fmt.Errorf("%w: unknown chip %q", ErrInvalidChip, raw)
	}
	return t, nil
}

// CostMultiplierFor returns the factor applied to the transfer point cost
// while the chip is active.
func CostMultiplierFor(active Type) int {
	switch active {
	case Wildcard, FreeHit:
		return 0
	default:
		return 1
	}
}

// DeductionPolicy decides when an activated chip is taken out of inventory.
type DeductionPolicy string

const (
	// DeductOnActivate takes the chip at activation. Deactivating does not
	// return it.
	DeductOnActivate DeductionPolicy = "on_activate"
	// DeductOnCommit takes the chip when transfers are confirmed under it or
	// when its gameweek is scored. Deactivating before that returns it.
	DeductOnCommit DeductionPolicy = "on_commit"
)

func ParseDeductionPolicy(raw string) (DeductionPolicy, error) {
	switch p := DeductionPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case DeductOnActivate, DeductOnCommit:
		return p, nil
	default:
		return "", fmt.Errorf("unknown chip deduction policy %q", raw)
	}
}

// Inventory is a manager's chip ledger for the season.
type Inventory struct {
	ManagerID      string
	Counts         map[Type]int
	Active         Type
	ActiveGameweek int
	Committed      bool
	UpdatedAt      time.Time
}

func NewInventory(managerID string, perType int) Inventory {
	counts := make(map[Type]int, len(AllTypes))
	for _, t := range AllTypes {
		counts[t] = perType
	}
	return Inventory{ManagerID: managerID, Counts: counts}
}

func (inv Inventory) Clone() Inventory {
	copied := inv
	copied.Counts = make(map[Type]int, len(inv.Counts))
	for t, n := range inv.Counts {
		copied.Counts[t] = n
	}
	return copied
}

// ActiveFor returns the chip active in gameweek, if any. A chip activated in
// an earlier gameweek is no longer active.
func (inv Inventory) ActiveFor(gameweek int) (Type, bool) {
	if inv.Active == None || inv.ActiveGameweek != gameweek {
		return None, false
	}
	return inv.Active, true
}

func (inv Inventory) Remaining(t Type) int {
	return inv.Counts[t]
}

func (inv *Inventory) Activate(t Type, gameweek int, policy DeductionPolicy) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown chip %q", ErrInvalidChip, t)
	}
	if active, ok := inv.ActiveFor(gameweek); ok {
		return fmt.Errorf("%w: %s is already active in gameweek %d", ErrInvalidChip, active, gameweek)
	}
	if inv.Counts[t] <= 0 {
		return fmt.Errorf("%w: no %s left", ErrInvalidChip, t)
	}

	inv.Active = t
	inv.ActiveGameweek = gameweek
	inv.Committed = false
	if policy != DeductOnCommit {
		inv.Counts[t]--
		inv.Committed = true
	}
	return nil
}

// Deactivate clears the active chip. It reports whether the chip went back
// into inventory.
func (inv *Inventory) Deactivate(gameweek int) (bool, error) {
	if _, ok := inv.ActiveFor(gameweek); !ok {
		return false, fmt.Errorf("%w: no chip is active in gameweek %d", ErrInvalidChip, gameweek)
	}

	returned := !inv.Committed
	inv.Active = None
	inv.ActiveGameweek = 0
	inv.Committed = false
	return returned, nil
}

// Commit deducts an active, not yet deducted chip. It reports whether a
// deduction happened.
func (inv *Inventory) Commit(gameweek int) bool {
	if _, ok := inv.ActiveFor(gameweek); !ok || inv.Committed {
		return false
	}
	if inv.Counts[inv.Active] > 0 {
		inv.Counts[inv.Active]--
	}
	inv.Committed = true
	return true
}
