package usecase

import (
	"fmt"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
)

// EngineRules groups the tunable game rules shared by the services.
type EngineRules struct {
	Squad        fantasy.Rules
	Transfer     transfer.Rules
	ChipsPerType int
	ChipPolicy   chip.DeductionPolicy
}

func DefaultEngineRules() EngineRules {
	return EngineRules{
		Squad:        fantasy.DefaultRules(),
		Transfer:     transfer.DefaultRules(),
		ChipsPerType: 1,
		ChipPolicy:   chip.DeductOnActivate,
	}
}

func (r EngineRules) Validate() error {
	if r.Squad.MaxPerClub != r.Transfer.MaxPerClub {
		return fmt.Errorf("%w: squad and transfer club quota differ (%d != %d)", ErrInvalidInput, r.Squad.MaxPerClub, r.Transfer.MaxPerClub)
	}
	if r.Transfer.InitialFreeTransfers > r.Transfer.MaxFreeTransfers {
		return fmt.Errorf("%w: initial free transfers exceed the maximum", ErrInvalidInput)
	}
	if r.ChipsPerType < 0 {
		return fmt.Errorf("%w: chip count must be >= 0", ErrInvalidInput)
	}
	if _, err := chip.ParseDeductionPolicy(string(r.ChipPolicy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (r EngineRules) market() transfer.Market {
	return transfer.NewMarket(r.Transfer, r.Squad)
}
