package game

import (
	"math"

	"quant-casino/internal/fair"
)

type Condition string

const (
	Over  Condition = "over"
	Under Condition = "under"
)

// DiceBet is an over/under roll against a target in (0, 100).
type DiceBet struct {
	Amount    int64     `json:"amount"`
	Target    float64   `json:"target"`
	Condition Condition `json:"condition"`
}

// DicePayload is the recorded result detail for a dice round.
type DicePayload struct {
	Roll       float64   `json:"roll"`
	Target     float64   `json:"target"`
	Condition  Condition `json:"condition"`
	Multiplier float64   `json:"multiplier"`
}

func (b DiceBet) Game() Type        { return TypeDice }
func (b DiceBet) DrawWidth() uint64 { return 1 }

func (b DiceBet) Validate() error {
	if b.Amount < 1 {
		return ErrInvalidAmount
	}
	if !(b.Target > 0 && b.Target < 100) {
		return ErrInvalidTarget
	}
	if b.Condition != Over && b.Condition != Under {
		return ErrInvalidCondition
	}
	return nil
}

func (b DiceBet) Settle(draw fair.DrawFunc, limits Limits) (Outcome, error) {
	if err := b.Validate(); err != nil {
		return Outcome{}, err
	}

	// Two-decimal roll in [0, 100).
	roll := math.Floor(draw(0)*10000) / 100

	var winProb float64
	var win bool
	if b.Condition == Over {
		winProb = (100 - b.Target) / 100
		win = roll > b.Target
	} else {
		winProb = b.Target / 100
		win = roll < b.Target
	}

	mult := (1 - limits.HouseEdge) / winProb
	if mult > limits.MaxMultiplier {
		mult = limits.MaxMultiplier
	}

	var payout int64
	if win {
		payout = clampPayout(b.Amount, float64(b.Amount)*mult, limits)
	}
	return Outcome{
		Value:  roll,
		Win:    win,
		Payout: payout,
		Payload: DicePayload{
			Roll:       roll,
			Target:     b.Target,
			Condition:  b.Condition,
			Multiplier: mult,
		},
	}, nil
}
