package game

import "quant-casino/internal/fair"

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

const plinkoRows = 16

// Bucket multiplier tables per risk tier, 17 buckets for 16 rows. Variance
// grows with the tier while the center drains harder.
var plinkoTables = map[Risk][plinkoRows + 1]float64{
	RiskLow: {
		16, 9, 2, 1.4, 1.4, 1.2, 1.1, 1, 0.5, 1, 1.1, 1.2, 1.4, 1.4, 2, 9, 16,
	},
	RiskMedium: {
		110, 41, 10, 5, 3, 1.5, 1, 0.5, 0.3, 0.5, 1, 1.5, 3, 5, 10, 41, 110,
	},
	RiskHigh: {
		1000, 130, 26, 9, 4, 2, 0.2, 0.2, 0.2, 0.2, 0.2, 2, 4, 9, 26, 130, 1000,
	},
}

// PlinkoBet drops one ball through 16 rows of pegs.
type PlinkoBet struct {
	Amount int64 `json:"amount"`
	Risk   Risk  `json:"risk"`
}

type PlinkoPayload struct {
	Path        []int   `json:"path"`
	BucketIndex int     `json:"bucketIndex"`
	Risk        Risk    `json:"risk"`
	Multiplier  float64 `json:"multiplier"`
}

func (b PlinkoBet) Game() Type        { return TypePlinko }
func (b PlinkoBet) DrawWidth() uint64 { return plinkoRows }

func (b PlinkoBet) Validate() error {
	if b.Amount < 1 {
		return ErrInvalidAmount
	}
	if _, ok := plinkoTables[b.Risk]; !ok {
		return ErrInvalidRisk
	}
	return nil
}

func (b PlinkoBet) Settle(draw fair.DrawFunc, limits Limits) (Outcome, error) {
	if err := b.Validate(); err != nil {
		return Outcome{}, err
	}

	// One draw per row; >= 0.5 bounces right. Bucket = count of rights.
	path := make([]int, plinkoRows)
	bucket := 0
	for row := 0; row < plinkoRows; row++ {
		if draw(uint64(row)) >= 0.5 {
			path[row] = 1
			bucket++
		}
	}

	table := plinkoTables[b.Risk]
	mult := table[bucket]
	payout := clampPayout(b.Amount, float64(b.Amount)*mult, limits)
	return Outcome{
		Value:  float64(bucket),
		Win:    payout > 0,
		Payout: payout,
		Payload: PlinkoPayload{
			Path:        path,
			BucketIndex: bucket,
			Risk:        b.Risk,
			Multiplier:  mult,
		},
	}, nil
}
