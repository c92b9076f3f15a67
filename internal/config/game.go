package config

import "github.com/caarlos0/env/v11"

// GameConfig holds the platform constants shared by every round. These are
// operator-tunable at deploy time, never per round.
type GameConfig struct {
	HouseEdge     float64 `env:"HOUSE_EDGE" envDefault:"0.01"`
	MaxMultiplier float64 `env:"MAX_MULTIPLIER" envDefault:"1000"`

	MinBet int64 `env:"MIN_BET" envDefault:"1"`
	MaxBet int64 `env:"MAX_BET" envDefault:"10000"`

	// Ceiling on rounds per strategy-run call, enforced before the loop starts.
	MaxRoundsPerRun int `env:"MAX_ROUNDS_PER_RUN" envDefault:"100000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
