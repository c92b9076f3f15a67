// strategy-sim runs a strategy offline against an in-memory executor. It
// reads a strategy JSON file, plays it with a freshly drawn (or supplied)
// server seed, and prints the run result as JSON. Nothing touches a
// database, so strategy authors can iterate before spending real credits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"quant-casino/internal/config"
	"quant-casino/internal/fair"
	"quant-casino/internal/game"
	"quant-casino/internal/progression"
	"quant-casino/internal/rules"
	"quant-casino/internal/strategy"
)

type simInput struct {
	Strategy    *rules.Strategy     `json:"strategy"`
	Progression *progression.Config `json:"progression,omitempty"`
}

func main() {
	var (
		strategyPath = flag.String("strategy", "", "path to strategy JSON (required)")
		balance      = flag.Int64("balance", 10000, "starting balance in credits")
		rounds       = flag.Int("rounds", 1000, "maximum rounds to play")
		serverSeed   = flag.String("server-seed", "", "server seed secret (random when empty)")
		clientSeed   = flag.String("client-seed", "", "client seed")
		pretty       = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	if *strategyPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	gameCfg, err := config.LoadGame()
	if err != nil {
		fatal("load game config: %v", err)
	}

	raw, err := os.ReadFile(*strategyPath)
	if err != nil {
		fatal("read strategy: %v", err)
	}
	var in simInput
	if err := json.Unmarshal(raw, &in); err != nil {
		// Allow a bare strategy document without the wrapper.
		var st rules.Strategy
		if err2 := json.Unmarshal(raw, &st); err2 != nil {
			fatal("parse strategy: %v", err)
		}
		in.Strategy = &st
	}
	if in.Strategy == nil {
		fatal("strategy file has no strategy document")
	}
	base := game.DiceBet{
		Amount:    in.Strategy.BaseConfig.Amount,
		Target:    in.Strategy.BaseConfig.Target,
		Condition: in.Strategy.BaseConfig.Condition,
	}
	if err := base.Validate(); err != nil {
		fatal("invalid base config: %v", err)
	}

	secret := *serverSeed
	if secret == "" {
		seed, err := fair.NewServerSeed()
		if err != nil {
			fatal("draw server seed: %v", err)
		}
		secret = seed.Secret
	}

	limits := game.Limits{HouseEdge: gameCfg.HouseEdge, MaxMultiplier: gameCfg.MaxMultiplier}
	exec := strategy.NewMemoryExecutor(secret, *clientSeed, *balance, limits)
	runner := strategy.NewRunner(limits, gameCfg.MinBet, gameCfg.MaxBet, gameCfg.MaxRoundsPerRun)

	result, err := runner.Run(context.Background(), exec, strategy.RunParams{
		Strategy:        in.Strategy,
		Progression:     in.Progression,
		MaxRounds:       *rounds,
		StartingBalance: *balance,
	})
	if err != nil {
		fatal("run: %v", err)
	}

	out := struct {
		strategy.RunResult
		ServerSeedHash string `json:"serverSeedHash"`
		ServerSeed     string `json:"serverSeed"`
		ClientSeed     string `json:"clientSeed"`
	}{
		RunResult:      result,
		ServerSeedHash: fair.HashSecret(secret),
		ServerSeed:     secret,
		ClientSeed:     *clientSeed,
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fatal("encode result: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
