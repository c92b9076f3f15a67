package progression

import (
	"errors"
	"testing"
)

var testLimits = Limits{MinBet: 1, MaxBet: 10000, HouseEdge: 0.01}

func mustState(t *testing.T, cfg Config, balance int64) State {
	t.Helper()
	s, err := NewState(cfg, testLimits, balance)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	return s
}

func loss(bet int64) *Result { return &Result{Win: false, Payout: 0, BetAmount: bet} }
func win(bet, payout int64) *Result {
	return &Result{Win: true, Payout: payout, BetAmount: bet}
}

func TestMartingaleDoublesOnLossResetsOnWin(t *testing.T) {
	cfg := Config{Type: Martingale, BaseAmount: 10}
	state := mustState(t, cfg, 1000)

	bet, state, err := state.Next(loss(10), cfg, testLimits, 990)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 20 {
		t.Fatalf("bet after loss = %d, want 20", bet)
	}

	bet, _, err = state.Next(win(20, 40), cfg, testLimits, 1010)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet after win = %d, want reset to 10", bet)
	}
}

func TestMartingaleResetsAfterLossStreakCap(t *testing.T) {
	cfg := Config{Type: Martingale, BaseAmount: 10, MaxConsecutiveLosses: 3}
	state := mustState(t, cfg, 100000)

	bets := []int64{}
	var bet int64
	var err error
	for i := 0; i < 4; i++ {
		bet, state, err = state.Next(loss(state.CurrentBet), cfg, testLimits, 100000)
		if err != nil {
			t.Fatalf("round %d: Next() error = %v", i, err)
		}
		bets = append(bets, bet)
	}
	want := []int64{20, 40, 10, 20}
	for i := range want {
		if bets[i] != want[i] {
			t.Fatalf("bets = %v, want %v", bets, want)
		}
	}
}

func TestParoliTriplesOnWinResetsAfterCap(t *testing.T) {
	cfg := Config{Type: Paroli, BaseAmount: 10}
	state := mustState(t, cfg, 100000)

	bet, state, err := state.Next(win(10, 20), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 30 {
		t.Fatalf("bet after first win = %d, want 30", bet)
	}
	bet, state, err = state.Next(win(30, 60), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 90 {
		t.Fatalf("bet after second win = %d, want 90", bet)
	}
	// Third consecutive win hits the default cap and resets.
	bet, _, err = state.Next(win(90, 180), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet after third win = %d, want 10", bet)
	}
}

func TestDalembertStepsByUnit(t *testing.T) {
	cfg := Config{Type: Dalembert, BaseAmount: 10}
	state := mustState(t, cfg, 10000)

	bet, state, err := state.Next(loss(10), cfg, testLimits, 10000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 20 {
		t.Fatalf("bet after loss = %d, want 20", bet)
	}
	bet, state, err = state.Next(loss(20), cfg, testLimits, 10000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 30 {
		t.Fatalf("bet after loss = %d, want 30", bet)
	}
	bet, _, err = state.Next(win(30, 60), cfg, testLimits, 10000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 20 {
		t.Fatalf("bet after win = %d, want 20", bet)
	}
}

func TestFibonacciWalk(t *testing.T) {
	cfg := Config{Type: Fibonacci, BaseAmount: 10}
	state := mustState(t, cfg, 100000)

	// Three losses walk the sequence 1,1,2,3; bet = base * fib[index].
	var bet int64
	var err error
	want := []int64{10, 20, 30}
	for i, w := range want {
		bet, state, err = state.Next(loss(state.CurrentBet), cfg, testLimits, 100000)
		if err != nil {
			t.Fatalf("loss %d: Next() error = %v", i, err)
		}
		if bet != w {
			t.Fatalf("loss %d: bet = %d, want %d", i, bet, w)
		}
	}
	// A win retreats two indexes: 3 -> 1, bet 10.
	bet, _, err = state.Next(win(30, 60), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet after win = %d, want 10", bet)
	}
}

func TestLabouchereLine(t *testing.T) {
	cfg := Config{Type: Labouchere, BaseAmount: 10}
	state := mustState(t, cfg, 100000)

	// Line [1,2,3,4]: first+last = 5 units. A win cancels both ends.
	bet, state, err := state.Next(win(10, 20), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 50 {
		t.Fatalf("bet after win = %d, want 50", bet)
	}
	if got := state.LabouchereLine; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("line after win = %v, want [2 3]", got)
	}

	// A loss appends the staked units: [2,3] -> [2,3,5], bet (2+5)*10.
	bet, state, err = state.Next(loss(50), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 70 {
		t.Fatalf("bet after loss = %d, want 70", bet)
	}
	if got := state.LabouchereLine; len(got) != 3 || got[2] != 5 {
		t.Fatalf("line after loss = %v, want [2 3 5]", got)
	}
}

func TestOscarGrind(t *testing.T) {
	cfg := Config{Type: Oscar, BaseAmount: 10}
	state := mustState(t, cfg, 100000)

	// A single win completes the one-unit cycle and resets to base.
	bet, state, err := state.Next(win(10, 20), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet after cycle win = %d, want 10", bet)
	}
	if state.OscarProfit != 0 {
		t.Fatalf("oscar profit = %d, want 0", state.OscarProfit)
	}

	// Losses hold at base.
	bet, _, err = state.Next(loss(10), cfg, testLimits, 100000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet after loss = %d, want 10", bet)
	}
}

func TestKellyNeedsSamples(t *testing.T) {
	cfg := Config{Type: Kelly, BaseAmount: 10, Target: 50, Condition: "over"}
	state := mustState(t, cfg, 10000)

	// Fewer than five recorded rounds: stays at base.
	bet, state, err := state.Next(win(10, 20), cfg, testLimits, 10000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet with 1 sample = %d, want 10", bet)
	}

	// Run up a strong window; kelly should size above base.
	for i := 0; i < 6; i++ {
		bet, state, err = state.Next(win(bet, bet*2), cfg, testLimits, 10000)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}
	if bet <= 10 {
		t.Fatalf("bet with winning window = %d, want above base", bet)
	}
	if bet > 5000 {
		t.Fatalf("bet = %d, exceeds half-bankroll cap", bet)
	}
}

func TestClampToBalance(t *testing.T) {
	cfg := Config{Type: Martingale, BaseAmount: 10}
	state := mustState(t, cfg, 1000)

	// Doubled bet of 20 clamps to the 15-credit balance.
	bet, _, err := state.Next(loss(10), cfg, testLimits, 15)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 15 {
		t.Fatalf("bet = %d, want clamped 15", bet)
	}
}

func TestInsufficientFunds(t *testing.T) {
	cfg := Config{Type: Flat, BaseAmount: 10}
	state := mustState(t, cfg, 1000)

	limits := Limits{MinBet: 5, MaxBet: 10000, HouseEdge: 0.01}
	_, _, err := state.Next(loss(10), cfg, limits, 3)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Next() error = %v, want %v", err, ErrInsufficientFunds)
	}
}

func TestNilResultKeepsState(t *testing.T) {
	cfg := Config{Type: Martingale, BaseAmount: 10}
	state := mustState(t, cfg, 1000)

	bet, next, err := state.Next(nil, cfg, testLimits, 1000)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if bet != 10 {
		t.Fatalf("bet = %d, want 10", bet)
	}
	if next.ConsecutiveLosses != state.ConsecutiveLosses || next.CurrentBet != state.CurrentBet {
		t.Fatalf("nil result mutated state: %+v vs %+v", next, state)
	}
}
