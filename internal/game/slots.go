package game

import "quant-casino/internal/fair"

// Symbol ids: 0 wild, 1 seven, 2 bar, 3 bell, 4 cherry, 5 lemon.
const (
	slotsWild     = 0
	slotsReels    = 5
	slotsRows     = 3
	stripLength   = 32
	slotsPaylines = 10
)

var slotsStrips = [slotsReels][stripLength]int{
	{1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4},
	{2, 5, 1, 4, 3, 2, 5, 1, 4, 3, 2, 5, 1, 4, 3, 2, 5, 1, 4, 3, 2, 5, 1, 4, 3, 2, 5, 1, 4, 3, 2, 5},
	{3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1},
	{4, 2, 5, 1, 3, 4, 2, 5, 1, 3, 4, 2, 5, 1, 3, 4, 2, 5, 1, 3, 4, 2, 5, 1, 3, 4, 2, 5, 1, 3, 4, 2},
	{5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3, 1, 4, 2, 5, 3},
}

// Each payline is the row index (0 top, 1 mid, 2 bottom) per reel.
var slotsLines = [slotsPaylines][slotsReels]int{
	{1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0},
	{2, 2, 2, 2, 2},
	{0, 1, 2, 1, 0},
	{2, 1, 0, 1, 2},
	{1, 0, 0, 0, 1},
	{1, 2, 2, 2, 1},
	{0, 1, 0, 1, 0},
	{2, 1, 2, 1, 2},
	{1, 1, 0, 1, 1},
}

// Paytable: symbol id, then run length 3..5.
var slotsPaytable = map[int][3]float64{
	1: {5, 20, 100},
	2: {3, 15, 50},
	3: {2, 10, 25},
	4: {2, 5, 15},
	5: {1, 3, 10},
}

// SlotsBet spins five reels with one stop draw per reel.
type SlotsBet struct {
	Amount int64 `json:"amount"`
}

type SlotsLineWin struct {
	LineIndex int   `json:"lineIndex"`
	SymbolID  int   `json:"symbolId"`
	Count     int   `json:"count"`
	Payout    int64 `json:"payout"`
}

type SlotsPayload struct {
	Reels [][]int        `json:"reels"`
	Wins  []SlotsLineWin `json:"wins"`
}

func (b SlotsBet) Game() Type        { return TypeSlots }
func (b SlotsBet) DrawWidth() uint64 { return slotsReels }

func (b SlotsBet) Validate() error {
	if b.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

func (b SlotsBet) Settle(draw fair.DrawFunc, limits Limits) (Outcome, error) {
	if err := b.Validate(); err != nil {
		return Outcome{}, err
	}

	grid := make([][]int, slotsReels)
	for reel := 0; reel < slotsReels; reel++ {
		stop := int(draw(uint64(reel)) * stripLength)
		rows := make([]int, slotsRows)
		for row := 0; row < slotsRows; row++ {
			rows[row] = slotsStrips[reel][(stop+row)%stripLength]
		}
		grid[reel] = rows
	}

	wins := []SlotsLineWin{}
	var total int64
	for li, line := range slotsLines {
		symbol, count := evalLine(grid, line)
		if count < 3 {
			continue
		}
		table, ok := slotsPaytable[symbol]
		if !ok {
			continue
		}
		payout := clampPayout(b.Amount, float64(b.Amount)*table[count-3], limits)
		wins = append(wins, SlotsLineWin{LineIndex: li, SymbolID: symbol, Count: count, Payout: payout})
		total += payout
	}
	if ceiling := clampPayout(b.Amount, float64(total), limits); ceiling < total {
		total = ceiling
	}

	return Outcome{
		Value:   float64(total),
		Win:     total > 0,
		Payout:  total,
		Payload: SlotsPayload{Reels: grid, Wins: wins},
	}, nil
}

// evalLine walks one payline left to right. The first non-wild symbol fixes
// the match; wilds extend the run. An all-wild line pays as sevens.
func evalLine(grid [][]int, line [slotsReels]int) (symbol, count int) {
	symbol = -1
	for reel := 0; reel < slotsReels; reel++ {
		if s := grid[reel][line[reel]]; s != slotsWild {
			symbol = s
			break
		}
	}
	if symbol == -1 {
		symbol = 1
	}
	for reel := 0; reel < slotsReels; reel++ {
		s := grid[reel][line[reel]]
		if s != symbol && s != slotsWild {
			break
		}
		count++
	}
	return symbol, count
}
