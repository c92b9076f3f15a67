package game

import "quant-casino/internal/fair"

var (
	blackjackRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	blackjackSuits = []string{"H", "D", "C", "S"}
)

// BlackjackBet is a single auto-played hand. Both the player and the dealer
// draw to 17, so the round settles without any mid-round decision.
type BlackjackBet struct {
	Amount int64 `json:"amount"`
}

type BlackjackPayload struct {
	PlayerHand  []string `json:"playerHand"`
	DealerHand  []string `json:"dealerHand"`
	PlayerValue int      `json:"playerValue"`
	DealerValue int      `json:"dealerValue"`
}

func (b BlackjackBet) Game() Type        { return TypeBlackjack }
func (b BlackjackBet) DrawWidth() uint64 { return 52 }

func (b BlackjackBet) Validate() error {
	if b.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

func (b BlackjackBet) Settle(draw fair.DrawFunc, limits Limits) (Outcome, error) {
	if err := b.Validate(); err != nil {
		return Outcome{}, err
	}

	deck := shuffledDeck(draw)
	player := []string{deck[0], deck[1]}
	dealer := []string{deck[2]}
	deck = deck[3:]

	// Player draws to 17, then the dealer does the same from what is left.
	player, deck = drawTo17(player, deck)
	dealer, _ = drawTo17(dealer, deck)

	playerVal := HandValue(player)
	dealerVal := HandValue(dealer)
	playerNatural := isNatural(player)
	dealerNatural := isNatural(dealer)

	outcome := Outcome{
		Value: float64(playerVal),
		Payload: BlackjackPayload{
			PlayerHand:  player,
			DealerHand:  dealer,
			PlayerValue: playerVal,
			DealerValue: dealerVal,
		},
	}

	win := func(natural bool) {
		outcome.Win = true
		mult := 2.0
		if natural {
			mult = 2.5
		}
		outcome.Payout = clampPayout(b.Amount, float64(b.Amount)*mult, limits)
	}

	switch {
	case playerVal > 21:
		// Bust forfeits regardless of the dealer.
	case dealerVal > 21:
		win(playerNatural)
	case playerNatural && !dealerNatural:
		win(true)
	case dealerNatural && !playerNatural:
		// Dealer natural beats any non-natural 21.
	case playerVal > dealerVal:
		win(playerNatural)
	case playerVal == dealerVal:
		outcome.Push = true
		outcome.Payout = b.Amount
	}
	return outcome, nil
}

// shuffledDeck runs a Fisher-Yates pass where the swap index for position i
// comes from the draw at offset i, keeping the shuffle replayable.
func shuffledDeck(draw fair.DrawFunc) []string {
	deck := make([]string, 0, 52)
	for _, s := range blackjackSuits {
		for _, r := range blackjackRanks {
			deck = append(deck, r+s)
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := int(draw(uint64(i)) * float64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

func drawTo17(hand, deck []string) ([]string, []string) {
	for HandValue(hand) < 17 && len(deck) > 0 {
		hand = append(hand, deck[0])
		deck = deck[1:]
	}
	return hand, deck
}

// HandValue scores a hand, counting each ace as 11 and downgrading aces one
// at a time while the total busts.
func HandValue(hand []string) int {
	total := 0
	aces := 0
	for _, card := range hand {
		rank := card[:len(card)-1]
		switch rank {
		case "A":
			total += 11
			aces++
		case "K", "Q", "J", "10":
			total += 10
		default:
			total += int(rank[0] - '0')
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func isNatural(hand []string) bool {
	return len(hand) == 2 && HandValue(hand) == 21
}
