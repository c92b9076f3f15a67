package game

import "quant-casino/internal/fair"

// Verification is the audit payload recorded with every round. ServerSeed
// stays empty until the seed is retired and revealed.
type Verification struct {
	ServerSeedHash string `json:"serverSeedHash"`
	ClientSeed     string `json:"clientSeed"`
	Nonce          uint64 `json:"nonce"`
	ServerSeed     string `json:"serverSeed,omitempty"`
}

// Replay recomputes a round from a revealed secret. The result is
// bit-identical to the original settlement for the same inputs.
func Replay(bet Bet, secret, clientSeed string, nonce uint64, limits Limits) (Outcome, error) {
	return bet.Settle(fair.Drawer(secret, clientSeed, nonce), limits)
}

// Verify replays a round and checks both the seed commitment and the
// reported outcome.
func Verify(bet Bet, secret, seedHash, clientSeed string, nonce uint64, limits Limits, reported Outcome) (bool, error) {
	if !fair.VerifyCommitment(secret, seedHash) {
		return false, nil
	}
	replayed, err := Replay(bet, secret, clientSeed, nonce, limits)
	if err != nil {
		return false, err
	}
	return replayed.Value == reported.Value &&
		replayed.Win == reported.Win &&
		replayed.Push == reported.Push &&
		replayed.Payout == reported.Payout, nil
}
