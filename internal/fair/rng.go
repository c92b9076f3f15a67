// Package fair implements the commit-reveal randomness scheme every game
// round draws from. A round outcome is a pure function of (server secret,
// client seed, nonce), so once the secret is revealed any third party can
// recompute the round and check it against the published commitment.
package fair

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// DrawFunc yields the float for a draw at the given offset from some base
// nonce. Settlement code that needs k draws calls it with offsets 0..k-1.
type DrawFunc func(offset uint64) float64

// FloatIn01 hashes secret || clientSeed || ":" || nonce and normalizes the
// first four digest bytes to [0, 1).
func FloatIn01(secret, clientSeed string, nonce uint64) float64 {
	h := sha256.New()
	h.Write([]byte(secret))
	h.Write([]byte(clientSeed))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.FormatUint(nonce, 10)))
	digest := h.Sum(nil)
	v := binary.BigEndian.Uint32(digest[:4])
	return float64(v) / 4294967296.0
}

// IntInRange maps a draw to an integer in [0, max).
func IntInRange(secret, clientSeed string, nonce uint64, max int) int {
	return int(FloatIn01(secret, clientSeed, nonce) * float64(max))
}

// Drawer binds a DrawFunc to a base nonce so settlement modules never see
// seed material directly.
func Drawer(secret, clientSeed string, nonce uint64) DrawFunc {
	return func(offset uint64) float64 {
		return FloatIn01(secret, clientSeed, nonce+offset)
	}
}
