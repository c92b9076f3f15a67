package fair

// Session tracks the monotonic nonce for a sequence of rounds played against
// one (secret, clientSeed) pair. Each round consumes a fixed number of
// nonces equal to the game's draw width, so replays line up exactly.
type Session struct {
	secret     string
	clientSeed string
	nonce      uint64
}

func NewSession(secret, clientSeed string) *Session {
	return &Session{secret: secret, clientSeed: clientSeed}
}

// Nonce returns the base nonce the next round will draw from.
func (s *Session) Nonce() uint64 {
	return s.nonce
}

// Drawer returns the draw function anchored at the current nonce.
func (s *Session) Drawer() DrawFunc {
	return Drawer(s.secret, s.clientSeed, s.nonce)
}

// Advance consumes width nonces after a round settles.
func (s *Session) Advance(width uint64) {
	s.nonce += width
}
