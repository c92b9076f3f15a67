package fair

import "testing"

func TestFloatIn01Deterministic(t *testing.T) {
	a := FloatIn01("secret", "client", 7)
	b := FloatIn01("secret", "client", 7)
	if a != b {
		t.Fatalf("same inputs gave %v and %v", a, b)
	}
	if a < 0 || a >= 1 {
		t.Fatalf("draw %v out of [0,1)", a)
	}
}

func TestFloatIn01NonceChangesDraw(t *testing.T) {
	a := FloatIn01("secret", "client", 0)
	b := FloatIn01("secret", "client", 1)
	if a == b {
		t.Fatalf("consecutive nonces gave identical draw %v", a)
	}
}

func TestFloatIn01ClientSeedChangesDraw(t *testing.T) {
	if FloatIn01("secret", "alice", 0) == FloatIn01("secret", "bob", 0) {
		t.Fatal("different client seeds gave identical draw")
	}
}

func TestIntInRangeBounds(t *testing.T) {
	for nonce := uint64(0); nonce < 1000; nonce++ {
		v := IntInRange("secret", "client", nonce, 52)
		if v < 0 || v >= 52 {
			t.Fatalf("nonce %d: value %d out of [0,52)", nonce, v)
		}
	}
}

func TestFloatIn01Uniformity(t *testing.T) {
	const samples = 100000
	const buckets = 10
	var counts [buckets]int
	for nonce := uint64(0); nonce < samples; nonce++ {
		f := FloatIn01("uniformity-secret", "client", nonce)
		counts[int(f*buckets)]++
	}
	// Expect 10000 per bucket; 5% tolerance is generous for 100k samples.
	for i, c := range counts {
		if c < 9500 || c > 10500 {
			t.Fatalf("bucket %d has %d draws, outside [9500,10500]", i, c)
		}
	}
}

func TestDrawerOffsets(t *testing.T) {
	draw := Drawer("secret", "client", 40)
	if got, want := draw(2), FloatIn01("secret", "client", 42); got != want {
		t.Fatalf("draw(2) = %v, want %v", got, want)
	}
}

func TestNewServerSeedCommitment(t *testing.T) {
	seed, err := NewServerSeed()
	if err != nil {
		t.Fatalf("NewServerSeed() error = %v", err)
	}
	if len(seed.Secret) != 64 || len(seed.Hash) != 64 {
		t.Fatalf("unexpected lengths: secret %d, hash %d", len(seed.Secret), len(seed.Hash))
	}
	if !VerifyCommitment(seed.Secret, seed.Hash) {
		t.Fatal("fresh seed failed its own commitment")
	}
	if VerifyCommitment(seed.Secret, HashSecret("other")) {
		t.Fatal("commitment verified against wrong hash")
	}
}

func TestSessionAdvance(t *testing.T) {
	s := NewSession("secret", "client")
	if s.Nonce() != 0 {
		t.Fatalf("initial nonce = %d", s.Nonce())
	}
	first := s.Drawer()(0)
	s.Advance(5)
	if s.Nonce() != 5 {
		t.Fatalf("nonce after Advance(5) = %d", s.Nonce())
	}
	if got, want := s.Drawer()(0), FloatIn01("secret", "client", 5); got != want {
		t.Fatalf("drawer after advance = %v, want %v", got, want)
	}
	if first == s.Drawer()(0) {
		t.Fatal("advance did not move the draw window")
	}
}
