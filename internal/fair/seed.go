package fair

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// ServerSeed is one commit-reveal secret. Hash is published before the seed
// settles any round; Secret stays private until the seed is retired.
type ServerSeed struct {
	Secret string
	Hash   string
}

// NewServerSeed draws a fresh 32-byte secret and its commitment hash.
func NewServerSeed() (ServerSeed, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ServerSeed{}, err
	}
	secret := hex.EncodeToString(buf)
	return ServerSeed{Secret: secret, Hash: HashSecret(secret)}, nil
}

// HashSecret computes the commitment published for a secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether a revealed secret matches the hash that
// was published before play.
func VerifyCommitment(secret, hash string) bool {
	want := HashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(want), []byte(hash)) == 1
}
