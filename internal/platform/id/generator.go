package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewDeterministic derives a stable, replay-safe id from material and seed.
// Unlike RandomGenerator it never touches host entropy, so the same
// (material, seed) pair always yields the same id — used anywhere an id
// must be reproducible across a fresh simulation run (fixture generation,
// synthetic seasons).
func NewDeterministic(material string, seed uint64) string {
	h := xxhash.New()
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], seed)
	_, _ = h.Write(seedBuf[:])
	_, _ = h.Write([]byte(material))
	return hex.EncodeToString(h.Sum(nil))
}
