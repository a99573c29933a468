package importer

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/noteweave/noteweave/internal/slug"
)

// idGenerator produces a candidate id for a source file. Random and hash
// strategies both truncate to nbytes worth of hex digits to match the
// original importer's "12 hex chars by default" sizing.
type idGenerator interface {
	Generate(path string, content []byte) string
}

func newIDGenerator(strategy IDStrategy, nbytes int) idGenerator {
	if nbytes <= 0 {
		nbytes = 6
	}
	switch strategy {
	case StrategyHash:
		return hashID{nbytes: nbytes}
	case StrategySlug:
		return slugID{}
	default:
		return randomID{nbytes: nbytes}
	}
}

// randomID generates a fresh random id per call, backed by
// github.com/google/uuid for its CSPRNG rather than hand-rolling one.
type randomID struct{ nbytes int }

func (g randomID) Generate(string, []byte) string {
	id := uuid.New()
	hexStr := hex.EncodeToString(id[:])
	if g.nbytes*2 < len(hexStr) {
		return hexStr[:g.nbytes*2]
	}
	return hexStr
}

// hashID derives the id deterministically from file content, so
// re-importing the same file twice yields the same id.
type hashID struct{ nbytes int }

func (g hashID) Generate(_ string, content []byte) string {
	sum := sha256.Sum256(content)
	hexStr := hex.EncodeToString(sum[:])
	if g.nbytes*2 < len(hexStr) {
		return hexStr[:g.nbytes*2]
	}
	return hexStr
}

// slugID derives the id by slugifying the source path it is given
// (BuildPlan passes the full file path); the note's title is not used.
// A path that slugifies to empty yields "untitled".
type slugID struct{}

func (slugID) Generate(path string, _ []byte) string {
	s := slug.Slugify(path)
	if s == "" {
		return "untitled"
	}
	return s
}
