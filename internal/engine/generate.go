package engine

import (
	"errors"
	"math/rand"
)

var ErrEmptyRoster = errors.New("cannot generate spectrums for an empty roster")
var ErrCatalogExhausted = errors.New("not enough label pairs for this many players")

// Catalog is the fixed set of label pairs spectrums are drawn from. Its size
// caps the room at len(Catalog)/2 players, since every player authors two.
var Catalog = [][2]string{
	{"cold", "hot"},
	{"poor", "rich"},
	{"quiet", "loud"},
	{"slow", "fast"},
	{"small", "big"},
	{"sad", "happy"},
	{"dark", "light"},
	{"old", "new"},
	{"weak", "strong"},
	{"narrow", "wide"},
	{"boring", "exciting"},
	{"empty", "full"},
}

// Generate builds one game's worth of spectrums for the given roster: the
// roster doubled and shuffled decides authorship and round order, each
// position gets a distinct label pair and an independent uniform target in
// [0,1). The returned order is the round order and is never reordered later.
// rng is injected so generation is deterministic under test.
func Generate(roster []PlayerID, rng *rand.Rand) ([]*Spectrum, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	authors := make([]PlayerID, 0, 2*len(roster))
	authors = append(authors, roster...)
	authors = append(authors, roster...)
	rng.Shuffle(len(authors), func(i, j int) {
		authors[i], authors[j] = authors[j], authors[i]
	})

	if len(authors) > len(Catalog) {
		return nil, ErrCatalogExhausted
	}
	picks := rng.Perm(len(Catalog))[:len(authors)]

	spectrums := make([]*Spectrum, len(authors))
	for i, author := range authors {
		pair := Catalog[picks[i]]
		spectrums[i] = &Spectrum{
			ID:     i + 1,
			Left:   pair[0],
			Right:  pair[1],
			Target: rng.Float64(),
			Author: author,
		}
	}
	return spectrums, nil
}
