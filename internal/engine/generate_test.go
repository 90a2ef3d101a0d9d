package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(n int) []PlayerID {
	ids := make([]PlayerID, n)
	for i := range ids {
		ids[i] = PlayerID(i + 1)
	}
	return ids
}

func TestGenerate_Properties(t *testing.T) {
	for n := 1; n <= len(Catalog)/2; n++ {
		players := roster(n)
		spectrums, err := Generate(players, rand.New(rand.NewSource(int64(n))))
		require.NoError(t, err)
		require.Len(t, spectrums, 2*n)

		authored := map[PlayerID]int{}
		seenPairs := map[[2]string]bool{}
		for i, sp := range spectrums {
			assert.Equal(t, i+1, sp.ID)
			assert.GreaterOrEqual(t, sp.Target, 0.0)
			assert.Less(t, sp.Target, 1.0)
			assert.Nil(t, sp.Submitted)
			assert.Empty(t, sp.Prompt)

			pair := [2]string{sp.Left, sp.Right}
			assert.Contains(t, Catalog, pair)
			assert.False(t, seenPairs[pair], "label pair %v drawn twice", pair)
			seenPairs[pair] = true

			authored[sp.Author]++
		}
		for _, id := range players {
			assert.Equal(t, 2, authored[id], "player %d should author exactly two spectrums", id)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(roster(4), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := Generate(roster(4), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, *a[i], *b[i])
	}
}

func TestGenerate_EmptyRoster(t *testing.T) {
	_, err := Generate(nil, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestGenerate_CatalogExhausted(t *testing.T) {
	_, err := Generate(roster(len(Catalog)/2+1), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrCatalogExhausted)
}
