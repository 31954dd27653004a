package words

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestSelectPair_ReturnsDistinctWords(t *testing.T) {
	t.Parallel()

	rng := newTestRand(1)
	for range 50 {
		pair, err := SelectPair("classic", "normal", rng)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Majority)
		assert.NotEmpty(t, pair.Undercover)
		assert.NotEqual(t, pair.Majority, pair.Undercover)
	}
}

func TestSelectPair_UnknownPack(t *testing.T) {
	t.Parallel()

	_, err := SelectPair("nonexistent", "normal", newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrNoPairAvailable)

	_, err = SelectPair("classic", "nightmare", newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrNoPairAvailable)
}

func TestSelectPair_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	p1, err := SelectPair("classic", "hard", newTestRand(42))
	require.NoError(t, err)
	p2, err := SelectPair("classic", "hard", newTestRand(42))
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestSelectPair_SwapsSides(t *testing.T) {
	t.Parallel()

	// 同一组词两侧都应出现过，否则词库顺序会泄露身份
	rng := newTestRand(7)
	majorityWords := make(map[string]bool)
	for range 200 {
		pair, err := SelectPair("idiom", "hard", rng)
		require.NoError(t, err)
		majorityWords[pair.Majority] = true
	}
	assert.Greater(t, len(majorityWords), 3)
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Packs(), "classic")
	assert.Contains(t, Difficulties("classic"), "normal")
	assert.True(t, HasPair("classic", "easy"))
	assert.False(t, HasPair("classic", "nightmare"))
	assert.Empty(t, Difficulties("nonexistent"))
}
