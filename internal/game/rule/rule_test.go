package rule

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/game/words"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

var testPair = words.Pair{Majority: "可乐", Undercover: "雪碧"}

func TestAssignRoles_ExactlyOneUndercover(t *testing.T) {
	t.Parallel()

	ids := []string{"p1", "p2", "p3", "p4"}
	assignments, err := AssignRoles(ids, testPair, newTestRand(1))
	require.NoError(t, err)
	require.Len(t, assignments, 4)

	undercoverCount := 0
	for _, a := range assignments {
		switch a.Role {
		case RoleUndercover:
			undercoverCount++
			assert.Equal(t, "雪碧", a.Word)
		case RoleMajority:
			assert.Equal(t, "可乐", a.Word)
		}
	}
	assert.Equal(t, 1, undercoverCount)
}

func TestAssignRoles_InsufficientPlayers(t *testing.T) {
	t.Parallel()

	_, err := AssignRoles([]string{"p1"}, testPair, newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPlayers)

	_, err = AssignRoles(nil, testPair, newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPlayers)
}

func TestAssignRoles_UndercoverVaries(t *testing.T) {
	t.Parallel()

	// 卧底应能落到任意位置
	ids := []string{"p1", "p2", "p3"}
	seen := make(map[string]bool)
	for seed := range uint64(100) {
		assignments, err := AssignRoles(ids, testPair, newTestRand(seed))
		require.NoError(t, err)
		for id, a := range assignments {
			if a.Role == RoleUndercover {
				seen[id] = true
			}
		}
	}
	assert.Len(t, seen, 3)
}

func TestTally_SimpleMajority(t *testing.T) {
	t.Parallel()

	votes := map[string]string{
		"p1": "p4",
		"p2": "p4",
		"p3": "p4",
		"p4": "p1",
	}

	result, err := Tally(votes, []string{"p1", "p2", "p3", "p4"}, newTestRand(1))
	require.NoError(t, err)

	assert.Equal(t, "p4", result.EliminatedID)
	assert.False(t, result.IsTie)
	assert.Equal(t, map[string]int{"p4": 3, "p1": 1}, result.Counts)
}

func TestTally_TieBreaksRandomly(t *testing.T) {
	t.Parallel()

	votes := map[string]string{
		"p1": "p2",
		"p2": "p1",
		"p3": "p2",
		"p4": "p1",
	}

	eliminated := make(map[string]bool)
	for seed := range uint64(50) {
		result, err := Tally(votes, []string{"p1", "p2", "p3", "p4"}, newTestRand(seed))
		require.NoError(t, err)
		assert.True(t, result.IsTie)
		assert.Contains(t, []string{"p1", "p2"}, result.EliminatedID)
		eliminated[result.EliminatedID] = true
	}

	// 两个并列候选都应被抽中过
	assert.Len(t, eliminated, 2)
}

func TestTally_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	votes := map[string]string{
		"p1": "p2",
		"p2": "p3",
		"p3": "p2",
		"p4": "p3",
	}

	r1, err := Tally(votes, []string{"p1", "p2", "p3", "p4"}, newTestRand(99))
	require.NoError(t, err)
	r2, err := Tally(votes, []string{"p1", "p2", "p3", "p4"}, newTestRand(99))
	require.NoError(t, err)

	assert.Equal(t, r1.EliminatedID, r2.EliminatedID)
}

func TestTally_NoVotes(t *testing.T) {
	t.Parallel()

	_, err := Tally(nil, []string{"p1", "p2"}, newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrNoVotes)
}

func TestTally_RejectsBallotsOutsideAliveList(t *testing.T) {
	t.Parallel()

	// 已淘汰玩家投出的票
	_, err := Tally(map[string]string{
		"p1": "p2",
		"p3": "p2", // p3 已不在存活名单
	}, []string{"p1", "p2"}, newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrGhostBallot)

	// 投给已淘汰玩家的票
	_, err = Tally(map[string]string{
		"p1": "p3",
		"p2": "p1",
	}, []string{"p1", "p2"}, newTestRand(1))
	assert.ErrorIs(t, err, apperrors.ErrGhostBallot)
}

func TestEvaluateWin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		alive        []string
		undercoverID string
		wantOver     bool
		wantWinner   Winner
	}{
		{
			name:         "undercover eliminated",
			alive:        []string{"p1", "p2", "p3"},
			undercoverID: "p4",
			wantOver:     true,
			wantWinner:   WinnerMajority,
		},
		{
			name:         "two alive with undercover",
			alive:        []string{"p1", "p4"},
			undercoverID: "p4",
			wantOver:     true,
			wantWinner:   WinnerUndercover,
		},
		{
			name:         "game continues",
			alive:        []string{"p1", "p2", "p4"},
			undercoverID: "p4",
			wantOver:     false,
			wantWinner:   WinnerNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			over, winner := EvaluateWin(tt.alive, tt.undercoverID)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantWinner, winner)
		})
	}
}
