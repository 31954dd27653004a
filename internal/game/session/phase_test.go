package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase_CanTransitionTo(t *testing.T) {
	t.Parallel()

	// 正常推进路径
	assert.True(t, PhaseLobby.CanTransitionTo(PhaseWhisper))
	assert.True(t, PhaseWhisper.CanTransitionTo(PhaseHintDrop))
	assert.True(t, PhaseHintDrop.CanTransitionTo(PhaseDebateVoting))
	assert.True(t, PhaseDebateVoting.CanTransitionTo(PhaseReveal))
	assert.True(t, PhaseReveal.CanTransitionTo(PhaseHintDrop))
	assert.True(t, PhaseReveal.CanTransitionTo(PhasePostRound))

	// 不存在任何回退或跳跃
	assert.False(t, PhaseHintDrop.CanTransitionTo(PhaseWhisper))
	assert.False(t, PhaseDebateVoting.CanTransitionTo(PhaseHintDrop))
	assert.False(t, PhaseWhisper.CanTransitionTo(PhaseDebateVoting))
	assert.False(t, PhaseLobby.CanTransitionTo(PhaseHintDrop))

	// 终局是吸收态
	assert.False(t, PhasePostRound.CanTransitionTo(PhaseLobby))
	assert.False(t, PhasePostRound.CanTransitionTo(PhaseWhisper))
}
