package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_CreateAndLookup(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil)

	s := sm.CreateSession("p1", "嘴硬的卧底42")
	require.NotNil(t, s)
	assert.Len(t, s.ReconnectToken, 64)
	assert.True(t, s.IsOnline)

	assert.Same(t, s, sm.GetSession("p1"))
	assert.Same(t, s, sm.GetSessionByToken(s.ReconnectToken))
	assert.Nil(t, sm.GetSessionByToken("bogus"))
}

func TestSessionManager_OfflineOnline(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil)
	s := sm.CreateSession("p1", "A")

	sm.SetOffline("p1")
	assert.False(t, sm.IsOnline("p1"))
	assert.False(t, s.DisconnectedAt.IsZero())

	sm.SetOnline("p1")
	assert.True(t, sm.IsOnline("p1"))
	assert.True(t, s.DisconnectedAt.IsZero())
}

func TestSessionManager_CanReconnect(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil)
	s := sm.CreateSession("p1", "A")

	// 在线状态也允许令牌校验通过（顶号重连）
	assert.True(t, sm.CanReconnect(s.ReconnectToken, "p1"))

	// 令牌与玩家不匹配
	assert.False(t, sm.CanReconnect(s.ReconnectToken, "p2"))
	assert.False(t, sm.CanReconnect("bogus", "p1"))

	// 离线太久不允许重连
	sm.SetOffline("p1")
	s.mu.Lock()
	s.DisconnectedAt = time.Now().Add(-3 * time.Minute)
	s.mu.Unlock()
	assert.False(t, sm.CanReconnect(s.ReconnectToken, "p1"))
}

func TestSessionManager_DeleteSession(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil)
	s := sm.CreateSession("p1", "A")

	sm.DeleteSession("p1")
	assert.Nil(t, sm.GetSession("p1"))
	assert.Nil(t, sm.GetSessionByToken(s.ReconnectToken))
}

func TestSessionManager_Cleanup(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil)
	s := sm.CreateSession("p1", "A")
	sm.CreateSession("p2", "B")

	// p1 离线超过过期时间
	sm.SetOffline("p1")
	s.mu.Lock()
	s.DisconnectedAt = time.Now().Add(-11 * time.Minute)
	s.mu.Unlock()

	sm.cleanup()

	assert.Nil(t, sm.GetSession("p1"))
	assert.NotNil(t, sm.GetSession("p2"))
}
