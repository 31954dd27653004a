package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/who-is-undercover/internal/config"
	r "github.com/palemoky/who-is-undercover/internal/game/room"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/testutil"
)

func newChatHandler(t *testing.T, limiter *testutil.MockChatLimiter) (*Handler, *r.RoomManager) {
	t.Helper()

	mockServer := new(testutil.MockServer)
	mockServer.On("IsMaintenanceMode").Return(false).Maybe()

	rm := r.NewRoomManager(nil, &config.Default().Game)

	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		RoomManager: rm,
		ChatLimiter: limiter,
	})
	return h, rm
}

func TestHandler_HandleChat_RateLimited(t *testing.T) {
	limiter := new(testutil.MockChatLimiter)
	h, _ := newChatHandler(t, limiter)

	client := &testutil.SimpleClient{ID: "p1", Name: "甲"}
	limiter.On("AllowChat", "p1").Return(false, "说太快了")

	h.handleChat(client, protocol.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "刷屏"}))

	errMsg := lastOfType(client, protocol.MsgError)
	require.NotNil(t, errMsg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRateLimit, payload.Code)
	assert.Equal(t, "说太快了", payload.Message)
	limiter.AssertExpectations(t)
}

func TestHandler_HandleChat_NotInRoom(t *testing.T) {
	limiter := new(testutil.MockChatLimiter)
	h, _ := newChatHandler(t, limiter)

	client := &testutil.SimpleClient{ID: "p1", Name: "甲"}
	limiter.On("AllowChat", "p1").Return(true, "")

	h.handleChat(client, protocol.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "有人吗"}))

	errMsg := lastOfType(client, protocol.MsgError)
	require.NotNil(t, errMsg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_HandleChat_RoomBroadcast(t *testing.T) {
	limiter := new(testutil.MockChatLimiter)
	h, rm := newChatHandler(t, limiter)

	owner := &testutil.SimpleClient{ID: "p1", Name: "甲"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)

	mate := &testutil.SimpleClient{ID: "p2", Name: "乙"}
	_, err = rm.JoinRoom(mate, room.Code)
	require.NoError(t, err)

	limiter.On("AllowChat", "p1").Return(true, "")

	h.handleChat(owner, protocol.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "  大家好  "}))

	// 发送者和同伴都收到广播，文本去掉首尾空白
	for _, c := range []*testutil.SimpleClient{owner, mate} {
		broadcast := lastOfType(c, protocol.MsgChatBroadcast)
		require.NotNil(t, broadcast, "玩家 %s 应收到聊天广播", c.ID)
		payload, err := protocol.ParsePayload[protocol.ChatBroadcastPayload](broadcast)
		require.NoError(t, err)
		assert.Equal(t, "p1", payload.PlayerID)
		assert.Equal(t, "大家好", payload.Text)
		assert.Positive(t, payload.Timestamp)
	}
}

func TestHandler_HandleChat_BlockedOutsideDebate(t *testing.T) {
	limiter := new(testutil.MockChatLimiter)
	h, rm := newChatHandler(t, limiter)

	owner := &testutil.SimpleClient{ID: "p1", Name: "甲"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)
	for _, c := range []*testutil.SimpleClient{
		{ID: "p2", Name: "乙"},
		{ID: "p3", Name: "丙"},
		{ID: "p4", Name: "丁"},
	} {
		_, err = rm.JoinRoom(c, room.Code)
		require.NoError(t, err)
	}

	_, err = rm.StartGame(owner)
	require.NoError(t, err)

	// 开局后处于看词阶段，聊天被拦下
	limiter.On("AllowChat", "p1").Return(true, "")
	h.handleChat(owner, protocol.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "我的词是什么来着"}))

	errMsg := lastOfType(owner, protocol.MsgError)
	require.NotNil(t, errMsg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeWrongPhase, payload.Code)
	assert.Nil(t, lastOfType(owner, protocol.MsgChatBroadcast))
}

func TestHandler_HandleChat_EmptyIgnored(t *testing.T) {
	limiter := new(testutil.MockChatLimiter)
	h, _ := newChatHandler(t, limiter)

	client := &testutil.SimpleClient{ID: "p1", Name: "甲"}
	h.handleChat(client, protocol.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "   "}))

	assert.Empty(t, client.Received())
	limiter.AssertNotCalled(t, "AllowChat", "p1")
}
