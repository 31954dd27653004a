package handler

import (
	"log"
	"time"

	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/session"
	"github.com/palemoky/who-is-undercover/internal/types"
)

// identitySwapper 重连时接管旧身份的客户端实现
type identitySwapper interface {
	AssumeIdentity(id, name string)
}

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连：校验令牌，让新连接接管旧玩家身份，
// 并恢复房间与对局状态。
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 验证重连令牌
	if !h.sessionManager.CanReconnect(payload.Token, payload.PlayerID) {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return
	}

	playerSession := h.sessionManager.GetSession(payload.PlayerID)
	if playerSession == nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "会话不存在"))
		return
	}

	// 新连接接管旧身份：注销临时 ID，改写身份后以旧 ID 重新注册。
	// 同一身份的旧连接（顶号场景）被挤下线。
	tempID := client.GetID()
	if old := h.server.GetClientByID(playerSession.PlayerID); old != nil {
		old.Close()
	}
	h.server.UnregisterClient(tempID)
	h.sessionManager.DeleteSession(tempID)
	if swapper, ok := client.(identitySwapper); ok {
		swapper.AssumeIdentity(playerSession.PlayerID, playerSession.PlayerName)
	}
	h.server.RegisterClient(playerSession.PlayerID, client)

	// 标记会话上线
	h.sessionManager.SetOnline(playerSession.PlayerID)

	// 构建重连响应
	reconnectPayload := protocol.ReconnectedPayload{
		PlayerID:   playerSession.PlayerID,
		PlayerName: playerSession.PlayerName,
	}

	// 如果在房间中，尝试恢复房间信息
	if playerSession.RoomCode != "" {
		h.tryRestoreRoomState(client, playerSession, &reconnectPayload)
	}

	// 发送重连成功消息
	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, reconnectPayload))

	log.Printf("🔄 玩家 %s (%s) 重连成功", playerSession.PlayerName, playerSession.PlayerID)
}

// tryRestoreRoomState 尝试恢复房间与对局状态
func (h *Handler) tryRestoreRoomState(client types.ClientInterface, playerSession *session.PlayerSession, payload *protocol.ReconnectedPayload) {
	r, err := h.roomManager.ReconnectPlayer(playerSession.RoomCode, client)
	if err != nil {
		log.Printf("重连到房间失败: %v", err)
		return
	}

	payload.RoomCode = playerSession.RoomCode

	// 如果游戏正在进行，恢复对局状态（自己的词 + 本轮线索）
	if g := r.GetGame(); g != nil {
		payload.GameState = g.StateFor(playerSession.PlayerID)
	}
}
