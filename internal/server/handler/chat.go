package handler

import (
	"strings"
	"time"

	gsession "github.com/palemoky/who-is-undercover/internal/game/session"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/types"
)

const maxChatLength = 200

// handleChat 处理房间聊天。对局进行中只在讨论投票阶段放开，
// 避免提示阶段通过聊天串词。
func (h *Handler) handleChat(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ChatPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return
	}
	if len(text) > maxChatLength {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "消息太长了"))
		return
	}

	// 聊天限流
	if h.chatLimiter != nil {
		if allowed, reason := h.chatLimiter.AllowChat(client.GetID()); !allowed {
			client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeRateLimit, reason))
			return
		}
	}

	r := h.roomManager.GetRoom(client.GetRoom())
	if r == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}

	// 对局中非讨论阶段禁言
	if g := r.GetGame(); g != nil && g.Status() == gsession.StatusPlaying && g.Phase() != gsession.PhaseDebateVoting {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeWrongPhase, "现在不是讨论时间"))
		return
	}

	r.Broadcast(protocol.MustNewMessage(protocol.MsgChatBroadcast, protocol.ChatBroadcastPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
		Text:       text,
		Timestamp:  time.Now().Unix(),
	}))
}
