package handler

import (
	"log"

	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/types"
)

// handleStartGame 房主开局
func (h *Handler) handleStartGame(client types.ClientInterface) {
	// 维护模式下不再开新对局
	if h.server.IsMaintenanceMode() {
		client.SendMessage(protocol.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停开始新对局"))
		return
	}

	if _, err := h.roomManager.StartGame(client); err != nil {
		h.sendError(client, err)
	}
}

// handleSubmitHint 提交线索
func (h *Handler) handleSubmitHint(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SubmitHintPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, ok := h.gameOf(client)
	if !ok {
		return
	}

	if err := g.SubmitHint(client.GetID(), payload.Text); err != nil {
		h.sendError(client, err)
	}
}

// handleSubmitVote 投票
func (h *Handler) handleSubmitVote(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SubmitVotePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, ok := h.gameOf(client)
	if !ok {
		return
	}

	if err := g.SubmitVote(client.GetID(), payload.TargetID); err != nil {
		h.sendError(client, err)
	}
}

// handleForceAdvance 房主强制推进当前阶段。
// 条件不满足时的 NoOp 不算错误，只记日志。
func (h *Handler) handleForceAdvance(client types.ClientInterface) {
	g, ok := h.gameOf(client)
	if !ok {
		return
	}

	phase, moved, err := g.ForceAdvance(client.GetID())
	if err != nil {
		h.sendError(client, err)
		return
	}
	if !moved {
		log.Printf("⏭️ 房主 %s 的强制推进未生效 (阶段 %s)", client.GetName(), phase)
	}
}
