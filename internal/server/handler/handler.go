// Package handler 按消息类型分发客户端请求。
package handler

import (
	"errors"
	"log"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/game/room"
	gsession "github.com/palemoky/who-is-undercover/internal/game/session"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/session"
	"github.com/palemoky/who-is-undercover/internal/server/storage"
	"github.com/palemoky/who-is-undercover/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server         types.ServerInterface
	RoomManager    *room.RoomManager
	ChatLimiter    types.ChatLimiter
	SessionManager *session.SessionManager
	RedisStore     *storage.RedisStore
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.RoomManager
	chatLimiter    types.ChatLimiter
	sessionManager *session.SessionManager
	redisStore     *storage.RedisStore
	handlers       map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		chatLimiter:    deps.ChatLimiter,
		sessionManager: deps.SessionManager,
		redisStore:     deps.RedisStore,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间操作
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgLeaveRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },

		// 游戏操作
		protocol.MsgStartGame:    func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgSubmitHint:   h.handleSubmitHint,
		protocol.MsgSubmitVote:   h.handleSubmitVote,
		protocol.MsgForceAdvance: func(c types.ClientInterface, _ *protocol.Message) { h.handleForceAdvance(c) },

		// 信息查询
		protocol.MsgGetRoomList:    func(c types.ClientInterface, _ *protocol.Message) { h.handleGetRoomList(c) },
		protocol.MsgGetOnlineCount: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetOnlineCount(c) },
		protocol.MsgChat:           h.handleChat,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// gameOf 定位客户端所在房间的进行中会话
func (h *Handler) gameOf(client types.ClientInterface) (*gsession.Game, bool) {
	r := h.roomManager.GetRoom(client.GetRoom())
	if r == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return nil, false
	}

	g := r.GetGame()
	if g == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeGameNotStart))
		return nil, false
	}
	return g, true
}

// sendError 把业务错误翻译成协议错误码
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
