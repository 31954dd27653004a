package apperrors

import (
	"errors"

	"github.com/palemoky/who-is-undercover/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义校验错误：由客户端的非法操作触发，拒绝后会话状态不变
var (
	ErrRoomNotFound        = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull            = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom           = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted         = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrGameNotStart        = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotOwner            = &GameError{Code: protocol.ErrCodeNotOwner, Message: "只有房主可以执行该操作"}
	ErrNotYourTurn         = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrWrongPhase          = &GameError{Code: protocol.ErrCodeWrongPhase, Message: "当前阶段不能执行该操作"}
	ErrAlreadySubmitted    = &GameError{Code: protocol.ErrCodeAlreadySubmitted, Message: "您本轮已经提交过线索"}
	ErrAlreadyVoted        = &GameError{Code: protocol.ErrCodeAlreadyVoted, Message: "您本轮已经投过票"}
	ErrInvalidTarget       = &GameError{Code: protocol.ErrCodeInvalidTarget, Message: "无效的投票目标"}
	ErrInsufficientPlayers = &GameError{Code: protocol.ErrCodeInsufficientPlayers, Message: "玩家人数不足"}
	ErrNoRemainingPlayers  = &GameError{Code: protocol.ErrCodeNoRemainingPlayers, Message: "本轮所有玩家都已发言"}
	ErrNoPairAvailable     = &GameError{Code: protocol.ErrCodeNoPairAvailable, Message: "该词库/难度下没有可用词组"}
)

// 致命错误：只会由服务端调用顺序错误触发，出现即说明状态机不变量被破坏。
// 不重试，会话被标记为不可用，只向日志暴露。
var (
	ErrRolesAssigned  = errors.New("角色已分配过，禁止重复分配")
	ErrNoVotes        = errors.New("计票时没有任何选票")
	ErrGhostBallot    = errors.New("计票时发现非存活玩家的选票")
	ErrSessionAborted = errors.New("会话已因内部错误中止")
)
