package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004 // 游戏已开始
	ErrCodeNotOwner     = 2005 // 不是房主

	ErrCodeGameNotStart        = 3001
	ErrCodeNotYourTurn         = 3002
	ErrCodeWrongPhase          = 3003 // 当前阶段不允许该操作
	ErrCodeAlreadySubmitted    = 3004 // 本轮已提交过线索
	ErrCodeAlreadyVoted        = 3005 // 本轮已投过票
	ErrCodeInvalidTarget       = 3006 // 投票目标无效
	ErrCodeInsufficientPlayers = 3007 // 人数不足
	ErrCodeNoRemainingPlayers  = 3008 // 本轮所有人都已发言
	ErrCodeNoPairAvailable     = 3009 // 词库中没有可用词组

	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:             "未知错误",
	ErrCodeInvalidMsg:          "无效的消息格式",
	ErrCodeRateLimit:           "请求过于频繁",
	ErrCodeRoomNotFound:        "房间不存在",
	ErrCodeRoomFull:            "房间已满",
	ErrCodeNotInRoom:           "您不在房间中",
	ErrCodeGameStarted:         "游戏已开始",
	ErrCodeNotOwner:            "只有房主可以执行该操作",
	ErrCodeGameNotStart:        "游戏尚未开始",
	ErrCodeNotYourTurn:         "还没轮到您",
	ErrCodeWrongPhase:          "当前阶段不能执行该操作",
	ErrCodeAlreadySubmitted:    "您本轮已经提交过线索",
	ErrCodeAlreadyVoted:        "您本轮已经投过票",
	ErrCodeInvalidTarget:       "无效的投票目标",
	ErrCodeInsufficientPlayers: "玩家人数不足",
	ErrCodeNoRemainingPlayers:  "本轮所有玩家都已发言",
	ErrCodeNoPairAvailable:     "该词库/难度下没有可用词组",
	ErrCodeServerMaintenance:   "服务器维护中",
}
