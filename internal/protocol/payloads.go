package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Pack       string `json:"pack,omitempty"`       // 词库，空则使用默认
	Difficulty string `json:"difficulty,omitempty"` // 难度，空则使用默认
	TurnMode   string `json:"turn_mode,omitempty"`  // sequential / random
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// SubmitHintPayload 提交线索请求
type SubmitHintPayload struct {
	Text string `json:"text"` // 线索文本，口头发言时为空
}

// SubmitVotePayload 投票请求
type SubmitVotePayload struct {
	TargetID string `json:"target_id"` // 被投玩家 ID
}

// ChatPayload 聊天请求
type ChatPayload struct {
	Text string `json:"text"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	RoomCode   string        `json:"room_code,omitempty"`  // 如果在房间中
	GameState  *GameStateDTO `json:"game_state,omitempty"` // 如果在游戏中
}

// PlayerInfo 玩家公开信息
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Alive bool   `json:"alive"`
}

// HintInfo 一条已公开的线索
type HintInfo struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Round      int    `json:"round"`
	Text       string `json:"text"`  // 口头发言时为空
	Order      int    `json:"order"` // 本轮发言顺位，从 1 开始
}

// GameStateDTO 游戏状态数据传输对象（用于重连恢复）
type GameStateDTO struct {
	Phase       string       `json:"phase"`
	Round       int          `json:"round"`
	Players     []PlayerInfo `json:"players"`
	Word        string       `json:"word,omitempty"`         // 自己的秘密词
	Hints       []HintInfo   `json:"hints,omitempty"`        // 本轮已公开的线索
	CurrentTurn string       `json:"current_turn,omitempty"` // 当前发言玩家 ID
	VotedCount  int          `json:"voted_count"`            // 本轮已投票人数
	Deadline    int64        `json:"deadline,omitempty"`     // 当前阶段截止时间戳（秒），无计时器时为 0
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Timeout    int    `json:"timeout"` // 等待重连超时（秒）
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// OnlineCountPayload 在线人数更新
type OnlineCountPayload struct {
	Count int `json:"count"` // 当前在线人数
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string     `json:"room_code"`
	Player   PlayerInfo `json:"player"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"` // 房间内所有玩家
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// GameStartPayload 游戏开始通知
type GameStartPayload struct {
	Round   int          `json:"round"`
	Players []PlayerInfo `json:"players"`
}

// WordAssignedPayload 秘密词下发（仅发给本人，不包含身份）
type WordAssignedPayload struct {
	Word string `json:"word"`
}

// PhaseChangedPayload 阶段切换通知
type PhaseChangedPayload struct {
	Phase    string `json:"phase"`
	Round    int    `json:"round"`
	Deadline int64  `json:"deadline,omitempty"` // 阶段截止时间戳（秒），无计时器时为 0
}

// HintTurnPayload 轮到某玩家给线索
type HintTurnPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Order      int    `json:"order"` // 本轮发言顺位，从 1 开始
}

// HintDroppedPayload 线索公开通知
type HintDroppedPayload struct {
	Hint HintInfo `json:"hint"`
}

// VoteCastPayload 有人投票通知（不公开投票目标）
type VoteCastPayload struct {
	PlayerID   string `json:"player_id"`
	VotedCount int    `json:"voted_count"` // 本轮已投票人数
	AliveCount int    `json:"alive_count"` // 存活人数
}

// RoundResultPayload 本轮投票结果
type RoundResultPayload struct {
	Round        int            `json:"round"`
	Counts       map[string]int `json:"counts"` // 玩家 ID → 得票数
	EliminatedID string         `json:"eliminated_id"`
	IsTie        bool           `json:"is_tie"` // 平票（随机淘汰其一）
}

// GameOverPayload 游戏结束通知
type GameOverPayload struct {
	Winner         string `json:"winner"` // majority / undercover
	UndercoverID   string `json:"undercover_id"`
	UndercoverWord string `json:"undercover_word"`
	MajorityWord   string `json:"majority_word"`
	Rounds         int    `json:"rounds"`
}

// ChatBroadcastPayload 聊天广播
type ChatBroadcastPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"` // 秒
}

// RoomListItem 房间列表项
type RoomListItem struct {
	RoomCode    string `json:"room_code"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// RoomListPayload 房间列表结果
type RoomListPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
