package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间

	// 游戏操作
	MsgStartGame    MessageType = "start_game"    // 房主开始游戏
	MsgSubmitHint   MessageType = "submit_hint"   // 提交线索
	MsgSubmitVote   MessageType = "submit_vote"   // 投票
	MsgForceAdvance MessageType = "force_advance" // 房主强制进入下一阶段

	// 信息查询
	MsgGetRoomList    MessageType = "get_room_list"    // 获取房间列表
	MsgGetOnlineCount MessageType = "get_online_count" // 获取在线人数
	MsgChat           MessageType = "chat"             // 讨论阶段聊天
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知
	MsgOnlineCount   MessageType = "online_count"   // 在线人数更新

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开

	// 游戏流程
	MsgGameStart     MessageType = "game_start"     // 游戏开始
	MsgWordAssigned  MessageType = "word_assigned"  // 秘密词下发（仅发给本人）
	MsgPhaseChanged  MessageType = "phase_changed"  // 阶段切换
	MsgHintTurn      MessageType = "hint_turn"      // 轮到某玩家给线索
	MsgHintDropped   MessageType = "hint_dropped"   // 有人提交线索
	MsgVoteCast      MessageType = "vote_cast"      // 有人投票（不公开目标）
	MsgRoundResult   MessageType = "round_result"   // 本轮投票结果与淘汰
	MsgGameOver      MessageType = "game_over"      // 游戏结束
	MsgChatBroadcast MessageType = "chat_broadcast" // 聊天广播

	// 信息查询
	MsgRoomListResult MessageType = "room_list_result" // 房间列表结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
