// Package room 管理房间的创建、加入、离开和生命周期。
// 房间是会话的宿主：开局时用当前名单创建一个 session.Game，
// 并作为它的广播出口。
package room

import (
	"sync"
	"time"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/config"
	"github.com/palemoky/who-is-undercover/internal/game/session"
	"github.com/palemoky/who-is-undercover/internal/game/turn"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/storage"
	"github.com/palemoky/who-is-undercover/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集
)

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting RoomState = iota // 等待玩家
	RoomStatePlaying                  // 游戏进行中
	RoomStateEnded                    // 已结束，等待清理
)

// RoomPlayer 房间中的玩家。Client 为 nil 表示掉线等待重连。
type RoomPlayer struct {
	Client types.ClientInterface
	ID     string
	Name   string
	Seat   int
}

// Room 游戏房间
type Room struct {
	Code        string                 // 房间号
	State       RoomState              // 房间状态
	OwnerID     string                 // 房主（创建者）
	Pack        string                 // 词库
	Difficulty  string                 // 难度
	TurnMode    turn.Mode              // 发言模式
	Players     map[string]*RoomPlayer // 玩家列表
	PlayerOrder []string               // 玩家顺序（按入座）
	CreatedAt   time.Time              // 创建时间

	game *session.Game

	mu sync.RWMutex
}

// Broadcast 广播消息给房间内所有在线玩家
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, player := range r.Players {
		if player.Client != nil {
			player.Client.SendMessage(msg)
		}
	}
}

// SendTo 定向发送给某个玩家，掉线时静默丢弃（重连后走状态恢复）
func (r *Room) SendTo(playerID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if player, exists := r.Players[playerID]; exists && player.Client != nil {
		player.Client.SendMessage(msg)
	}
}

// BroadcastExcept 广播消息给除指定玩家外的所有在线玩家
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, player := range r.Players {
		if id != excludeID && player.Client != nil {
			player.Client.SendMessage(msg)
		}
	}
}

// GetPlayerInfo 获取玩家公开信息
func (r *Room) GetPlayerInfo(playerID string) protocol.PlayerInfo {
	r.mu.RLock()
	player := r.Players[playerID]
	info := protocol.PlayerInfo{
		ID:    player.ID,
		Name:  player.Name,
		Seat:  player.Seat,
		Alive: true,
	}
	g := r.game
	r.mu.RUnlock()

	// 会话状态在房间锁外读取，两把锁从不嵌套持有
	if g != nil {
		for _, p := range g.Participants() {
			if p.ID == playerID {
				info.Alive = p.Alive
				break
			}
		}
	}
	return info
}

// GetAllPlayersInfo 获取所有玩家公开信息（按入座顺序）
func (r *Room) GetAllPlayersInfo() []protocol.PlayerInfo {
	r.mu.RLock()
	infos := make([]protocol.PlayerInfo, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		player := r.Players[id]
		infos = append(infos, protocol.PlayerInfo{
			ID:    player.ID,
			Name:  player.Name,
			Seat:  player.Seat,
			Alive: true,
		})
	}
	g := r.game
	r.mu.RUnlock()

	if g != nil {
		alive := make(map[string]bool)
		for _, p := range g.Participants() {
			alive[p.ID] = p.Alive
		}
		for i := range infos {
			if v, tracked := alive[infos[i].ID]; tracked {
				infos[i].Alive = v
			}
		}
	}
	return infos
}

// GetGame 获取当前游戏会话，未开局时为 nil
func (r *Room) GetGame() *session.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game
}

// StartGame 开局：用当前名单快照创建会话并启动。
// 会话的广播在锁外进行，避免与房间锁互相等待。
func (r *Room) StartGame(callerID string, cfg *config.GameConfig, store *storage.RedisStore) error {
	r.mu.Lock()
	if r.State != RoomStateWaiting {
		r.mu.Unlock()
		return apperrors.ErrGameStarted
	}

	seats := make([]session.Seat, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		player := r.Players[id]
		seats = append(seats, session.Seat{ID: player.ID, Name: player.Name})
	}

	var sessionStore session.Store
	if store != nil {
		sessionStore = store
	}
	g := session.NewGame(r.Code, r.OwnerID, seats, cfg, sessionStore, r, session.Options{
		Pack:       r.Pack,
		Difficulty: r.Difficulty,
		TurnMode:   r.TurnMode,
	})
	r.game = g
	r.State = RoomStatePlaying
	r.mu.Unlock()

	if err := g.Start(callerID); err != nil {
		r.mu.Lock()
		r.game = nil
		r.State = RoomStateWaiting
		r.mu.Unlock()
		return err
	}
	return nil
}

// IsGameRunning 游戏是否进行中。
// 会话状态在房间锁外读取，两把锁从不嵌套持有。
func (r *Room) IsGameRunning() bool {
	r.mu.RLock()
	g := r.game
	r.mu.RUnlock()

	return g != nil && g.IsRunning()
}
