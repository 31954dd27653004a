package room

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/config"
	"github.com/palemoky/who-is-undercover/internal/game/turn"
	"github.com/palemoky/who-is-undercover/internal/game/words"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/storage"
	"github.com/palemoky/who-is-undercover/internal/types"
)

// RoomManager 房间管理器
type RoomManager struct {
	redisStore *storage.RedisStore
	gameCfg    *config.GameConfig
	rooms      map[string]*Room
	mu         sync.RWMutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(rs *storage.RedisStore, gameCfg *config.GameConfig) *RoomManager {
	rm := &RoomManager{
		redisStore: rs,
		gameCfg:    gameCfg,
		rooms:      make(map[string]*Room),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// CreateRoom 创建房间，创建者为房主
func (rm *RoomManager) CreateRoom(client types.ClientInterface, opts protocol.CreateRoomPayload) (*Room, error) {
	pack := opts.Pack
	if pack == "" {
		pack = rm.gameCfg.DefaultPack
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = rm.gameCfg.DefaultDifficulty
	}
	if !words.HasPair(pack, difficulty) {
		return nil, apperrors.ErrNoPairAvailable
	}

	mode := opts.TurnMode
	if mode == "" {
		mode = rm.gameCfg.TurnMode
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	// 生成唯一房间号
	code := rm.generateRoomCode()

	room := &Room{
		Code:        code,
		State:       RoomStateWaiting,
		OwnerID:     client.GetID(),
		Pack:        pack,
		Difficulty:  difficulty,
		TurnMode:    turn.ParseMode(mode),
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, rm.gameCfg.MaxPlayers),
		CreatedAt:   time.Now(),
	}

	// 添加创建者
	room.Players[client.GetID()] = &RoomPlayer{
		Client: client,
		ID:     client.GetID(),
		Name:   client.GetName(),
		Seat:   0,
	}
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	client.SetRoom(code)

	rm.rooms[code] = room

	// 保存到 Redis
	rm.saveRoomAsync(room)

	log.Printf("🏠 房间 %s 已创建，房主 %s，词库 %s/%s", code, client.GetName(), pack, difficulty)

	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()

	if len(room.Players) >= rm.gameCfg.MaxPlayers {
		room.mu.Unlock()
		return nil, apperrors.ErrRoomFull
	}

	if room.State != RoomStateWaiting {
		room.mu.Unlock()
		return nil, apperrors.ErrGameStarted
	}

	// 分配座位
	seat := len(room.Players)
	room.Players[client.GetID()] = &RoomPlayer{
		Client: client,
		ID:     client.GetID(),
		Name:   client.GetName(),
		Seat:   seat,
	}
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	client.SetRoom(code)
	room.mu.Unlock()

	log.Printf("👤 玩家 %s 加入房间 %s (座位 %d)", client.GetName(), code, seat)

	// 通知房间内其他玩家
	room.BroadcastExcept(client.GetID(), protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{
			ID:    client.GetID(),
			Name:  client.GetName(),
			Seat:  seat,
			Alive: true,
		},
	}))

	// 保存到 Redis
	rm.saveRoomAsync(room)

	return room, nil
}

// LeaveRoom 离开房间。进行中的对局里离开的玩家不会被移出名单，
// 只标记掉线，淘汰与胜负判定仍把他算在内。
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return
	}

	rm.mu.Lock()
	room, exists := rm.rooms[roomCode]
	rm.mu.Unlock()
	if !exists {
		return
	}

	room.mu.Lock()

	player, exists := room.Players[client.GetID()]
	if !exists {
		room.mu.Unlock()
		return
	}

	if room.State == RoomStatePlaying {
		// 对局中离开按掉线处理
		player.Client = nil
		room.mu.Unlock()
		rm.notifyOffline(room, client)
		return
	}

	// 通知其他玩家
	left := protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	})
	for id, p := range room.Players {
		if id != client.GetID() && p.Client != nil {
			p.Client.SendMessage(left)
		}
	}

	// 移除玩家并压缩座位
	delete(room.Players, client.GetID())
	for i, id := range room.PlayerOrder {
		if id == client.GetID() {
			room.PlayerOrder = append(room.PlayerOrder[:i], room.PlayerOrder[i+1:]...)
			break
		}
	}
	for i, id := range room.PlayerOrder {
		room.Players[id].Seat = i
	}
	client.SetRoom("")

	// 房主离开，移交给最早入座的玩家
	if room.OwnerID == client.GetID() && len(room.PlayerOrder) > 0 {
		room.OwnerID = room.PlayerOrder[0]
		log.Printf("👑 房间 %s 房主移交给 %s", roomCode, room.Players[room.OwnerID].Name)
	}

	empty := len(room.Players) == 0
	room.mu.Unlock()

	log.Printf("👋 玩家 %s 离开房间 %s", client.GetName(), roomCode)

	if empty {
		rm.removeRoom(roomCode)
	} else {
		rm.saveRoomAsync(room)
	}
}

// StartGame 房主开局
func (rm *RoomManager) StartGame(client types.ClientInterface) (*Room, error) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return nil, apperrors.ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	if err := room.StartGame(client.GetID(), rm.gameCfg, rm.redisStore); err != nil {
		return nil, err
	}

	rm.saveRoomAsync(room)

	return room, nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// GetRoomList 获取可加入的房间列表
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var rooms []protocol.RoomListItem
	for code, room := range rm.rooms {
		room.mu.RLock()
		// 只返回等待中且未满的房间
		if room.State == RoomStateWaiting && len(room.Players) < rm.gameCfg.MaxPlayers {
			rooms = append(rooms, protocol.RoomListItem{
				RoomCode:    code,
				PlayerCount: len(room.Players),
				MaxPlayers:  rm.gameCfg.MaxPlayers,
			})
		}
		room.mu.RUnlock()
	}
	return rooms
}

// GetRoomByPlayerID 通过玩家 ID 获取房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, room := range rm.rooms {
		room.mu.RLock()
		_, exists := room.Players[playerID]
		room.mu.RUnlock()
		if exists {
			return room
		}
	}
	return nil
}

// GetActiveGamesCount 获取进行中的对局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	count := 0
	for _, room := range rooms {
		if room.IsGameRunning() {
			count++
		}
	}
	return count
}

// removeRoom 删除房间（内存 + Redis）
func (rm *RoomManager) removeRoom(code string) {
	rm.mu.Lock()
	delete(rm.rooms, code)
	rm.mu.Unlock()

	if rm.redisStore != nil {
		go func() { _ = rm.redisStore.DeleteRoom(context.Background(), code) }()
	}
	log.Printf("🏠 房间 %s 已解散", code)
}

// saveRoomAsync 异步保存房间快照，未配置存储时跳过
func (rm *RoomManager) saveRoomAsync(room *Room) {
	if rm.redisStore == nil {
		return
	}
	go func() { _ = rm.redisStore.SaveRoom(context.Background(), room.Code, room.ToRoomData()) }()
}
