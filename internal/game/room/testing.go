//go:build !production

package room

import (
	"time"

	"github.com/palemoky/who-is-undercover/internal/game/turn"
	"github.com/palemoky/who-is-undercover/internal/types"
)

// NewMockRoom 创建测试用的 Room
func NewMockRoom(code string, client types.ClientInterface) *Room {
	room := &Room{
		Code:        code,
		State:       RoomStateWaiting,
		Pack:        "classic",
		Difficulty:  "normal",
		TurnMode:    turn.ModeSequential,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, 8),
		CreatedAt:   time.Now(),
	}
	if client != nil {
		room.OwnerID = client.GetID()
		room.Players[client.GetID()] = &RoomPlayer{
			Client: client,
			ID:     client.GetID(),
			Name:   client.GetName(),
			Seat:   0,
		}
		room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	}
	return room
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}
