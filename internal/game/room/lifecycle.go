package room

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/types"
)

const offlineWaitSeconds = 20 // 掉线重连等待（秒）

// NotifyPlayerOffline 通知房间内其他玩家某个玩家掉线。
// 掉线不改变对局状态：轮到他发言时由线索阶段的兜底计时器推进。
func (rm *RoomManager) NotifyPlayerOffline(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		return
	}

	room.mu.Lock()
	if player, exists := room.Players[client.GetID()]; exists {
		player.Client = nil
	}
	room.mu.Unlock()

	rm.notifyOffline(room, client)
}

// notifyOffline 广播掉线通知，全员掉线时清理房间
func (rm *RoomManager) notifyOffline(room *Room, client types.ClientInterface) {
	room.mu.Lock()

	allOffline := true
	offline := protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
		Timeout:    offlineWaitSeconds,
	})
	for _, player := range room.Players {
		if player.Client != nil {
			allOffline = false
			player.Client.SendMessage(offline)
		}
	}

	if allOffline {
		log.Printf("🧹 房间 %s 所有玩家已断开连接，清理房间", room.Code)
		room.State = RoomStateEnded
		room.mu.Unlock()
		rm.removeRoom(room.Code)
		return
	}
	room.mu.Unlock()

	log.Printf("📴 玩家 %s 在房间 %s 中掉线", client.GetName(), room.Code)
}

// ReconnectPlayer 玩家重连回房间，更新客户端引用
func (rm *RoomManager) ReconnectPlayer(roomCode string, newClient types.ClientInterface) (*Room, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()

	player, exists := room.Players[newClient.GetID()]
	if !exists {
		room.mu.Unlock()
		return nil, apperrors.ErrNotInRoom
	}

	player.Client = newClient
	newClient.SetRoom(roomCode)
	room.mu.Unlock()

	// 通知其他玩家该玩家已上线
	room.BroadcastExcept(newClient.GetID(), protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID:   newClient.GetID(),
		PlayerName: newClient.GetName(),
	}))

	log.Printf("📶 玩家 %s 重连到房间 %s", newClient.GetName(), roomCode)

	return room, nil
}

// generateRoomCode 生成房间号，调用方需持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup 清理等待超时的房间
func (rm *RoomManager) cleanup() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	now := time.Now()

	for code, room := range rm.rooms {
		room.mu.RLock()
		// 只清理等待状态且超时的房间
		expired := room.State == RoomStateWaiting && now.Sub(room.CreatedAt) > rm.gameCfg.RoomTimeoutDuration()
		room.mu.RUnlock()
		if !expired {
			continue
		}

		// 通知所有玩家房间已关闭
		room.Broadcast(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
		room.mu.Lock()
		for _, p := range room.Players {
			if p.Client != nil {
				p.Client.SetRoom("")
			}
		}
		room.mu.Unlock()
		delete(rm.rooms, code)
		if rm.redisStore != nil {
			go func() { _ = rm.redisStore.DeleteRoom(context.Background(), code) }()
		}
		log.Printf("🏠 房间 %s 超时已清理", code)
	}
}
