package room

import (
	"github.com/palemoky/who-is-undercover/internal/server/storage"
)

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:        r.Code,
		State:       int(r.State),
		OwnerID:     r.OwnerID,
		Pack:        r.Pack,
		Difficulty:  r.Difficulty,
		TurnMode:    r.TurnMode.String(),
		Players:     make([]storage.PlayerData, 0, len(r.Players)),
		PlayerOrder: r.PlayerOrder,
		CreatedAt:   r.CreatedAt.Unix(),
	}

	for _, id := range r.PlayerOrder {
		player := r.Players[id]
		data.Players = append(data.Players, storage.PlayerData{
			ID:   player.ID,
			Name: player.Name,
			Seat: player.Seat,
		})
	}

	return data
}
