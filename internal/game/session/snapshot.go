package session

import (
	"context"
	"time"

	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/storage"
)

// mirrorLocked 在状态提交后把快照异步镜像到存储。
// 快照在锁内构建，写入在锁外进行，核心状态以内存为准。
func (g *Game) mirrorLocked() {
	if g.store == nil {
		return
	}

	data := g.toGameDataLocked()
	go func() { _ = g.store.SaveGame(context.Background(), g.roomCode, data) }()
}

// archiveLocked 终局归档：保存结果，删除进行中的快照
func (g *Game) archiveLocked() {
	if g.store == nil {
		return
	}

	ids := make([]string, len(g.participants))
	for i, p := range g.participants {
		ids[i] = p.ID
	}
	result := &storage.GameResultData{
		RoomCode:     g.roomCode,
		Winner:       string(g.winner),
		Rounds:       g.round,
		UndercoverID: g.undercoverID,
		PlayerIDs:    ids,
		FinishedAt:   time.Now().Unix(),
	}

	go func() {
		_ = g.store.SaveResult(context.Background(), result)
		_ = g.store.DeleteGame(context.Background(), g.roomCode)
	}()
}

// toGameDataLocked 构建可序列化的游戏快照
func (g *Game) toGameDataLocked() *storage.GameData {
	data := &storage.GameData{
		RoomCode:     g.roomCode,
		Phase:        g.phase.String(),
		Round:        g.round,
		Winner:       string(g.winner),
		UndercoverID: g.undercoverID,
		MajorityWord: g.pair.Majority,
		MinorityWord: g.pair.Undercover,
		Votes:        make(map[string]string, len(g.votes)),
	}

	for _, p := range g.participants {
		data.Participants = append(data.Participants, storage.ParticipantData{
			ID:    p.ID,
			Name:  p.Name,
			Seat:  p.Seat,
			Role:  string(p.Role),
			Word:  p.Word,
			Alive: p.Alive,
		})
	}
	for _, h := range g.hints {
		data.Hints = append(data.Hints, storage.HintData{
			PlayerID: h.PlayerID,
			Round:    h.Round,
			Text:     h.Text,
			Order:    h.Order,
		})
	}
	for voter, target := range g.votes {
		data.Votes[voter] = target
	}

	return data
}

// StateFor 为重连玩家生成状态恢复数据。
// 只包含该玩家自己的秘密词和本轮已公开的线索。
func (g *Game) StateFor(playerID string) *protocol.GameStateDTO {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dto := &protocol.GameStateDTO{
		Phase:       g.phase.String(),
		Round:       g.round,
		Players:     g.playersInfoLocked(),
		CurrentTurn: g.currentSpeaker,
		VotedCount:  len(g.votes),
	}
	// 重连方重新拿到阶段截止时间，客户端据此恢复倒计时
	if deadline := g.Deadline(); !deadline.IsZero() {
		dto.Deadline = deadline.Unix()
	}

	if p := g.byID[playerID]; p != nil {
		dto.Word = p.Word
	}
	for _, h := range g.hints {
		if h.Round != g.round {
			continue
		}
		dto.Hints = append(dto.Hints, protocol.HintInfo{
			PlayerID:   h.PlayerID,
			PlayerName: g.byID[h.PlayerID].Name,
			Round:      h.Round,
			Text:       h.Text,
			Order:      h.Order,
		})
	}

	return dto
}
