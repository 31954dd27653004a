package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix    = "room:"
	gameKeyPrefix    = "game:"
	sessionKeyPrefix = "session:"
	resultListKey    = "results"

	// 数据过期时间
	roomExpiration = 2 * time.Hour
	gameExpiration = 2 * time.Hour

	// 保留的最近对局结果数量
	maxStoredResults = 100
)

// RoomData 房间数据（用于 Redis 序列化）
type RoomData struct {
	Code        string       `json:"code"`
	State       int          `json:"state"`
	OwnerID     string       `json:"owner_id"`
	Pack        string       `json:"pack"`
	Difficulty  string       `json:"difficulty"`
	TurnMode    string       `json:"turn_mode"`
	Players     []PlayerData `json:"players"`
	PlayerOrder []string     `json:"player_order"`
	CreatedAt   int64        `json:"created_at"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

// GameData 游戏快照（每次状态提交后异步镜像）
type GameData struct {
	RoomCode     string            `json:"room_code"`
	Phase        string            `json:"phase"`
	Round        int               `json:"round"`
	Winner       string            `json:"winner"`
	UndercoverID string            `json:"undercover_id"`
	MajorityWord string            `json:"majority_word"`
	MinorityWord string            `json:"minority_word"`
	Participants []ParticipantData `json:"participants"`
	Hints        []HintData        `json:"hints"`
	Votes        map[string]string `json:"votes"` // 本轮 voter → target
}

// ParticipantData 对局中的参与者
type ParticipantData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Role  string `json:"role"`
	Word  string `json:"word"`
	Alive bool   `json:"alive"`
}

// HintData 一条线索
type HintData struct {
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
	Text     string `json:"text"`
	Order    int    `json:"order"`
}

// GameResultData 已结束对局的归档
type GameResultData struct {
	RoomCode     string   `json:"room_code"`
	Winner       string   `json:"winner"`
	Rounds       int      `json:"rounds"`
	UndercoverID string   `json:"undercover_id"`
	PlayerIDs    []string `json:"player_ids"`
	FinishedAt   int64    `json:"finished_at"`
}

// PlayerSessionData 玩家会话数据（用于 Redis 序列化）
type PlayerSessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"token"`
	RoomCode       string `json:"room_code"`
	IsOnline       bool   `json:"is_online"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 房间存储 ---

// SaveRoom 保存房间到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, roomCode string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	key := roomKeyPrefix + roomCode
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间（仅返回数据，需要外部重建）
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	key := roomKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 房间不存在
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &roomData, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	key := roomKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomCodes 获取所有房间号
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(roomKeyPrefix):]
	}
	return codes, nil
}

// --- 游戏快照 ---

// SaveGame 保存游戏快照
func (rs *RedisStore) SaveGame(ctx context.Context, roomCode string, data *GameData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化游戏快照失败: %w", err)
	}

	key := gameKeyPrefix + roomCode
	return rs.client.Set(ctx, key, jsonData, gameExpiration).Err()
}

// LoadGame 加载游戏快照
func (rs *RedisStore) LoadGame(ctx context.Context, roomCode string) (*GameData, error) {
	key := gameKeyPrefix + roomCode
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var gameData GameData
	if err := json.Unmarshal(data, &gameData); err != nil {
		return nil, fmt.Errorf("反序列化游戏快照失败: %w", err)
	}

	return &gameData, nil
}

// DeleteGame 删除游戏快照
func (rs *RedisStore) DeleteGame(ctx context.Context, roomCode string) error {
	key := gameKeyPrefix + roomCode
	return rs.client.Del(ctx, key).Err()
}

// --- 对局归档 ---

// SaveResult 归档一局结果，只保留最近 maxStoredResults 条
func (rs *RedisStore) SaveResult(ctx context.Context, result *GameResultData) error {
	if result == nil {
		return nil
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化对局结果失败: %w", err)
	}

	pipe := rs.client.Pipeline()
	pipe.LPush(ctx, resultListKey, jsonData)
	pipe.LTrim(ctx, resultListKey, 0, maxStoredResults-1)
	_, err = pipe.Exec(ctx)
	return err
}

// LoadRecentResults 加载最近的对局结果
func (rs *RedisStore) LoadRecentResults(ctx context.Context, limit int) ([]*GameResultData, error) {
	if limit <= 0 || limit > maxStoredResults {
		limit = maxStoredResults
	}

	raw, err := rs.client.LRange(ctx, resultListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*GameResultData, 0, len(raw))
	for _, item := range raw {
		var r GameResultData
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			continue // 跳过损坏的记录
		}
		results = append(results, &r)
	}
	return results, nil
}

// --- 会话存储 ---

// SaveSession 保存会话到 Redis
func (rs *RedisStore) SaveSession(ctx context.Context, session *PlayerSessionData) error {
	data := map[string]any{
		"player_id":   session.PlayerID,
		"player_name": session.PlayerName,
		"token":       session.ReconnectToken,
		"room_code":   session.RoomCode,
		"is_online":   session.IsOnline,
	}

	if session.DisconnectedAt != 0 {
		data["disconnected_at"] = session.DisconnectedAt
	}

	key := sessionKeyPrefix + session.PlayerID
	return rs.client.HSet(ctx, key, data).Err()
}

// LoadSession 从 Redis 加载会话
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	key := sessionKeyPrefix + playerID
	data, err := rs.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	session := &PlayerSessionData{
		PlayerID:       data["player_id"],
		PlayerName:     data["player_name"],
		ReconnectToken: data["token"],
		RoomCode:       data["room_code"],
		IsOnline:       data["is_online"] == "1",
	}

	return session, nil
}

// DeleteSession 删除会话
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	key := sessionKeyPrefix + playerID
	return rs.client.Del(ctx, key).Err()
}
