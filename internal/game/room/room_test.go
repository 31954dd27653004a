package room

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/config"
	"github.com/palemoky/who-is-undercover/internal/game/rule"
	"github.com/palemoky/who-is-undercover/internal/game/session"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/testutil"
)

func newTestManager() *RoomManager {
	cfg := config.Default()
	return NewRoomManager(nil, &cfg.Game)
}

func TestRoomManager_CreateAndJoin(t *testing.T) {
	t.Parallel()

	rm := newTestManager()

	owner := &testutil.SimpleClient{ID: "p1", Name: "Owner"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)

	assert.Len(t, room.Code, 6)
	assert.Equal(t, "p1", room.OwnerID)
	assert.Equal(t, room.Code, owner.GetRoom())
	assert.Equal(t, "classic", room.Pack)

	joiner := &testutil.SimpleClient{ID: "p2", Name: "Joiner"}
	joined, err := rm.JoinRoom(joiner, room.Code)
	require.NoError(t, err)
	assert.Same(t, room, joined)
	assert.Equal(t, 1, room.Players["p2"].Seat)

	// 房主收到加入通知
	assert.Contains(t, owner.ReceivedTypes(), protocol.MsgPlayerJoined)

	// 不存在的房间
	_, err = rm.JoinRoom(&testutil.SimpleClient{ID: "p3", Name: "X"}, "000000")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestRoomManager_CreateRoom_UnknownPack(t *testing.T) {
	t.Parallel()

	rm := newTestManager()
	_, err := rm.CreateRoom(&testutil.SimpleClient{ID: "p1", Name: "A"}, protocol.CreateRoomPayload{
		Pack: "nonexistent",
	})
	assert.ErrorIs(t, err, apperrors.ErrNoPairAvailable)
}

func TestRoomManager_JoinRoom_Full(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Game.MaxPlayers = 2
	rm := NewRoomManager(nil, &cfg.Game)

	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)

	_, err = rm.JoinRoom(&testutil.SimpleClient{ID: "p2", Name: "B"}, room.Code)
	require.NoError(t, err)

	_, err = rm.JoinRoom(&testutil.SimpleClient{ID: "p3", Name: "C"}, room.Code)
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestRoomManager_LeaveRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager()

	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)

	joiner := &testutil.SimpleClient{ID: "p2", Name: "B"}
	_, err = rm.JoinRoom(joiner, room.Code)
	require.NoError(t, err)

	// 房主离开后房主移交，座位压缩
	rm.LeaveRoom(owner)
	assert.Empty(t, owner.GetRoom())
	assert.Equal(t, "p2", room.OwnerID)
	assert.Equal(t, 0, room.Players["p2"].Seat)
	assert.Contains(t, joiner.ReceivedTypes(), protocol.MsgPlayerLeft)

	// 最后一人离开，房间解散
	rm.LeaveRoom(joiner)
	assert.Nil(t, rm.GetRoom(room.Code))
}

func TestRoomManager_StartGame(t *testing.T) {
	t.Parallel()

	rm := newTestManager()

	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)

	clients := []*testutil.SimpleClient{
		{ID: "p2", Name: "B"},
		{ID: "p3", Name: "C"},
		{ID: "p4", Name: "D"},
	}
	for _, c := range clients {
		_, err = rm.JoinRoom(c, room.Code)
		require.NoError(t, err)
	}

	// 非房主不能开局
	_, err = rm.StartGame(clients[0])
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	assert.Equal(t, RoomStateWaiting, room.State)

	started, err := rm.StartGame(owner)
	require.NoError(t, err)
	assert.Equal(t, RoomStatePlaying, started.State)
	require.NotNil(t, started.GetGame())
	assert.Equal(t, session.PhaseWhisper, started.GetGame().Phase())
	assert.Equal(t, 1, rm.GetActiveGamesCount())

	// 每个玩家都收到开局广播和私发的词
	for _, c := range append(clients, owner) {
		types := c.ReceivedTypes()
		assert.Contains(t, types, protocol.MsgGameStart)
		assert.Contains(t, types, protocol.MsgWordAssigned)
	}

	// 开局后无法加入和重复开局
	_, err = rm.JoinRoom(&testutil.SimpleClient{ID: "p5", Name: "E"}, room.Code)
	assert.ErrorIs(t, err, apperrors.ErrGameStarted)
	_, err = rm.StartGame(owner)
	assert.ErrorIs(t, err, apperrors.ErrGameStarted)
}

func TestRoomManager_StartGame_Insufficient(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Game.MinPlayers = 4
	rm := NewRoomManager(nil, &cfg.Game)

	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)
	_, err = rm.JoinRoom(&testutil.SimpleClient{ID: "p2", Name: "B"}, room.Code)
	require.NoError(t, err)

	_, err = rm.StartGame(owner)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPlayers)

	// 开局失败后房间回到等待状态，可以继续加人
	assert.Equal(t, RoomStateWaiting, room.State)
	assert.Nil(t, room.GetGame())
}

func TestRoomManager_GetRoomList(t *testing.T) {
	t.Parallel()

	rm := newTestManager()

	room := NewMockRoom("123456", &testutil.SimpleClient{ID: "p1", Name: "Player1"})
	rm.AddRoomForTest(room)

	playing := NewMockRoom("654321", &testutil.SimpleClient{ID: "p2", Name: "Player2"})
	playing.State = RoomStatePlaying
	rm.AddRoomForTest(playing)

	// 只返回等待中的房间
	rooms := rm.GetRoomList()
	assert.Len(t, rooms, 1)
	assert.Equal(t, "123456", rooms[0].RoomCode)
	assert.Equal(t, 1, rooms[0].PlayerCount)
	assert.Equal(t, 8, rooms[0].MaxPlayers)
}

func TestRoomManager_OfflineAndReconnect(t *testing.T) {
	t.Parallel()

	rm := newTestManager()

	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)
	other := &testutil.SimpleClient{ID: "p2", Name: "B"}
	_, err = rm.JoinRoom(other, room.Code)
	require.NoError(t, err)

	// 掉线：保留席位，其他人收到通知
	rm.NotifyPlayerOffline(owner)
	assert.Nil(t, room.Players["p1"].Client)
	assert.Contains(t, other.ReceivedTypes(), protocol.MsgPlayerOffline)

	// 重连：新连接接管席位
	newConn := &testutil.SimpleClient{ID: "p1", Name: "A"}
	reRoom, err := rm.ReconnectPlayer(room.Code, newConn)
	require.NoError(t, err)
	assert.Same(t, room, reRoom)
	assert.Same(t, newConn, room.Players["p1"].Client.(*testutil.SimpleClient))
	assert.Equal(t, room.Code, newConn.GetRoom())
	assert.Contains(t, other.ReceivedTypes(), protocol.MsgPlayerOnline)

	// 不在房间名单里的玩家不能重连
	_, err = rm.ReconnectPlayer(room.Code, &testutil.SimpleClient{ID: "p9", Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)
}

// TestRoomManager_StatsDuringGameplay 三路并发：会话推进在会话锁内向
// 房间广播、加入请求排队抢房间写锁、统计读取反向查询会话状态。
// 整局必须在限时内跑完，任何一路卡住都说明锁序出了问题。
func TestRoomManager_StatsDuringGameplay(t *testing.T) {
	t.Parallel()

	rm := newTestManager()
	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{})
	require.NoError(t, err)
	for _, c := range []*testutil.SimpleClient{
		{ID: "p2", Name: "B"},
		{ID: "p3", Name: "C"},
		{ID: "p4", Name: "D"},
	} {
		_, err = rm.JoinRoom(c, room.Code)
		require.NoError(t, err)
	}
	_, err = rm.StartGame(owner)
	require.NoError(t, err)
	g := room.GetGame()
	require.NotNil(t, g)

	var undercoverID string
	for _, p := range g.Participants() {
		if p.Role == rule.RoleUndercover {
			undercoverID = p.ID
		}
	}
	require.NotEmpty(t, undercoverID)

	stop := make(chan struct{})
	var wg sync.WaitGroup

	// 统计读取：房间锁内不能再去拿会话锁
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				rm.GetActiveGamesCount()
				room.IsGameRunning()
			}
		}
	}()

	// 加入请求：不断排队等房间写锁，全部应被拒绝
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_, err := rm.JoinRoom(&testutil.SimpleClient{
				ID:   fmt.Sprintf("late%d", i),
				Name: "Late",
			}, room.Code)
			assert.ErrorIs(t, err, apperrors.ErrGameStarted)
		}
	}()

	// 对局推进：每次状态变更都在会话锁内触发房间广播
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)

		g.RequestAdvance(session.TriggerTimer, session.PhaseWhisper, 1)
		for g.Phase() == session.PhaseHintDrop {
			if speaker := g.CurrentSpeaker(); speaker != "" {
				_ = g.SubmitHint(speaker, "线索")
			}
		}

		// 全员投卧底，一轮终局
		var other string
		for _, p := range g.Participants() {
			if p.ID != undercoverID {
				other = p.ID
				_ = g.SubmitVote(p.ID, undercoverID)
			}
		}
		_ = g.SubmitVote(undercoverID, other)
		g.RequestAdvance(session.TriggerTimer, session.PhaseReveal, 1)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("并发统计/加入/对局推进未在限时内完成")
	}

	assert.Equal(t, session.StatusFinished, g.Status())
	assert.Equal(t, 0, rm.GetActiveGamesCount())
}

func TestRoom_ToRoomData(t *testing.T) {
	t.Parallel()

	rm := newTestManager()
	owner := &testutil.SimpleClient{ID: "p1", Name: "A"}
	room, err := rm.CreateRoom(owner, protocol.CreateRoomPayload{TurnMode: "random"})
	require.NoError(t, err)

	data := room.ToRoomData()
	assert.Equal(t, room.Code, data.Code)
	assert.Equal(t, "p1", data.OwnerID)
	assert.Equal(t, "random", data.TurnMode)
	require.Len(t, data.Players, 1)
	assert.Equal(t, "A", data.Players[0].Name)
}
