// Package session 实现一局谁是卧底的阶段状态机与会话协调器。
// 每个房间持有一个 Game，所有修改状态的调用都在同一把锁下串行执行，
// 计时器到期、全员完成、房主强制三种推进触发只是三个争抢这把锁的
// 调用方，输掉竞争的一方拿到 NoOp 而不是错误或二次迁移。
package session

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/config"
	"github.com/palemoky/who-is-undercover/internal/game/rule"
	"github.com/palemoky/who-is-undercover/internal/game/turn"
	"github.com/palemoky/who-is-undercover/internal/game/words"
	"github.com/palemoky/who-is-undercover/internal/protocol"
	"github.com/palemoky/who-is-undercover/internal/server/storage"
)

// Broadcaster 房间广播接口，由 room.Room 实现
type Broadcaster interface {
	Broadcast(msg *protocol.Message)
	SendTo(playerID string, msg *protocol.Message)
}

// Store 游戏持久化接口，由 storage.RedisStore 实现。
// 所有写入都在锁外异步进行，核心状态以内存为准。
type Store interface {
	SaveGame(ctx context.Context, roomCode string, data *storage.GameData) error
	DeleteGame(ctx context.Context, roomCode string) error
	SaveResult(ctx context.Context, result *storage.GameResultData) error
}

// Participant 对局中的一名玩家。身份和词在第一轮开始时绑定一次，
// 整局不变；之后只有 Alive 会翻转，且只翻转一次。
type Participant struct {
	ID    string
	Name  string
	Seat  int
	Alive bool
	Role  rule.Role
	Word  string
}

// Hint 一条线索。每人每轮至多一条。
type Hint struct {
	PlayerID string
	Round    int
	Text     string // 语音局口头发言时为空
	Order    int    // 本轮发言顺位，从 1 开始
}

// Seat 开局名单中的一个席位
type Seat struct {
	ID   string
	Name string
}

// Options 建局参数
type Options struct {
	Pack       string
	Difficulty string
	TurnMode   turn.Mode
	Rand       *rand.Rand // 可注入随机源，便于测试复现；为空时自动创建
}

// Game 一局游戏的会话协调器
type Game struct {
	roomCode   string
	ownerID    string
	cfg        *config.GameConfig
	store      Store
	broadcast  Broadcaster
	rng        *rand.Rand
	pack       string
	difficulty string
	turnMode   turn.Mode

	mu     sync.RWMutex
	status Status
	phase  Phase
	round  int
	winner rule.Winner

	participants []*Participant // 按入座顺序
	byID         map[string]*Participant
	undercoverID string
	pair         words.Pair
	rolesSet     bool

	order          *turn.Order       // 每轮线索阶段用存活名单重建
	currentSpeaker string            // 当前应发言玩家，非线索阶段为空
	hints          []Hint            // 全部轮次的线索
	hinted         map[string]bool   // 本轮已发言
	completed      map[string]bool   // 本轮已被抽中并完成（random 策略）
	votes          map[string]string // 本轮 voter → target

	pendingOver bool // 进入 reveal 时已判定终局，展示结束后落地

	// 阶段计时器
	phaseTimer *time.Timer
	deadline   time.Time
	timerMu    sync.Mutex
}

// NewGame 创建会话。seats 为开局时的房间名单快照，顺序即入座顺序。
func NewGame(roomCode, ownerID string, seats []Seat, cfg *config.GameConfig, store Store, b Broadcaster, opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{
		roomCode:   roomCode,
		ownerID:    ownerID,
		cfg:        cfg,
		store:      store,
		broadcast:  b,
		rng:        rng,
		pack:       opts.Pack,
		difficulty: opts.Difficulty,
		turnMode:   opts.TurnMode,
		status:     StatusLobby,
		phase:      PhaseLobby,
		byID:       make(map[string]*Participant),
		hinted:     make(map[string]bool),
		completed:  make(map[string]bool),
		votes:      make(map[string]string),
		winner:     rule.WinnerNone,
	}

	for i, seat := range seats {
		p := &Participant{ID: seat.ID, Name: seat.Name, Seat: i, Alive: true}
		g.participants = append(g.participants, p)
		g.byID[seat.ID] = p
	}

	return g
}

// Start 房主开局：分配身份与词（整局只此一次），进入第一轮看词阶段
func (g *Game) Start(callerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusAborted {
		return apperrors.ErrSessionAborted
	}
	if g.status != StatusLobby {
		return apperrors.ErrGameStarted
	}
	if callerID != g.ownerID {
		return apperrors.ErrNotOwner
	}
	if len(g.participants) < g.cfg.MinPlayers || len(g.participants) < 2 {
		return apperrors.ErrInsufficientPlayers
	}

	pair, err := words.SelectPair(g.pack, g.difficulty, g.rng)
	if err != nil {
		return err
	}

	if err := g.assignRolesLocked(pair); err != nil {
		return err
	}

	g.round = 1
	g.status = StatusPlaying
	if !g.setPhaseLocked(PhaseWhisper) {
		return apperrors.ErrSessionAborted
	}

	g.sendAll(protocol.MustNewMessage(protocol.MsgGameStart, protocol.GameStartPayload{
		Round:   g.round,
		Players: g.playersInfoLocked(),
	}))
	// 秘密词只发给本人，不附带身份
	for _, p := range g.participants {
		g.sendTo(p.ID, protocol.MustNewMessage(protocol.MsgWordAssigned, protocol.WordAssignedPayload{
			Word: p.Word,
		}))
	}
	g.announcePhaseLocked(g.armPhaseTimerLocked(g.cfg.WhisperDuration(), PhaseWhisper, g.round))

	log.Printf("🕵️ 房间 %s 开局: %d 人, 词库 %s/%s, 模式 %s",
		g.roomCode, len(g.participants), g.pack, g.difficulty, g.turnMode)

	g.mirrorLocked()
	return nil
}

// assignRolesLocked 分配身份。重复调用属于调用顺序错误，
// 会话会被标记为不可用而不是带着未定义状态继续。
func (g *Game) assignRolesLocked(pair words.Pair) error {
	if g.rolesSet {
		g.abortLocked(apperrors.ErrRolesAssigned)
		return apperrors.ErrRolesAssigned
	}

	ids := make([]string, len(g.participants))
	for i, p := range g.participants {
		ids[i] = p.ID
	}

	assignments, err := rule.AssignRoles(ids, pair, g.rng)
	if err != nil {
		return err
	}

	for id, a := range assignments {
		p := g.byID[id]
		p.Role = a.Role
		p.Word = a.Word
		if a.Role == rule.RoleUndercover {
			g.undercoverID = id
		}
	}
	g.pair = pair
	g.rolesSet = true
	return nil
}

// SubmitHint 当前发言者提交线索（语音局为完成标记，text 为空）
func (g *Game) SubmitHint(playerID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusAborted {
		return apperrors.ErrSessionAborted
	}
	if g.status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	if g.phase != PhaseHintDrop {
		return apperrors.ErrWrongPhase
	}

	p := g.byID[playerID]
	if p == nil || !p.Alive {
		return apperrors.ErrNotYourTurn
	}
	if g.hinted[playerID] {
		return apperrors.ErrAlreadySubmitted
	}
	if playerID != g.currentSpeaker {
		return apperrors.ErrNotYourTurn
	}

	hint := Hint{
		PlayerID: playerID,
		Round:    g.round,
		Text:     text,
		Order:    len(g.hinted) + 1,
	}
	g.hints = append(g.hints, hint)
	g.hinted[playerID] = true
	g.completed[playerID] = true
	g.currentSpeaker = ""

	g.sendAll(protocol.MustNewMessage(protocol.MsgHintDropped, protocol.HintDroppedPayload{
		Hint: protocol.HintInfo{
			PlayerID:   playerID,
			PlayerName: p.Name,
			Round:      hint.Round,
			Text:       hint.Text,
			Order:      hint.Order,
		},
	}))

	if g.allHintedLocked() {
		g.advanceLocked(TriggerAllDone)
	} else {
		g.announceNextSpeakerLocked()
	}

	g.mirrorLocked()
	return nil
}

// SubmitVote 投票。每人每轮一票，不能投自己或已被淘汰的玩家
func (g *Game) SubmitVote(voterID, targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusAborted {
		return apperrors.ErrSessionAborted
	}
	if g.status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	if g.phase != PhaseDebateVoting {
		return apperrors.ErrWrongPhase
	}

	voter := g.byID[voterID]
	if voter == nil || !voter.Alive {
		return apperrors.ErrWrongPhase
	}
	if _, voted := g.votes[voterID]; voted {
		return apperrors.ErrAlreadyVoted
	}

	target := g.byID[targetID]
	if target == nil || !target.Alive || targetID == voterID {
		return apperrors.ErrInvalidTarget
	}

	g.votes[voterID] = targetID

	g.sendAll(protocol.MustNewMessage(protocol.MsgVoteCast, protocol.VoteCastPayload{
		PlayerID:   voterID,
		VotedCount: len(g.votes),
		AliveCount: len(g.aliveIDsLocked()),
	}))

	if g.allVotedLocked() {
		g.advanceLocked(TriggerAllDone)
	}

	g.mirrorLocked()
	return nil
}

// RequestAdvance 请求推进阶段。调用方传入它观察到的阶段与轮次，
// 若状态已被并发的另一个触发推进过，返回 NoOp（moved=false）而不是错误。
func (g *Game) RequestAdvance(trigger Trigger, fromPhase Phase, fromRound int) (Phase, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusPlaying || g.phase != fromPhase || g.round != fromRound {
		return g.phase, false
	}

	moved := g.advanceLocked(trigger)
	if moved {
		g.mirrorLocked()
	}
	return g.phase, moved
}

// ForceAdvance 房主强制推进当前阶段（看词阶段除外）
func (g *Game) ForceAdvance(callerID string) (Phase, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if callerID != g.ownerID {
		return g.phase, false, apperrors.ErrNotOwner
	}
	if g.status != StatusPlaying {
		return g.phase, false, apperrors.ErrGameNotStart
	}

	moved := g.advanceLocked(TriggerForce)
	if moved {
		g.mirrorLocked()
	}
	return g.phase, moved, nil
}

// advanceLocked 按当前阶段和触发来源执行一次迁移，
// 条件不满足时返回 false。所有迁移单向，不存在回退。
func (g *Game) advanceLocked(trigger Trigger) bool {
	switch g.phase {
	case PhaseWhisper:
		// 第一轮看词只接受计时器，任何玩家操作都不能跳过
		if trigger != TriggerTimer {
			return false
		}
		g.enterHintDropLocked(false)

	case PhaseHintDrop:
		switch trigger {
		case TriggerAllDone:
			if !g.allHintedLocked() {
				return false
			}
		case TriggerTimer, TriggerForce:
			// 计时器是断线兜底，强制推进是房主收尾
		default:
			return false
		}
		g.enterDebateVotingLocked()

	case PhaseDebateVoting:
		// 讨论阶段刻意没有计时器：只认全员投票或房主强制收尾
		switch trigger {
		case TriggerAllDone:
			if !g.allVotedLocked() {
				return false
			}
		case TriggerForce:
			if len(g.votes) == 0 {
				// 零票无法计票，拒绝收尾
				return false
			}
		default:
			return false
		}
		g.enterRevealLocked()

	case PhaseReveal:
		if trigger != TriggerTimer && trigger != TriggerForce {
			return false
		}
		g.leaveRevealLocked()

	default:
		return false
	}
	return true
}

// enterHintDropLocked 进入线索阶段。nextRound 为真表示从 reveal
// 进入下一轮：轮次 +1，清空本轮记录；身份和词保持不变。
func (g *Game) enterHintDropLocked(nextRound bool) {
	g.stopPhaseTimer()

	if !g.setPhaseLocked(PhaseHintDrop) {
		return
	}
	if nextRound {
		g.round++
	}
	g.hinted = make(map[string]bool)
	g.completed = make(map[string]bool)
	g.votes = make(map[string]string)

	// 用当前存活名单重建发言顺序，被淘汰者不再获得回合
	g.order = turn.NewOrder(g.turnMode, g.aliveIDsLocked(), g.rng)

	g.announcePhaseLocked(g.armPhaseTimerLocked(g.cfg.HintTimeoutDuration(), PhaseHintDrop, g.round))
	g.announceNextSpeakerLocked()
}

// enterDebateVotingLocked 进入讨论与投票阶段，无计时器
func (g *Game) enterDebateVotingLocked() {
	g.stopPhaseTimer()
	if !g.setPhaseLocked(PhaseDebateVoting) {
		return
	}
	g.currentSpeaker = ""
	g.votes = make(map[string]string)
	g.announcePhaseLocked(0)
}

// enterRevealLocked 进入公布阶段：计票、淘汰、判定胜负。
// 每轮只执行一次，淘汰生效后才判定。
func (g *Game) enterRevealLocked() {
	g.stopPhaseTimer()

	// 计票自带存活名单校验，幽灵选票直接中止会话
	result, err := rule.Tally(g.votes, g.aliveIDsLocked(), g.rng)
	if err != nil {
		g.abortLocked(err)
		return
	}

	target := g.byID[result.EliminatedID]
	target.Alive = false

	over, winner := rule.EvaluateWin(g.aliveIDsLocked(), g.undercoverID)
	g.pendingOver = over
	if over {
		g.winner = winner
	}

	if !g.setPhaseLocked(PhaseReveal) {
		return
	}

	log.Printf("🗳️ 房间 %s 第 %d 轮: %s 被淘汰 (平票=%v, 终局=%v)",
		g.roomCode, g.round, target.Name, result.IsTie, over)

	g.sendAll(protocol.MustNewMessage(protocol.MsgRoundResult, protocol.RoundResultPayload{
		Round:        g.round,
		Counts:       result.Counts,
		EliminatedID: result.EliminatedID,
		IsTie:        result.IsTie,
	}))
	g.announcePhaseLocked(g.armPhaseTimerLocked(g.cfg.RevealDuration(), PhaseReveal, g.round))
}

// leaveRevealLocked 结果展示结束：终局落地或进入下一轮
func (g *Game) leaveRevealLocked() {
	g.stopPhaseTimer()

	if !g.pendingOver {
		g.enterHintDropLocked(true)
		return
	}

	if !g.setPhaseLocked(PhasePostRound) {
		return
	}
	g.status = StatusFinished
	g.announcePhaseLocked(0)
	g.sendAll(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		Winner:         string(g.winner),
		UndercoverID:   g.undercoverID,
		UndercoverWord: g.pair.Undercover,
		MajorityWord:   g.pair.Majority,
		Rounds:         g.round,
	}))

	log.Printf("🏁 房间 %s 终局: %s 胜, 共 %d 轮", g.roomCode, g.winner, g.round)

	g.archiveLocked()
}

// announceNextSpeakerLocked 计算并公布下一个发言者。
// sequential 按入座顺序取下一位，random 从未发言者中抽取。
func (g *Game) announceNextSpeakerLocked() {
	var next string
	var err error
	switch g.turnMode {
	case turn.ModeRandomDraw:
		next, err = g.order.DrawNext(g.completed)
	default:
		next, err = g.order.NextSpeaker(len(g.hinted))
	}
	if err != nil {
		// 名单耗尽，由 allHinted 分支推进，这里不应到达
		return
	}

	g.currentSpeaker = next
	g.sendAll(protocol.MustNewMessage(protocol.MsgHintTurn, protocol.HintTurnPayload{
		PlayerID:   next,
		PlayerName: g.byID[next].Name,
		Order:      len(g.hinted) + 1,
	}))
}

// announcePhaseLocked 广播阶段切换，deadline 为 0 表示该阶段无计时器
func (g *Game) announcePhaseLocked(deadline int64) {
	g.sendAll(protocol.MustNewMessage(protocol.MsgPhaseChanged, protocol.PhaseChangedPayload{
		Phase:    g.phase.String(),
		Round:    g.round,
		Deadline: deadline,
	}))
}

// setPhaseLocked 按迁移表切换阶段。非法迁移只会由服务端调用顺序
// 错误触发，视为不变量被破坏，会话中止。
func (g *Game) setPhaseLocked(target Phase) bool {
	if !g.phase.CanTransitionTo(target) {
		g.abortLocked(fmt.Errorf("非法阶段迁移 %s → %s", g.phase, target))
		return false
	}
	g.phase = target
	return true
}

// abortLocked 标记会话不可用。只会由服务端调用顺序错误触发，
// 不重试，向日志暴露而不是静默吞掉。
func (g *Game) abortLocked(err error) {
	g.stopPhaseTimer()
	g.status = StatusAborted
	log.Printf("🚨 房间 %s 会话状态机不变量被破坏，已中止: %v", g.roomCode, err)
}

func (g *Game) allHintedLocked() bool {
	return g.order != nil && len(g.hinted) >= g.order.Size()
}

func (g *Game) allVotedLocked() bool {
	alive := len(g.aliveIDsLocked())
	return alive > 0 && len(g.votes) >= alive
}

func (g *Game) aliveIDsLocked() []string {
	ids := make([]string, 0, len(g.participants))
	for _, p := range g.participants {
		if p.Alive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (g *Game) playersInfoLocked() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(g.participants))
	for _, p := range g.participants {
		infos = append(infos, protocol.PlayerInfo{
			ID:    p.ID,
			Name:  p.Name,
			Seat:  p.Seat,
			Alive: p.Alive,
		})
	}
	return infos
}

func (g *Game) sendAll(msg *protocol.Message) {
	if g.broadcast != nil {
		g.broadcast.Broadcast(msg)
	}
}

func (g *Game) sendTo(playerID string, msg *protocol.Message) {
	if g.broadcast != nil {
		g.broadcast.SendTo(playerID, msg)
	}
}

// --- 只读访问 ---

// Phase 当前阶段
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Round 当前轮次
func (g *Game) Round() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round
}

// Status 会话状态
func (g *Game) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

// Winner 胜负归属，未终局时为 none
func (g *Game) Winner() rule.Winner {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.winner
}

// CurrentSpeaker 当前应发言玩家，非线索阶段为空
func (g *Game) CurrentSpeaker() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentSpeaker
}

// IsRunning 游戏是否进行中
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status == StatusPlaying
}

// Participants 参与者快照
func (g *Game) Participants() []Participant {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Participant, len(g.participants))
	for i, p := range g.participants {
		out[i] = *p
	}
	return out
}
