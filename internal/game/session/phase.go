package session

// Phase 一局游戏的阶段。阶段只会单向推进，没有任何回退路径。
type Phase string

const (
	PhaseLobby        Phase = "lobby"         // 等待开局
	PhaseWhisper      Phase = "whisper"       // 看词（仅第一轮）
	PhaseHintDrop     Phase = "hint_drop"     // 轮流给线索
	PhaseDebateVoting Phase = "debate_voting" // 讨论与投票
	PhaseReveal       Phase = "reveal"        // 公布计票与淘汰
	PhasePostRound    Phase = "post_round"    // 终局，需要新会话才能再来一局
)

func (p Phase) String() string {
	return string(p)
}

// validTransitions 合法的阶段迁移。
// reveal → hint_drop 是进入下一轮；第二轮起不再经过 whisper，
// 因为身份和词整局不变，重新看词没有意义。
var validTransitions = map[Phase][]Phase{
	PhaseLobby:        {PhaseWhisper},
	PhaseWhisper:      {PhaseHintDrop},
	PhaseHintDrop:     {PhaseDebateVoting},
	PhaseDebateVoting: {PhaseReveal},
	PhaseReveal:       {PhaseHintDrop, PhasePostRound},
	PhasePostRound:    {},
}

// CanTransitionTo 检查阶段迁移是否合法
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range validTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// Status 会话状态
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
	StatusAborted  Status = "aborted" // 内部不变量被破坏，会话不可用
)

// Trigger 阶段推进的触发来源。三种触发在架构上只是三个
// 争抢同一把房间锁的调用方，输掉竞争的一方会拿到 NoOp。
type Trigger string

const (
	TriggerTimer   Trigger = "timer"    // 阶段计时器到期
	TriggerAllDone Trigger = "all_done" // 所有存活玩家完成动作
	TriggerForce   Trigger = "force"    // 房主强制推进
)
