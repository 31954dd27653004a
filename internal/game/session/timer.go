package session

import "time"

// --- 阶段计时控制 ---
//
// 计时器到期只是又一个 RequestAdvance 调用方，从不强杀进行中的操作。
// 回调携带装载时观察到的阶段与轮次，若状态已被别的触发推进过，
// 到期回调会拿到 NoOp。

// armPhaseTimerLocked 装载阶段计时器，返回截止时间戳（秒）
func (g *Game) armPhaseTimerLocked(d time.Duration, phase Phase, round int) int64 {
	g.timerMu.Lock()
	defer g.timerMu.Unlock()

	if g.phaseTimer != nil {
		g.phaseTimer.Stop()
	}

	g.deadline = time.Now().Add(d)
	g.phaseTimer = time.AfterFunc(d, func() {
		g.RequestAdvance(TriggerTimer, phase, round)
	})

	return g.deadline.Unix()
}

// stopPhaseTimer 停掉当前阶段计时器
func (g *Game) stopPhaseTimer() {
	g.timerMu.Lock()
	defer g.timerMu.Unlock()

	if g.phaseTimer != nil {
		g.phaseTimer.Stop()
		g.phaseTimer = nil
	}
	g.deadline = time.Time{}
}

// Deadline 当前阶段截止时间，无计时器时为零值
func (g *Game) Deadline() time.Time {
	g.timerMu.Lock()
	defer g.timerMu.Unlock()
	return g.deadline
}
