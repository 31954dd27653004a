// Package turn 管理线索阶段的发言顺序。
// 两种策略：sequential（文字局，按入座顺序轮流）和
// random（语音局，未发言者中不放回随机抽取）。
// 每轮线索阶段开始时用当前存活名单重建，被淘汰者不再获得回合。
package turn

import (
	"math/rand/v2"
	"sort"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
)

// Mode 发言顺序策略
type Mode int

const (
	ModeSequential Mode = iota // 按入座顺序轮流
	ModeRandomDraw             // 随机抽取，不放回
)

// ParseMode 解析配置中的策略名，未知值回落到 sequential
func ParseMode(s string) Mode {
	if s == "random" {
		return ModeRandomDraw
	}
	return ModeSequential
}

func (m Mode) String() string {
	if m == ModeRandomDraw {
		return "random"
	}
	return "sequential"
}

// Order 一轮线索阶段的发言顺序
type Order struct {
	mode  Mode
	order []string // 存活玩家，按入座顺序
	rng   *rand.Rand
}

// NewOrder 以当前存活名单建立本轮发言顺序
func NewOrder(mode Mode, aliveIDs []string, rng *rand.Rand) *Order {
	order := make([]string, len(aliveIDs))
	copy(order, aliveIDs)
	return &Order{mode: mode, order: order, rng: rng}
}

// Mode 返回当前策略
func (o *Order) Mode() Mode {
	return o.mode
}

// Size 返回本轮应发言的人数
func (o *Order) Size() int {
	return len(o.order)
}

// NextSpeaker 返回第 submitted+1 个应发言的玩家（sequential 策略）。
// 所有人都已发言时返回 ErrNoRemainingPlayers，表示该进入下一阶段。
func (o *Order) NextSpeaker(submitted int) (string, error) {
	if submitted >= len(o.order) {
		return "", apperrors.ErrNoRemainingPlayers
	}
	return o.order[submitted], nil
}

// DrawNext 从未发言者中等概率抽取下一个发言者（random 策略）。
// 候选先排序再抽取，同一随机种子下结果可复现。
// 无剩余候选时返回 ErrNoRemainingPlayers。
func (o *Order) DrawNext(completed map[string]bool) (string, error) {
	var remaining []string
	for _, id := range o.order {
		if !completed[id] {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return "", apperrors.ErrNoRemainingPlayers
	}

	sort.Strings(remaining)
	return remaining[o.rng.IntN(len(remaining))], nil
}
