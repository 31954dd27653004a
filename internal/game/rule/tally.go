package rule

import (
	"math/rand/v2"
	"sort"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
)

// TallyResult 计票结果
type TallyResult struct {
	Counts       map[string]int // 玩家 ID → 得票数，没得票的玩家不出现
	EliminatedID string         // 被淘汰玩家
	IsTie        bool           // 最高票是否平票（平票时已随机选出一人）
}

// Tally 聚合一轮选票并选出淘汰者。
// 投票人与目标都必须在存活名单内，出现幽灵选票说明上游校验被绕过，
// 返回 apperrors.ErrGhostBallot。
// 平票时在并列最高票者中等概率抽取，候选列表先排序，
// 保证同一随机种子下结果可复现。
// 选票为空属于调用顺序错误，返回 apperrors.ErrNoVotes。
func Tally(votes map[string]string, aliveIDs []string, rng *rand.Rand) (TallyResult, error) {
	if len(votes) == 0 {
		return TallyResult{}, apperrors.ErrNoVotes
	}

	alive := make(map[string]bool, len(aliveIDs))
	for _, id := range aliveIDs {
		alive[id] = true
	}

	counts := make(map[string]int)
	for voterID, targetID := range votes {
		if !alive[voterID] || !alive[targetID] {
			return TallyResult{}, apperrors.ErrGhostBallot
		}
		counts[targetID]++
	}

	maxVotes := 0
	for _, n := range counts {
		if n > maxVotes {
			maxVotes = n
		}
	}

	var tied []string
	for targetID, n := range counts {
		if n == maxVotes {
			tied = append(tied, targetID)
		}
	}
	sort.Strings(tied)

	return TallyResult{
		Counts:       counts,
		EliminatedID: tied[rng.IntN(len(tied))],
		IsTie:        len(tied) > 1,
	}, nil
}
