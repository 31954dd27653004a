// Package rule 实现游戏裁决逻辑：身份分配、计票、胜负判定。
// 所有随机行为都通过注入的随机源完成，便于测试复现。
package rule

import (
	"math/rand/v2"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
	"github.com/palemoky/who-is-undercover/internal/game/words"
)

// Role 玩家身份
type Role string

const (
	RoleMajority   Role = "majority"   // 平民
	RoleUndercover Role = "undercover" // 卧底
)

// Assignment 一个玩家的身份与秘密词
type Assignment struct {
	Role Role
	Word string
}

// AssignRoles 为一局游戏分配身份：从名单中等概率抽取一名卧底，
// 其余玩家拿平民词。名单快照传入后结果不可变，整局复用。
func AssignRoles(participantIDs []string, pair words.Pair, rng *rand.Rand) (map[string]Assignment, error) {
	if len(participantIDs) < 2 {
		return nil, apperrors.ErrInsufficientPlayers
	}

	undercoverIdx := rng.IntN(len(participantIDs))

	assignments := make(map[string]Assignment, len(participantIDs))
	for i, id := range participantIDs {
		if i == undercoverIdx {
			assignments[id] = Assignment{Role: RoleUndercover, Word: pair.Undercover}
		} else {
			assignments[id] = Assignment{Role: RoleMajority, Word: pair.Majority}
		}
	}

	return assignments, nil
}
