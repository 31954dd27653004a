package rule

// Winner 胜负归属
type Winner string

const (
	WinnerNone       Winner = "none"
	WinnerMajority   Winner = "majority"
	WinnerUndercover Winner = "undercover"
)

// EvaluateWin 判定游戏是否结束。在淘汰生效后调用，每轮只调用一次：
//   - 卧底已被淘汰 → 平民胜
//   - 只剩 2 人且卧底仍在 → 卧底胜
//   - 其余情况游戏继续
func EvaluateWin(aliveIDs []string, undercoverID string) (over bool, winner Winner) {
	undercoverAlive := false
	for _, id := range aliveIDs {
		if id == undercoverID {
			undercoverAlive = true
			break
		}
	}

	if !undercoverAlive {
		return true, WinnerMajority
	}
	if len(aliveIDs) <= 2 {
		return true, WinnerUndercover
	}
	return false, WinnerNone
}
