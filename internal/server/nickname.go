package server

import (
	"fmt"
	"math/rand/v2"
)

// 昵称词库，贴合找卧底的气氛
var (
	adjectives = []string{
		"可疑的", "无辜的", "嘴硬的", "淡定的", "慌张的",
		"机智的", "装傻的", "老实的", "狡猾的", "面瘫的",
		"心虚的", "冷静的", "多嘴的", "沉默的", "戏精的",
	}

	nouns = []string{
		"卧底", "平民", "侦探", "间谍", "特工",
		"路人", "演员", "嫌疑人", "目击者", "墙头草",
		"复读机", "显眼包", "老狐狸", "小白兔", "千层饼",
	}
)

// GenerateNickname 生成随机昵称，带两位数字降低重名概率
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return fmt.Sprintf("%s%s%02d", adj, noun, rand.IntN(100))
}
