// Package words 提供词库：按词库/难度返回一组（平民词，卧底词）。
// 词库打包进二进制，无任何运行时状态，可并发调用。
package words

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/who-is-undercover/internal/apperrors"
)

//go:embed packs.yaml
var packsRaw []byte

// Pair 一组秘密词
type Pair struct {
	Majority   string // 平民词
	Undercover string // 卧底词
}

type packsFile struct {
	Packs map[string]map[string][][2]string `yaml:"packs"`
}

// catalog pack → difficulty → pairs，进程启动时加载后只读
var catalog map[string]map[string][][2]string

func init() {
	var f packsFile
	if err := yaml.Unmarshal(packsRaw, &f); err != nil {
		panic(fmt.Sprintf("词库解析失败: %v", err))
	}

	// 启动时校验：每组词必须互异且非空
	for pack, difficulties := range f.Packs {
		for difficulty, pairs := range difficulties {
			for i, p := range pairs {
				if p[0] == "" || p[1] == "" || p[0] == p[1] {
					panic(fmt.Sprintf("非法词组 %s/%s[%d]: %q", pack, difficulty, i, p))
				}
			}
		}
	}

	catalog = f.Packs
}

// SelectPair 从指定词库/难度中随机抽取一组词。
// 同组两词会随机交换，避免词库顺序泄露身份。
func SelectPair(pack, difficulty string, rng *rand.Rand) (Pair, error) {
	pairs := catalog[pack][difficulty]
	if len(pairs) == 0 {
		return Pair{}, apperrors.ErrNoPairAvailable
	}

	p := pairs[rng.IntN(len(pairs))]
	if rng.IntN(2) == 0 {
		return Pair{Majority: p[0], Undercover: p[1]}, nil
	}
	return Pair{Majority: p[1], Undercover: p[0]}, nil
}

// Packs 返回所有词库名（排序后），供客户端建房时校验
func Packs() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Difficulties 返回指定词库的所有难度（排序后）
func Difficulties(pack string) []string {
	difficulties := make([]string, 0, len(catalog[pack]))
	for name := range catalog[pack] {
		difficulties = append(difficulties, name)
	}
	sort.Strings(difficulties)
	return difficulties
}

// HasPair 检查词库/难度组合是否存在可用词组
func HasPair(pack, difficulty string) bool {
	return len(catalog[pack][difficulty]) > 0
}
