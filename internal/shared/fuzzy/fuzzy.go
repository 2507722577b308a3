package fuzzy

import (
	"strings"
	"unicode"
)

// 常见公司后缀，归一化时剥离（"Snap One LLC" 与 "Snap One" 视为同名）
var corporateSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"llc":          true,
	"ltd":          true,
	"limited":      true,
	"co":           true,
	"corp":         true,
	"corporation":  true,
	"company":      true,
	"gmbh":         true,
}

// NormalizeName 归一化供应商名称用于模糊匹配：
// 小写、去标点、合并空白、剥离尾部公司后缀。
func NormalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == ',' || r == '&' || r == '/':
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())

	// 只剥离尾部后缀，且不能把名字剥空
	for len(tokens) > 1 && corporateSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// Levenshtein 计算编辑距离（两行DP，O(min(a,b))空间）
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// 保证 ra 为短串
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[i] = min3(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Similarity 归一化相似度，1.0 完全相同，0.0 完全不同
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

// NameScore 先归一化再算相似度，供应商名称匹配的主入口
func NameScore(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == nb && na != "" {
		return 1.0
	}
	return Similarity(na, nb)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
