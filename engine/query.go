package engine

import (
	"fmt"
	"sort"
	"strings"
)

// BuildEnhancedQuery 把初始查询与追问问答拼成增强查询文本。
//
// 有问题与回答时按序号输出 Q/A 对，未回答的问答对整体跳过；
// 只有回答没有问题文本时退化为 key: value 行。输出行序稳定。
func BuildEnhancedQuery(query string, questions map[int]string, answers map[string]string) string {
	parts := []string{"Initial request: " + query}

	switch {
	case len(answers) > 0 && len(questions) > 0:
		nums := make([]int, 0, len(questions))
		for n := range questions {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		for _, n := range nums {
			answer := answers[fmt.Sprintf("question_%d", n)]
			if answer == "" {
				continue
			}
			parts = append(parts, "Q: "+questions[n], "A: "+answer)
		}
	case len(answers) > 0:
		keys := make([]string, 0, len(answers))
		for k := range answers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if answers[k] != "" {
				parts = append(parts, k+": "+answers[k])
			}
		}
	}

	return strings.Join(parts, "\n")
}
