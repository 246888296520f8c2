package recall

import "github.com/bookwise/bookwise/core"

// HighlyRated 返回已读完且评分不低于 threshold 的历史条目，保持输入顺序。
func HighlyRated(history []core.HistoryEntry, threshold int) []core.HistoryEntry {
	out := make([]core.HistoryEntry, 0, len(history))
	for _, e := range history {
		if e.IsRead() && e.UserRating >= threshold {
			out = append(out, e)
		}
	}
	return out
}

// Disliked 返回已读完且 0 < 评分 <= threshold 的历史条目，保持输入顺序。
// 评分 0 表示未评分，明确不算厌恶。
func Disliked(history []core.HistoryEntry, threshold int) []core.HistoryEntry {
	out := make([]core.HistoryEntry, 0, len(history))
	for _, e := range history {
		if e.IsRead() && e.UserRating > 0 && e.UserRating <= threshold {
			out = append(out, e)
		}
	}
	return out
}

// EntryIDs 提取条目的图书 ID，保持输入顺序。
func EntryIDs(entries []core.HistoryEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BookID)
	}
	return ids
}
