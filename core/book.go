package core

import "time"

// Shelf 表示一本书在用户书架上的状态。
// 只有 ShelfRead（已读完）的条目参与偏好推断；
// to-read / currently-reading 仅用于排除，不产生正负信号。
const (
	ShelfRead             = "read"
	ShelfCurrentlyReading = "currently-reading"
	ShelfToRead           = "to-read"
)

// Book 是目录中的图书实体：元数据 + 语义向量。
// ISBN 是唯一业务标识（写入时据此去重）；Embedding 一旦生成不做原地修改，
// 重新算向量意味着产生一个新的切片。
type Book struct {
	ID            string
	ISBN          string
	Title         string
	Author        string
	Description   string
	Categories    []string
	PageCount     int
	Publisher     string
	PublishedYear int
	Language      string
	AverageRating float64
	RatingsCount  int
	CoverURL      string
	Embedding     []float64
	Source        string
	CreatedAt     time.Time
}

// HasEmbedding 判断该书是否已生成向量。
func (b *Book) HasEmbedding() bool {
	return b != nil && len(b.Embedding) > 0
}

// EmbeddingText 返回用于生成向量的文本表示。
func (b *Book) EmbeddingText() string {
	if b.Description != "" {
		return b.Title + " by " + b.Author + ". " + b.Description
	}
	return b.Title + " by " + b.Author
}

// HistoryEntry 是单次请求携带的用户历史条目（不落库）。
// UserRating 取值 0..5，0 表示未评分。
type HistoryEntry struct {
	BookID     string
	Title      string
	Author     string
	UserRating int
	Shelf      string
}

// IsRead 判断条目是否为已读完状态。
func (e HistoryEntry) IsRead() bool {
	return e.Shelf == ShelfRead
}
