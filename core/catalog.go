package core

import "context"

// CatalogStore 是图书目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 实现：
//   - store.MemoryCatalog 实现此接口（内存 + 暴力余弦搜索）
//   - pgvector / Milvus 等向量数据库后端也可以实现此接口
type CatalogStore interface {
	// Nearest 以余弦相似度检索与 vector 最接近的 k 本书，
	// 结果按相似度降序排列，excludeIDs 中的书目被排除在外。
	Nearest(ctx context.Context, vector []float64, k int, excludeIDs []string) ([]*Candidate, error)

	// ByIDs 按 ID 精确查询，顺序不保证；查不到的 ID 被静默省略。
	ByIDs(ctx context.Context, ids []string) ([]*Book, error)

	// Insert 批量写入图书，ISBN 冲突的条目静默跳过（幂等），返回实际写入数。
	Insert(ctx context.Context, books []*Book) (int, error)
}
