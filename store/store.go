package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store、core.CatalogStore 和 core.RecommendationStore 接口。
//
// 示例：
//   var kv core.Store = store.NewMemoryStore()
//   var catalog core.CatalogStore = store.NewMemoryCatalog(1536)
