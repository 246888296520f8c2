// Package conv 提供配置 map 的类型转换工具，用于简化 Node 工厂中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从配置 map 中取 key 并断言为 T，失败时返回默认值。
func ConfigGet[T any](config map[string]any, key string, def T) T {
	if config == nil {
		return def
	}
	v, ok := config[key]
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

// ConfigGetInt 从配置 map 中取整型（兼容 YAML/JSON 解析出的 int/float64）。
func ConfigGetInt(config map[string]any, key string, def int) int {
	if config == nil {
		return def
	}
	v, ok := config[key]
	if !ok {
		return def
	}
	if n, ok := ToInt(v); ok {
		return n
	}
	return def
}

// ConfigGetFloat 从配置 map 中取浮点型（兼容 YAML/JSON 解析出的 int/float64）。
func ConfigGetFloat(config map[string]any, key string, def float64) float64 {
	if config == nil {
		return def
	}
	v, ok := config[key]
	if !ok {
		return def
	}
	if f, ok := ToFloat64(v); ok {
		return f
	}
	return def
}

// SliceAnyToString 将 []any 转为 []string，非字符串条目被跳过。
func SliceAnyToString(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
