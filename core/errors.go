package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 终止性失败（无候选、模型输出不可用、上游不可用）使用此类型向上传播
//   - “数据稀疏”类缺失（查无此书、向量未生成、越界的候选序号）是预期内的
//     静默跳过路径，走非错误返回，不使用此类型
type DomainError struct {
	Code    string // 错误代码（如 "NO_CANDIDATES"）
	Message string // 错误消息
	Module  string // 模块名称（如 "recall", "rank"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError（支持 wrap 链），如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeNoCandidates    = "NO_CANDIDATES"    // 检索阶段产出零候选
	ErrorCodeEmptySelection  = "EMPTY_SELECTION"  // 选择阶段映射后零有效结果
	ErrorCodeMalformedOutput = "MALFORMED_OUTPUT" // 模型响应不符合结构化约定
	ErrorCodeUnavailable     = "UNAVAILABLE"      // 上游服务不可用
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 目录模块
	ModuleRecall  = "recall"  // 召回模块
	ModuleRank    = "rank"    // 选择模块
	ModuleRecord  = "record"  // 落库模块
	ModuleEmbed   = "embed"   // 向量模块
	ModuleLLM     = "llm"     // 生成模型模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNoCandidates 检查错误是否为 NO_CANDIDATES。
func IsNoCandidates(err error) bool { return hasCode(err, ErrorCodeNoCandidates) }

// IsEmptySelection 检查错误是否为 EMPTY_SELECTION。
func IsEmptySelection(err error) bool { return hasCode(err, ErrorCodeEmptySelection) }

// IsMalformedOutput 检查错误是否为 MALFORMED_OUTPUT。
func IsMalformedOutput(err error) bool { return hasCode(err, ErrorCodeMalformedOutput) }

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// Store 错误定义
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, "NOT_SUPPORTED", "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在。
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}
