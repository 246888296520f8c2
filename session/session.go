// Package session 提供推荐会话的存取。
//
// 会话保存用户的初始查询、追问问答与书架历史，JSON 序列化后写入
// core.Store（内存或 Redis），带统一 TTL；每次更新都会刷新 TTL。
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookwise/bookwise/core"
)

// DefaultTTL 是会话的默认有效期（秒）。
const DefaultTTL = 3600

// 会话状态
const (
	StatusReady      = "ready"       // 可发起推荐
	StatusProcessing = "processing"  // 书架历史仍在导入中
	StatusFailed     = "failed"      // 历史导入失败
)

// Session 是一次推荐会话。
type Session struct {
	ID        string              `json:"id"`
	Query     string              `json:"query"`              // 初始查询
	Status    string              `json:"status"`             // ready / processing / failed
	Questions map[int]string      `json:"questions,omitempty"` // 已生成的追问，按序号
	Answers   map[string]string   `json:"answers,omitempty"`   // question_N -> 回答
	History   []core.HistoryEntry `json:"history,omitempty"`   // 书架历史
	CreatedAt time.Time           `json:"created_at"`
}

// Manager 管理会话的创建、读取与更新。
type Manager struct {
	store core.Store
	ttl   int
}

// NewManager 创建会话管理器，ttl 单位为秒，0 表示使用 DefaultTTL。
func NewManager(store core.Store, ttl int) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create 创建新会话并持久化，返回带 ID 的会话。
func (m *Manager) Create(ctx context.Context, query string) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Query:     query,
		Status:    StatusReady,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get 读取会话，不存在或已过期返回 NOT_FOUND。
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	data, err := m.store.Get(ctx, sessionKey(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
				fmt.Sprintf("session %s not found or expired", id))
		}
		return nil, fmt.Errorf("session: get %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &s, nil
}

// Update 覆盖写入会话并刷新 TTL。
func (m *Manager) Update(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"session: missing id")
	}
	return m.put(ctx, s)
}

// Delete 删除会话。
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, sessionKey(id))
}

// SetHistory 写入书架历史并把状态置为 ready。
func (m *Manager) SetHistory(ctx context.Context, id string, history []core.HistoryEntry) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	s.History = history
	s.Status = StatusReady
	return m.put(ctx, s)
}

// SetAnswers 写入追问回答（question_N -> 回答）。
func (m *Manager) SetAnswers(ctx context.Context, id string, answers map[string]string) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Answers = answers
	return m.put(ctx, s)
}

// StoreQuestion 保存第 number 个已生成的追问，同号重复生成时作为缓存复用。
func (m *Manager) StoreQuestion(ctx context.Context, id string, number int, question string) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Questions == nil {
		s.Questions = make(map[int]string)
	}
	s.Questions[number] = question
	return m.put(ctx, s)
}

func (m *Manager) put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", s.ID, err)
	}
	if err := m.store.Set(ctx, sessionKey(s.ID), data, m.ttl); err != nil {
		return fmt.Errorf("session: save %s: %w", s.ID, err)
	}
	return nil
}
