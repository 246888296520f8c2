package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/bookwise/bookwise/core"
)

const recommendationsSchema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	book_id     TEXT NOT NULL,
	confidence  REAL NOT NULL,
	explanation TEXT NOT NULL,
	rank        INTEGER NOT NULL,
	trace_id    TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_session ON recommendations(session_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at);
`

// SQLiteRecommendationStore 是 SQLite 实现的推荐结果存储（纯 Go 驱动，无 cgo）。
// 追加写入，无更新/删除语义；行的去重不在此层（见 core.RecommendationStore）。
type SQLiteRecommendationStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteRecommendationStore 打开数据库并建表。
// path 可以是文件路径或 ":memory:"。
func NewSQLiteRecommendationStore(path string, log zerolog.Logger) (*SQLiteRecommendationStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL 提升并发读；SQLite 单写者，连接池收紧到 1
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(recommendationsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteRecommendationStore{db: db, log: log}, nil
}

// Save 在单个事务内追加写入一批推荐结果。
func (s *SQLiteRecommendationStore) Save(ctx context.Context, recs []*core.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations
			(id, session_id, book_id, confidence, explanation, rank, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range recs {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.SessionID, r.BookID, r.Confidence, r.Explanation, r.Rank, r.TraceID, createdAt,
		); err != nil {
			return fmt.Errorf("insert recommendation %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Debug().Int("count", len(recs)).Str("session_id", recs[0].SessionID).
		Msg("recommendations saved")
	return nil
}

// BySession 按会话查询推荐结果，按 Rank 升序返回。
func (s *SQLiteRecommendationStore) BySession(ctx context.Context, sessionID string) ([]*core.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, book_id, confidence, explanation, rank, trace_id, created_at
		FROM recommendations
		WHERE session_id = ?
		ORDER BY rank ASC, created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Recommendation
	for rows.Next() {
		r := &core.Recommendation{}
		var traceID sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.BookID, &r.Confidence,
			&r.Explanation, &r.Rank, &traceID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		r.TraceID = traceID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接。
func (s *SQLiteRecommendationStore) Close() error {
	return s.db.Close()
}
