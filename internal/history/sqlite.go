package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nao1215/transgate/pkg/migration"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// memoryDSN はプロセス内でのみ存在するSQLiteデータベースを指す。
const memoryDSN = ":memory:"

// SQLiteStore はインメモリSQLiteを使用する履歴ストア。
// :memory: のデータベースは接続ごとに独立するため、接続を1本に固定する。
// これにより全操作がその接続上で直列化される。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore はインメモリSQLiteを開き、スキーマを適用した履歴ストアを生成する。
func NewSQLiteStore(ctx context.Context, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := migration.Run(ctx, db, migrationsFS, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close はデータベース接続を閉じる。閉じた時点で履歴は失われる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append は履歴の末尾にエントリを追加する。
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO translation_history (source_text, translated_text, created_at) VALUES (?, ?, ?)",
		e.SourceText, e.TranslatedText, e.Timestamp.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("翻訳履歴の追加に失敗: %w", err)
	}
	return nil
}

// List は全履歴を追加順に返す。
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source_text, translated_text, created_at FROM translation_history ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("翻訳履歴の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			createdAt string
		)
		if err := rows.Scan(&e.SourceText, &e.TranslatedText, &createdAt); err != nil {
			return nil, fmt.Errorf("翻訳履歴の読み取りに失敗: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("翻訳日時の解析に失敗: %w", err)
		}
		e.Timestamp = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("翻訳履歴の取得に失敗: %w", err)
	}
	return entries, nil
}

// Clear は全履歴を破棄する。
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM translation_history"); err != nil {
		return fmt.Errorf("翻訳履歴のクリアに失敗: %w", err)
	}
	return nil
}
