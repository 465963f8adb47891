package history

import (
	"context"
	"sync"
	"time"
)

// Entry は1件の翻訳履歴。生成後に変更しない。
type Entry struct {
	// SourceText は翻訳元のテキスト。
	SourceText string `json:"source_text"`
	// TranslatedText は翻訳後のテキスト。
	TranslatedText string `json:"translated_text"`
	// Timestamp は翻訳日時（UTC）。
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry は現在時刻（UTC）をタイムスタンプとする履歴エントリを生成する。
func NewEntry(sourceText, translatedText string) Entry {
	return Entry{
		SourceText:     sourceText,
		TranslatedText: translatedText,
		Timestamp:      time.Now().UTC(),
	}
}

// Store は翻訳履歴の保存先。
// 実装は Append, List, Clear を互いに直列化しなければならない。
type Store interface {
	// Append は履歴の末尾にエントリを追加する。
	Append(ctx context.Context, e Entry) error
	// List は全履歴を追加順（古い順）に返す。履歴が無い場合は空スライスを返す。
	List(ctx context.Context) ([]Entry, error)
	// Clear は全履歴を破棄する。
	Clear(ctx context.Context) error
}

// MemoryStore はスライスをミューテックスで保護したインメモリの履歴ストア。
type MemoryStore struct {
	// mu はentriesを保護する。
	mu sync.RWMutex
	// entries は追加順に並んだ履歴。
	entries []Entry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore は空のインメモリ履歴ストアを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append は履歴の末尾にエントリを追加する。
func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// List は全履歴のコピーを追加順に返す。
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Clear は全履歴を破棄する。
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
