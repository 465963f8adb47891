package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Result は1件の翻訳結果。
type Result struct {
	// Text は翻訳後のテキスト。
	Text string
	// DetectedSourceLanguage はプロバイダが検出した翻訳元の言語コード。検出されない場合は空。
	DetectedSourceLanguage string
}

// Provider は外部の翻訳プロバイダ。
type Provider interface {
	// Translate はtextをtargetLanguageに翻訳する。
	Translate(ctx context.Context, text, targetLanguage string) (Result, error)
}

// ValidationError はリクエストの入力が不正であることを表す。
// プロバイダ呼び出し前に検出される。
type ValidationError struct {
	// Field は不正なフィールド名。
	Field string
	// Message はエラーの説明。
	Message string
}

// Error はエラーメッセージを返す。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FailedError は翻訳プロバイダの呼び出しに失敗したか、結果が空であったことを表す。
type FailedError struct {
	// Reason は利用者に返してよい失敗理由。
	Reason string
	// Err は元のエラー。
	Err error
}

// Error はエラーメッセージを返す。
func (e *FailedError) Error() string {
	return "Translation failed: " + e.Reason
}

// Unwrap は元のエラーを返す。
func (e *FailedError) Unwrap() error {
	return e.Err
}

// errEmptyResult はプロバイダが空の翻訳結果を返したことを表す。
var errEmptyResult = errors.New("translation result is empty")

// BatchItem は一括翻訳の1件分の結果。
// 成功時はTranslatedText、失敗時はErrorのいずれか一方のみが設定される。
type BatchItem struct {
	// SourceText は翻訳元のテキスト。
	SourceText string `json:"source_text"`
	// TranslatedText は翻訳後のテキスト。
	TranslatedText string `json:"translated_text,omitempty"`
	// Error は失敗理由。
	Error string `json:"error,omitempty"`
}

// Failed はこの項目の翻訳が失敗したかを返す。
func (i BatchItem) Failed() bool {
	return i.Error != ""
}

// Service は翻訳プロバイダへの要求と応答の整形を担当する。
type Service struct {
	// provider は翻訳プロバイダ。
	provider Provider
	// logger はログ出力先。
	logger *zap.Logger
}

// NewService は新しい翻訳サービスを生成する。
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// TranslateOne はtextをtargetLanguageに1回だけ翻訳する。
// 入力が空の場合は *ValidationError、プロバイダのエラーや空の結果の場合は *FailedError を返す。
func (s *Service) TranslateOne(ctx context.Context, text, targetLanguage string) (Result, error) {
	if err := validateTarget(targetLanguage); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, &ValidationError{Field: "text", Message: "must be a non-empty string"}
	}
	return s.translate(ctx, text, targetLanguage)
}

// TranslateBatch はtextsを入力順に1件ずつ翻訳する。
// 検証はプロバイダ呼び出し前に行い、textsが空またはtargetLanguageが空の場合のみ全体として失敗する。
// 個々の項目の失敗は BatchItem.Error に記録し、他の項目の翻訳は継続する。
func (s *Service) TranslateBatch(ctx context.Context, texts []string, targetLanguage string) ([]BatchItem, error) {
	if len(texts) == 0 {
		return nil, &ValidationError{Field: "texts", Message: "must be a non-empty list of strings"}
	}
	if err := validateTarget(targetLanguage); err != nil {
		return nil, err
	}

	items := make([]BatchItem, 0, len(texts))
	failed := 0
	for _, text := range texts {
		item := BatchItem{SourceText: text}
		if strings.TrimSpace(text) == "" {
			item.Error = "text must be a non-empty string"
		} else if res, err := s.translate(ctx, text, targetLanguage); err != nil {
			item.Error = reasonOf(err)
		} else {
			item.TranslatedText = res.Text
		}
		if item.Failed() {
			failed++
		}
		items = append(items, item)
	}

	s.logger.Debug("一括翻訳が完了しました",
		zap.Int("count", len(items)),
		zap.Int("failed", failed),
		zap.String("target_language", targetLanguage),
	)
	return items, nil
}

// translate はプロバイダを呼び出し、エラーを *FailedError に変換する。
func (s *Service) translate(ctx context.Context, text, targetLanguage string) (Result, error) {
	res, err := s.provider.Translate(ctx, text, targetLanguage)
	if err != nil {
		s.logger.Warn("翻訳プロバイダの呼び出しに失敗しました",
			zap.Int("text_length", len(text)),
			zap.String("target_language", targetLanguage),
			zap.Error(err),
		)
		return Result{}, &FailedError{Reason: err.Error(), Err: err}
	}
	if strings.TrimSpace(res.Text) == "" {
		s.logger.Warn("翻訳プロバイダが空の結果を返しました",
			zap.Int("text_length", len(text)),
			zap.String("target_language", targetLanguage),
		)
		return Result{}, &FailedError{Reason: errEmptyResult.Error(), Err: errEmptyResult}
	}
	return res, nil
}

// validateTarget は翻訳先の言語コードを検証する。
func validateTarget(targetLanguage string) error {
	if strings.TrimSpace(targetLanguage) == "" {
		return &ValidationError{Field: "target_language", Message: "must be a non-empty string"}
	}
	return nil
}

// reasonOf はエラーから利用者向けの失敗理由を取り出す。
func reasonOf(err error) string {
	var failed *FailedError
	if errors.As(err, &failed) {
		return failed.Reason
	}
	return err.Error()
}
