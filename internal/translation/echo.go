package translation

import (
	"context"
	"fmt"
)

// EchoProvider は外部APIを呼び出さず、入力を整形した文字列を返す開発用プロバイダ。
// APIキーが無いローカル環境での動作確認に使用する。
type EchoProvider struct{}

var _ Provider = EchoProvider{}

// Translate は "Translated '<text>' to '<targetLanguage>'" を返す。
func (EchoProvider) Translate(_ context.Context, text, targetLanguage string) (Result, error) {
	return Result{Text: fmt.Sprintf("Translated '%s' to '%s'", text, targetLanguage)}, nil
}
