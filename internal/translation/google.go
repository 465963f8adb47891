package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/nao1215/transgate/pkg/httpclient"
)

// googleTranslatePath はGoogle Cloud Translation API v2の翻訳エンドポイント。
const googleTranslatePath = "/language/translate/v2"

// googleAPIKeyHeader はAPIキーを渡すヘッダー。URLに鍵を含めないためクエリではなくヘッダーを使う。
const googleAPIKeyHeader = "X-Goog-Api-Key"

// GoogleProvider はGoogle Cloud Translation API v2 (REST) を呼び出す翻訳プロバイダ。
type GoogleProvider struct {
	// client はAPI呼び出し用のHTTPクライアント。
	client *httpclient.Client
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider は新しいGoogleProviderを生成する。
// APIキーは X-Goog-Api-Key ヘッダーとして全リクエストに付与する。
func NewGoogleProvider(baseURL, apiKey string, timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		client: httpclient.New(baseURL,
			httpclient.WithTimeout(timeout),
			httpclient.WithHeader(googleAPIKeyHeader, apiKey),
		),
	}
}

// googleTranslateRequest は翻訳APIへのリクエストボディ。
type googleTranslateRequest struct {
	// Q は翻訳対象のテキスト。
	Q []string `json:"q"`
	// Target は翻訳先の言語コード。
	Target string `json:"target"`
	// Format は入力の形式。textを指定するとHTMLエスケープされない。
	Format string `json:"format"`
}

// googleTranslateResponse は翻訳APIのレスポンスボディ。
type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

// googleErrorResponse は翻訳APIのエラーレスポンスボディ。
type googleErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// providerError は翻訳プロバイダ呼び出しの失敗を利用者向けの文言で表す。
type providerError struct {
	msg string
	err error
}

func (e *providerError) Error() string { return e.msg }

func (e *providerError) Unwrap() error { return e.err }

// Translate はtextをtargetLanguageに翻訳する。
func (p *GoogleProvider) Translate(ctx context.Context, text, targetLanguage string) (Result, error) {
	var resp googleTranslateResponse
	err := p.client.PostJSON(ctx, googleTranslatePath, googleTranslateRequest{
		Q:      []string{text},
		Target: targetLanguage,
		Format: "text",
	}, &resp)
	if err != nil {
		return Result{}, describeGoogleError(err)
	}
	if len(resp.Data.Translations) == 0 {
		return Result{}, &providerError{msg: "translation provider returned no translations"}
	}

	t := resp.Data.Translations[0]
	return Result{
		Text:                   t.TranslatedText,
		DetectedSourceLanguage: t.DetectedSourceLanguage,
	}, nil
}

// describeGoogleError はHTTPクライアントのエラーを利用者向けの説明に変換する。
func describeGoogleError(err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		var body googleErrorResponse
		if json.Unmarshal(statusErr.Body, &body) == nil && body.Error.Message != "" {
			return &providerError{
				msg: fmt.Sprintf("translation provider returned status %d: %s", statusErr.StatusCode, body.Error.Message),
				err: err,
			}
		}
		return &providerError{
			msg: fmt.Sprintf("translation provider returned status %d", statusErr.StatusCode),
			err: err,
		}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &providerError{msg: "translation provider timed out", err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &providerError{msg: "translation request was canceled", err: err}
	}
	return &providerError{msg: "translation provider is unreachable", err: err}
}
