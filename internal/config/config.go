// Package config は環境変数と.envファイルからGatewayサービスの設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 翻訳プロバイダの識別子。
const (
	// ProviderGoogle はGoogle Cloud Translation API v2を表す。
	ProviderGoogle = "google"
	// ProviderEcho は入力をそのまま整形して返す開発用プロバイダを表す。
	ProviderEcho = "echo"
)

// 翻訳履歴ストアの識別子。
const (
	// HistoryBackendMemory はスライスによるインメモリストアを表す。
	HistoryBackendMemory = "memory"
	// HistoryBackendSQLite はインメモリSQLiteによるストアを表す。
	HistoryBackendSQLite = "sqlite"
)

// デフォルト値。
const (
	defaultPort               = "8000"
	defaultAccessTokenTTL     = 30 * time.Minute
	defaultUsers              = "testuser:password"
	defaultGoogleTranslateURL = "https://translation.googleapis.com"
	defaultTranslationTimeout = 10 * time.Second
	devJWTSecret              = "dev-secret-key"
)

// Config はGatewayサービス全体の設定。
type Config struct {
	// Env は実行環境名（development, production等）。
	Env string
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// LogLevel はzapのログレベル（debug, info, warn, error）。
	LogLevel string
	// Auth は認証関連の設定。
	Auth AuthConfig
	// Translation は翻訳プロバイダ関連の設定。
	Translation TranslationConfig
	// HistoryBackend は翻訳履歴ストアの種類。
	HistoryBackend string
	// CORSAllowedOrigins はクロスオリジンリクエストを許可するオリジンの一覧。
	CORSAllowedOrigins []string
}

// AuthConfig は認証関連の設定。
type AuthConfig struct {
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// AccessTokenTTL はアクセストークンの有効期間。
	AccessTokenTTL time.Duration
	// Users はユーザー名からパスワードへの固定マッピング。
	Users map[string]string
}

// TranslationConfig は翻訳プロバイダ関連の設定。
type TranslationConfig struct {
	// Provider は使用する翻訳プロバイダ（google, echo）。
	Provider string
	// GoogleAPIKey はGoogle Cloud Translation APIのAPIキー。
	GoogleAPIKey string
	// GoogleBaseURL はGoogle Cloud Translation APIのベースURL。
	GoogleBaseURL string
	// Timeout は翻訳プロバイダ呼び出しのタイムアウト。
	Timeout time.Duration
}

// IsDevelopment は開発環境で動作しているかを返す。
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load は環境変数から設定を読み込み、検証する。
// カレントディレクトリに.envファイルがあれば先に読み込む（存在しなくてもエラーにしない）。
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		Env:                getEnvOr("APP_ENV", "production"),
		Port:               getEnvOr("PORT", defaultPort),
		LogLevel:           getEnvOr("LOG_LEVEL", "info"),
		HistoryBackend:     strings.ToLower(getEnvOr("HISTORY_BACKEND", HistoryBackendMemory)),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Translation: TranslationConfig{
			Provider:      strings.ToLower(getEnvOr("TRANSLATION_PROVIDER", ProviderGoogle)),
			GoogleAPIKey:  os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
			GoogleBaseURL: getEnvOr("GOOGLE_TRANSLATE_URL", defaultGoogleTranslateURL),
		},
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		if cfg.IsDevelopment() {
			cfg.Auth.JWTSecret = devJWTSecret
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
	}

	ttl, err := getDurationOr("ACCESS_TOKEN_TTL", defaultAccessTokenTTL)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Auth.AccessTokenTTL = ttl

	users, err := ParseUsers(getEnvOr("AUTH_USERS", defaultUsers))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Auth.Users = users

	timeout, err := getDurationOr("TRANSLATION_TIMEOUT", defaultTranslationTimeout)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Translation.Timeout = timeout

	switch cfg.Translation.Provider {
	case ProviderGoogle:
		if cfg.Translation.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_TRANSLATE_API_KEY is required for the google provider"))
		}
	case ProviderEcho:
	default:
		errs = append(errs, fmt.Errorf("unsupported TRANSLATION_PROVIDER: %q", cfg.Translation.Provider))
	}

	switch cfg.HistoryBackend {
	case HistoryBackendMemory, HistoryBackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported HISTORY_BACKEND: %q", cfg.HistoryBackend))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// ParseUsers は "user:pass,user2:pass2" 形式の文字列をユーザー名とパスワードのマップに変換する。
// パスワードにはコロンを含めてよい（最初のコロンで分割する）。
func ParseUsers(raw string) (map[string]string, error) {
	users := make(map[string]string)
	for _, pair := range splitList(raw) {
		name, password, ok := strings.Cut(pair, ":")
		if !ok || name == "" || password == "" {
			return nil, fmt.Errorf("invalid AUTH_USERS entry: %q", pair)
		}
		if _, dup := users[name]; dup {
			return nil, fmt.Errorf("duplicate AUTH_USERS entry: %q", name)
		}
		users[name] = password
	}
	if len(users) == 0 {
		return nil, errors.New("AUTH_USERS must contain at least one user")
	}
	return users, nil
}

// splitList はカンマ区切りの文字列を分割し、空要素を除いて返す。
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getDurationOr は環境変数をtime.Durationとして取得する。未設定の場合はデフォルト値を返す。
func getDurationOr(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
