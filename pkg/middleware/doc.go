// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// Bearerトークンの検証、リクエストIDの付与、構造化リクエストログ、
// パニックリカバリ、CORS設定などを含む。
package middleware
