// Package gateway は翻訳ゲートウェイのHTTPサーバーを提供する。
//
// ログイン、Bearerトークン認証、翻訳プロバイダへの単発・一括翻訳、
// 翻訳履歴の参照と一括削除を1つのGinルーターにまとめる。
// 翻訳と履歴のエンドポイントはすべて認証必須である。
package gateway
