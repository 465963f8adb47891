// Package httpclient は外部APIとのJSON通信を行うクライアントを提供する。
//
// 翻訳プロバイダ等の外部サービスを呼び出す際に使用する。
// タイムアウトと共通ヘッダーをまとめて設定し、
// 2xx以外の応答を StatusError として呼び出し元に返す。
package httpclient
