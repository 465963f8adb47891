// Package history は翻訳履歴をプロセス内に保持するストアを提供する。
//
// 履歴は追加順に並んだ追記専用の列で、一括クリアでのみ空に戻る。
// エントリにユーザー情報は持たせず、認証済みの全ユーザーで共有する。
// ストアはプロセスローカルなので、複数インスタンス構成では各インスタンスが別々の履歴を持つ。
package history
