// Package auth はログイン時の資格情報照合とアクセストークンの発行・検証を提供する。
//
// CredentialStore は起動時に読み込む固定のユーザー一覧を保持し、
// TokenService はHS256で署名したステートレスなJWTを扱う。
// サーバー側にセッションを持たないため、発行済みトークンを失効させる手段はない。
package auth
