// Package translation は外部の翻訳プロバイダへの単発・一括の翻訳要求を扱う。
//
// プロバイダやHTTPクライアント由来のエラーはこのパッケージの境界で
// ValidationError または FailedError に変換され、HTTP層には利用者向けの文言だけが渡る。
// 一括翻訳では項目ごとの失敗を結果に記録し、全体を失敗させない。
package translation
