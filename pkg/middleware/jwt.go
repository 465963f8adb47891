package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKeyUsername は認証済みユーザー名をGinコンテキストに格納するキー。
const contextKeyUsername = "username"

// TokenVerifier はBearerトークンを検証し、トークンの主体を返す。
type TokenVerifier interface {
	// Verify はトークンを検証し、subクレームのユーザー名を返す。
	Verify(token string) (string, error)
}

// BearerAuth はAuthorizationヘッダーのBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに "username" を設定する。
// 失敗した場合は401と {"detail": ...} を返し、後続のハンドラを実行しない。
func BearerAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			abortUnauthorized(c, "Invalid authentication credentials")
			return
		}

		username, err := verifier.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c, capitalize(err.Error()))
			return
		}

		c.Set(contextKeyUsername, username)
		c.Next()
	}
}

// GetUsername はGinコンテキストから認証済みユーザー名を取得する。
// BearerAuthミドルウェアが事前に適用されている必要がある。
func GetUsername(c *gin.Context) string {
	username, _ := c.Get(contextKeyUsername)
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}

// abortUnauthorized は401レスポンスを返してリクエスト処理を中断する。
func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// capitalize は先頭のASCII英小文字を大文字にする。
func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
