package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier はテスト用のTokenVerifier。
// tokensに登録されたトークンのみ有効とする。
type stubVerifier struct {
	tokens map[string]string
}

func (v stubVerifier) Verify(token string) (string, error) {
	if username, ok := v.tokens[token]; ok {
		return username, nil
	}
	return "", errors.New("invalid token: token has expired")
}

// newAuthRouter はBearerAuthを適用したテスト用ルーターを生成する。
// /test は認証済みユーザー名を返す。
func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.Use(BearerAuth(stubVerifier{tokens: map[string]string{"good-token": "testuser"}}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetUsername(c)})
	})
	return router
}

// decodeBody はレスポンスボディを文字列マップとしてパースする。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスボディのパースに失敗: %v", err)
	}
	return body
}

// TestBearerAuth はBearerAuthミドルウェアを検証する。
func TestBearerAuth(t *testing.T) {
	t.Parallel()

	t.Run("有効なトークンでリクエストが成功しユーザー名が設定されること", func(t *testing.T) {
		t.Parallel()

		for _, header := range []string{"Bearer good-token", "bearer good-token", "Bearer  good-token"} {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			newAuthRouter().ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("%q: ステータスコード = %d, want %d", header, w.Code, http.StatusOK)
				continue
			}
			if got := decodeBody(t, w)["username"]; got != "testuser" {
				t.Errorf("%q: username = %q, want %q", header, got, "testuser")
			}
		}
	})

	t.Run("Authorizationヘッダーが無い場合401が返ること", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		newAuthRouter().ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, w)["detail"]; got != "Not authenticated" {
			t.Errorf("detail = %q, want %q", got, "Not authenticated")
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
		}
	})

	t.Run("Bearer形式でない場合401が返ること", func(t *testing.T) {
		t.Parallel()

		for _, header := range []string{"good-token", "Basic dXNlcjpwYXNz", "Bearer", "Bearer   "} {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			newAuthRouter().ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("%q: ステータスコード = %d, want %d", header, w.Code, http.StatusUnauthorized)
				continue
			}
			if got := decodeBody(t, w)["detail"]; got != "Invalid authentication credentials" {
				t.Errorf("%q: detail = %q", header, got)
			}
		}
	})

	t.Run("検証に失敗した場合は理由付きで401が返ること", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		w := httptest.NewRecorder()

		newAuthRouter().ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, w)["detail"]; got != "Invalid token: token has expired" {
			t.Errorf("detail = %q, want %q", got, "Invalid token: token has expired")
		}
	})

	t.Run("認証に失敗した場合は後続のハンドラが実行されないこと", func(t *testing.T) {
		t.Parallel()

		called := false
		router := gin.New()
		router.Use(BearerAuth(stubVerifier{}))
		router.GET("/test", func(c *gin.Context) {
			called = true
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer anything")
		router.ServeHTTP(httptest.NewRecorder(), req)

		if called {
			t.Error("後続のハンドラが実行された")
		}
	})
}

// TestGetUsername はGetUsername関数を検証する。
func TestGetUsername(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストにusernameが設定されている場合に取得できること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("username", "testuser")

		if got := GetUsername(c); got != "testuser" {
			t.Errorf("GetUsername() = %q, want %q", got, "testuser")
		}
	})

	t.Run("コンテキストにusernameが設定されていない場合に空文字列が返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		if got := GetUsername(c); got != "" {
			t.Errorf("GetUsername() = %q, want empty string", got)
		}
	})

	t.Run("usernameが文字列以外の型の場合に空文字列が返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("username", 12345)
		if got := GetUsername(c); got != "" {
			t.Errorf("GetUsername() = %q, want empty string", got)
		}
	})
}

// TestCapitalize はcapitalize関数を検証する。
func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"invalid token: x": "Invalid token: x",
		"Already":          "Already",
		"":                 "",
		"1abc":             "1abc",
		"日本語":              "日本語",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
