package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestRequestLogger はRequestLoggerミドルウェアを検証する。
func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "2xxはinfoで出力されること", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "4xxはwarnで出力されること", status: http.StatusUnauthorized, wantLevel: zapcore.WarnLevel},
		{name: "5xxはerrorで出力されること", status: http.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.DebugLevel)
			router := gin.New()
			router.Use(RequestID(), RequestLogger(zap.New(core)))
			router.GET("/test", func(c *gin.Context) {
				c.Set("username", "testuser")
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("ログ件数 = %d, want 1", len(entries))
			}
			if entries[0].Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", entries[0].Level, tt.wantLevel)
			}
			fields := entries[0].ContextMap()
			if fields["method"] != http.MethodGet || fields["path"] != "/test" {
				t.Errorf("method/path = %v %v", fields["method"], fields["path"])
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v, want %d", fields["status"], tt.status)
			}
			if fields["username"] != "testuser" {
				t.Errorf("username = %v, want %q", fields["username"], "testuser")
			}
			if id, _ := fields["request_id"].(string); id == "" {
				t.Error("request_idが出力されていない")
			}
		})
	}

	t.Run("未認証のリクエストではusernameを出力しないこと", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.DebugLevel)
		router := gin.New()
		router.Use(RequestLogger(zap.New(core)))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if logs.Len() != 1 {
			t.Fatalf("ログ件数 = %d, want 1", logs.Len())
		}
		if _, ok := logs.All()[0].ContextMap()["username"]; ok {
			t.Error("usernameが出力された")
		}
	})
}
