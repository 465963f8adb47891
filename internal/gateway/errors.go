package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/transgate/internal/auth"
	"github.com/nao1215/transgate/internal/translation"
	"github.com/nao1215/transgate/pkg/middleware"
)

// エラー応答のdetailに使う固定文言。
const (
	detailInvalidCredentials = "Invalid username or password"
	detailInvalidBody        = "Invalid request body"
	detailInternal           = "Internal server error"
)

// writeError はエラーの種類に応じたステータスコードと {"detail": ...} を返す。
// 想定外のエラーは内容を伏せて500とし、ログに記録する。
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		verr   *translation.ValidationError
		failed *translation.FailedError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Error()})
	case errors.As(err, &failed):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": failed.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": detailInvalidCredentials})
	default:
		s.logger.Error("リクエストの処理に失敗しました",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
	}
	_ = c.Error(err)
}

// writeBadRequest はリクエストボディの解析に失敗した場合の400を返す。
func writeBadRequest(c *gin.Context, detail string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
	_ = c.Error(err)
}
