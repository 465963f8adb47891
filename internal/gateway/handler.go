package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/transgate/internal/auth"
	"github.com/nao1215/transgate/internal/history"
	"github.com/nao1215/transgate/internal/translation"
	"github.com/nao1215/transgate/pkg/middleware"
)

// loginRequest はログインリクエスト。フォームとJSONの両方を受け付ける。
type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// tokenResponse はログイン成功時のレスポンス。
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// translateRequest は単発翻訳リクエスト。
type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

// translateResponse は単発翻訳のレスポンス。
type translateResponse struct {
	TranslatedText         string `json:"translated_text"`
	DetectedSourceLanguage string `json:"detected_source_language,omitempty"`
}

// batchTranslateRequest は一括翻訳リクエスト。
type batchTranslateRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"target_language"`
}

// batchTranslateResponse は一括翻訳のレスポンス。
type batchTranslateResponse struct {
	Translations []translation.BatchItem `json:"translations"`
	RequestedBy  string                  `json:"requested_by"`
}

// handleLogin はユーザー名とパスワードを照合し、アクセストークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			writeBadRequest(c, "username and password are required", err)
			return
		}

		cred, ok := s.credentials.Authenticate(req.Username, req.Password)
		if !ok {
			s.logger.Info("ログインに失敗しました", zap.String("username", req.Username))
			s.writeError(c, auth.ErrInvalidCredentials)
			return
		}

		token, err := s.tokens.Issue(cred.Username)
		if err != nil {
			s.writeError(c, fmt.Errorf("トークン生成に失敗: %w", err))
			return
		}

		s.logger.Info("ログインしました", zap.String("username", cred.Username))
		c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// handleProtected は認証済みユーザーへの挨拶を返すハンドラを返す。
func (s *Server) handleProtected() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Welcome, %s!", middleware.GetUsername(c))})
	}
}

// handleCurrentUser は認証済みユーザーの情報を返すハンドラを返す。
func (s *Server) handleCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": middleware.GetUsername(c)})
	}
}

// handleTranslate は1件のテキストを翻訳し、成功時に履歴へ追加するハンドラを返す。
func (s *Server) handleTranslate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req translateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, detailInvalidBody, err)
			return
		}

		res, err := s.translator.TranslateOne(c.Request.Context(), req.Text, req.TargetLanguage)
		if err != nil {
			s.writeError(c, err)
			return
		}

		// 翻訳が成功した後はクライアントが切断しても履歴を残す。
		appendCtx := context.WithoutCancel(c.Request.Context())
		if err := s.history.Append(appendCtx, history.NewEntry(req.Text, res.Text)); err != nil {
			s.logger.Error("翻訳履歴の追加に失敗しました",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
		}

		c.JSON(http.StatusOK, translateResponse{
			TranslatedText:         res.Text,
			DetectedSourceLanguage: res.DetectedSourceLanguage,
		})
	}
}

// handleBatchTranslate は複数のテキストを入力順に翻訳するハンドラを返す。
// 一括翻訳は履歴に追加しない。
func (s *Server) handleBatchTranslate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req batchTranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "texts must be a list of strings and target_language must be a string", err)
			return
		}

		items, err := s.translator.TranslateBatch(c.Request.Context(), req.Texts, req.TargetLanguage)
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, batchTranslateResponse{
			Translations: items,
			RequestedBy:  middleware.GetUsername(c),
		})
	}
}

// handleClearHistory は全翻訳履歴を破棄するハンドラを返す。
func (s *Server) handleClearHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.history.Clear(c.Request.Context()); err != nil {
			s.writeError(c, fmt.Errorf("翻訳履歴の削除に失敗: %w", err))
			return
		}
		s.logger.Info("翻訳履歴を削除しました", zap.String("username", middleware.GetUsername(c)))
		c.JSON(http.StatusOK, gin.H{"message": "All translation history has been cleared."})
	}
}

// handleGetHistory は全翻訳履歴を追加順に返すハンドラを返す。
func (s *Server) handleGetHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.history.List(c.Request.Context())
		if err != nil {
			s.writeError(c, fmt.Errorf("翻訳履歴の取得に失敗: %w", err))
			return
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}
