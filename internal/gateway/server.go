package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/transgate/internal/auth"
	"github.com/nao1215/transgate/internal/config"
	"github.com/nao1215/transgate/internal/history"
	"github.com/nao1215/transgate/internal/translation"
	"github.com/nao1215/transgate/pkg/middleware"
)

// shutdownTimeout はグレースフルシャットダウンで処理中のリクエストを待つ最大時間。
const shutdownTimeout = 10 * time.Second

// Server は翻訳ゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// logger はログ出力先。
	logger *zap.Logger
	// tokens はアクセストークンの発行と検証を行う。
	tokens *auth.TokenService
	// credentials はログイン可能なユーザーの資格情報。
	credentials *auth.CredentialStore
	// translator は翻訳プロバイダへの要求を扱う。
	translator *translation.Service
	// history は翻訳履歴の保存先。
	history history.Store
	// closers はシャットダウン時に解放するリソース。
	closers []func() error
}

// options はNewServerの任意設定。
type options struct {
	provider     translation.Provider
	store        history.Store
	passwordCost int
}

// Option はNewServerの任意設定を行う関数。
type Option func(*options)

// WithProvider は設定に関わらず指定の翻訳プロバイダを使う。
func WithProvider(p translation.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithHistoryStore は設定に関わらず指定の履歴ストアを使う。
func WithHistoryStore(s history.Store) Option {
	return func(o *options) { o.store = s }
}

// WithPasswordCost はパスワードハッシュのbcryptコストを指定する。
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

// NewServer は設定から翻訳ゲートウェイのサーバーを生成する。
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{passwordCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	credentials, err := auth.NewCredentialStore(cfg.Auth.Users, o.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("資格情報ストアの初期化に失敗: %w", err)
	}

	provider := o.provider
	if provider == nil {
		provider, err = newProvider(cfg.Translation)
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		port:        cfg.Port,
		logger:      logger,
		tokens:      auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		credentials: credentials,
		translator:  translation.NewService(provider, logger.Named("translation")),
		history:     o.store,
	}

	if s.history == nil {
		if err := s.openHistory(ctx, cfg.HistoryBackend); err != nil {
			return nil, err
		}
	}

	s.router = gin.New()
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(logger.Named("http")))
	s.router.Use(middleware.Recovery(logger))
	s.router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	s.setupRoutes()

	logger.Info("Gatewayサーバーを初期化しました",
		zap.String("translation_provider", fmt.Sprintf("%T", provider)),
		zap.String("history_backend", fmt.Sprintf("%T", s.history)),
		zap.Int("users", credentials.Len()),
		zap.Duration("access_token_ttl", s.tokens.TTL()),
	)
	return s, nil
}

// newProvider は設定に応じた翻訳プロバイダを生成する。
func newProvider(cfg config.TranslationConfig) (translation.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		return translation.NewGoogleProvider(cfg.GoogleBaseURL, cfg.GoogleAPIKey, cfg.Timeout), nil
	case config.ProviderEcho:
		return translation.EchoProvider{}, nil
	default:
		return nil, fmt.Errorf("未対応の翻訳プロバイダ: %s", cfg.Provider)
	}
}

// openHistory は設定に応じた履歴ストアを開く。
func (s *Server) openHistory(ctx context.Context, backend string) error {
	switch backend {
	case config.HistoryBackendSQLite:
		store, err := history.NewSQLiteStore(ctx, s.logger.Named("history"))
		if err != nil {
			return fmt.Errorf("履歴ストアの初期化に失敗: %w", err)
		}
		s.history = store
		s.closers = append(s.closers, store.Close)
	case config.HistoryBackendMemory, "":
		s.history = history.NewMemoryStore()
	default:
		return fmt.Errorf("未対応の履歴ストア: %s", backend)
	}
	return nil
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Gatewayサービスを起動します", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Gatewayサービスを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

// close はシャットダウン時にリソースを解放する。
func (s *Server) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("リソースの解放に失敗しました", zap.Error(err))
		}
	}
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Translation gateway is running"})
	})
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	requireAuth := middleware.BearerAuth(s.tokens)

	authGroup := s.router.Group("/auth")
	{
		authGroup.POST("/login", s.handleLogin())
		authGroup.GET("/protected", requireAuth, s.handleProtected())
	}

	s.router.GET("/users/me", requireAuth, s.handleCurrentUser())

	translationGroup := s.router.Group("/translation", requireAuth)
	{
		translationGroup.POST("/translate", s.handleTranslate())
		translationGroup.POST("/batch-translate", s.handleBatchTranslate())
	}

	s.router.DELETE("/history/clear-history", requireAuth, s.handleClearHistory())
	s.router.GET("/get-history/", requireAuth, s.handleGetHistory())
}
