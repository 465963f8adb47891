// 翻訳ゲートウェイのエントリポイント。
// ログイン、Bearerトークン認証、翻訳プロバイダへの中継、翻訳履歴を担当する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nao1215/transgate/internal/config"
	"github.com/nao1215/transgate/internal/gateway"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Gatewayサービスが異常終了しました: %v", err)
	}
}

// run は設定を読み込み、シグナルを受け取るまでサーバーを動かす。
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := gateway.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Gatewayサーバーの初期化に失敗しました", zap.Error(err))
		return err
	}
	return server.Run(ctx)
}

// newLogger は実行環境とログレベルに応じたzapロガーを生成する。
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build(zap.Fields(zap.String("service", "gateway")))
}
