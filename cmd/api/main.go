package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/config"
	"github.com/zhouzirui/chair-yoga/backend/internal/handler"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/insight"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
	"github.com/zhouzirui/chair-yoga/backend/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run 返回前会完成事件队列的清空与日志刷新。
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	// 埋点事件：日志 + 实时看板
	hub := analytics.NewHub()
	dispatcher := analytics.NewDispatcher(logger, cfg.Funnel.EventBuffer, analytics.LogSink(logger), hub)

	quizSvc := quiz.NewService(quiz.Config{
		SessionTTL:  cfg.Funnel.SessionTTL,
		CheckoutURL: cfg.Funnel.CheckoutURL,
	}, dispatcher, logger)

	insightSvc := newInsightService(ctx, cfg.AI, logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		quizSvc.Run(ctx, cfg.Funnel.SweepInterval)
	}()

	router := handler.NewRouter(quizSvc, insightSvc, hub, logger)

	serveErr := startServer(ctx, cfg.Server, router, logger)
	if serveErr != nil {
		logger.Error("server stopped with error", zap.Error(serveErr))
	}

	stop()
	dispatcher.Close()
	wg.Wait()
	return serveErr
}

// newInsightService 在配置了 Ark 凭证时启用大模型标题，否则只使用模板。
func newInsightService(ctx context.Context, aiCfg config.AIConfig, logger *zap.Logger) *insight.Service {
	insightCfg := insight.Config{
		Enabled: aiCfg.InsightLLMEnabled,
		Timeout: aiCfg.InsightTimeout,
	}

	var chatModel model.ChatModel
	switch {
	case !aiCfg.InsightLLMEnabled:
		logger.Info("insight headline LLM disabled by configuration")
	case !aiCfg.Enabled():
		logger.Info("Ark 凭证未配置，标题使用固定模板")
	default:
		cm, err := aiCfg.NewChatModel(ctx)
		if err != nil {
			logger.Warn("failed to initialize chat model, using template headlines", zap.Error(err))
		} else {
			chatModel = cm
		}
	}

	svc, err := insight.NewService(ctx, chatModel, insightCfg, logger)
	if err != nil {
		logger.Warn("failed to initialize insight service, using template headlines", zap.Error(err))
		svc, _ = insight.NewService(ctx, nil, insight.Config{}, logger)
	} else if svc.Enabled() {
		logger.Info("insight headline LLM enabled", zap.String("model", aiCfg.Model))
	}
	return svc
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("chair yoga funnel listening", zap.String("addr", addr))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
