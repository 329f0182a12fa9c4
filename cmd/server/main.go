package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.LogError("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
		config.LoadEnv(cfg)
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Logger().Fatalf("创建服务器失败: %v", err)
	}

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.LogInfo("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.LogError("关闭服务器出错: %v", err)
		}
	}()

	logger.LogInfo("🂡 Sette e Mezzo 服务器启动中...")
	if err := srv.Start(); err != nil {
		logger.Logger().Fatalf("服务器启动失败: %v", err)
	}
	<-done
}
