package server

import (
	"context"
	"runtime"
	"time"

	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
)

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		logger.WithFields(map[string]any{
			"online":     s.GetOnlineCount(),
			"goroutines": runtime.NumGoroutine(),
			"conns":      len(s.semaphore),
			"max_conns":  s.maxConnections,
			"alloc_mb":   float64(m.Alloc) / 1024 / 1024,
		}).Info("server stats")
	}
}

// Shutdown 通知所有客户端牌桌关闭，然后停止 HTTP 服务和 Redis 连接
func (s *Server) Shutdown(ctx context.Context) error {
	s.Broadcast(codec.ErrorMessageFrom(apperrors.ErrTableClosed))

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.Close()
		c.table.Close()
	}

	_ = s.redis.Close()
	logger.LogInfo("server stopped")
	return err
}
