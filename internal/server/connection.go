package server

import (
	"encoding/json"
	"net/http"

	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
	"github.com/palemoky/sette-e-mezzo/internal/server/storage"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
	default:
		logger.LogError("max connections reached (%d), rejecting %s", s.maxConnections, r.RemoteAddr)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		logger.LogError("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s, conn, s.newTable())
	s.registerClient(client)

	rules := client.table.Rules()
	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		TableID: client.ID,
		Rules: protocol.RulesInfo{
			InitialBalance: rules.InitialBalance,
			MinBet:         rules.MinBet,
			BetStep:        rules.BetStep,
		},
	}))

	logger.WithFields(map[string]any{"table": client.ID, "remote": r.RemoteAddr}).Info("client connected")

	go client.ReadPump()
	go client.WritePump()
	go client.forwardState()
}

// handleHealth 健康检查接口，Redis 不可用时返回 503
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.redisStore.Ping(r.Context()); err != nil {
		logger.LogError("health: redis ping: %v", err)
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// StatsResponse /stats 的响应
type StatsResponse struct {
	Online int                   `json:"online"`
	Stats  *storage.Stats        `json:"stats"`
	Recent []storage.RoundRecord `json:"recent"`
}

// handleStats 返回全服统计
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.redisStore.GetStats(r.Context())
	if err != nil {
		logger.LogError("load stats: %v", err)
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	recent, err := s.redisStore.GetRecentRounds(r.Context(), 10)
	if err != nil {
		logger.LogError("load recent rounds: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(StatsResponse{
		Online: s.GetOnlineCount(),
		Stats:  stats,
		Recent: recent,
	})
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端并释放连接名额
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		<-s.semaphore
		logger.WithFields(map[string]any{"table": client.ID}).Info("client disconnected")
	}
}
