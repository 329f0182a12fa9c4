package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/game/session"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/server/handler"
	"github.com/palemoky/sette-e-mezzo/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 终端客户端不带 Origin
	},
	EnableCompression: false,
}

// Server WebSocket 牌桌服务器，每个连接拥有一张独立的牌桌
type Server struct {
	config     *config.Config
	redis      *redis.Client
	redisStore *storage.RedisStore
	advisor    advice.Advisor
	clients    map[string]*Client
	clientsMu  sync.RWMutex
	handler    *handler.Handler
	httpServer *http.Server

	// 连接控制
	maxConnections int
	semaphore      chan struct{}

	// newSleeper 自动回合的节奏，测试中替换为 NoDelay
	newSleeper func() session.Sleeper
}

// NewServer 创建服务器实例并检查 Redis 连接
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	return New(cfg, rdb), nil
}

// New 用已有的 Redis 客户端创建服务器
func New(cfg *config.Config, rdb *redis.Client) *Server {
	maxConns := cfg.Server.MaxConnections
	if maxConns <= 0 {
		maxConns = config.Default().Server.MaxConnections
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     storage.NewRedisStore(rdb),
		advisor:        advice.FromConfig(cfg.Advice, rdb),
		clients:        make(map[string]*Client),
		handler:        handler.NewHandler(cfg.Advice.Timeout()),
		maxConnections: maxConns,
		semaphore:      make(chan struct{}, maxConns),
		newSleeper:     func() session.Sleeper { return session.TimerSleeper{} },
	}

	logger.LogInfo("server config: max connections=%d, advice=%s", maxConns, cfg.Advice.Provider)
	return s
}

// newTable 为一个连接创建牌桌，结算结果写入 Redis
func (s *Server) newTable() *session.Controller {
	var ctl *session.Controller
	ctl = session.New(session.Options{
		Engine: table.NewEngine(table.Rules{
			InitialBalance: s.config.Game.InitialBalance,
			MinBet:         s.config.Game.MinBet,
			BetStep:        s.config.Game.BetStep,
		}),
		Sleeper:     s.newSleeper(),
		DrawDelay:   s.config.Game.DrawDelay(),
		SettleDelay: s.config.Game.SettleDelay(),
		Advisor:     s.advisor,
		Logger:      logger.Logger(),
		OnSettled:   func(st table.State) { s.recordRound(ctl.ID(), st) },
	})
	return ctl
}

func (s *Server) recordRound(tableID string, st table.State) {
	if len(st.History) == 0 {
		return
	}
	last := st.History[len(st.History)-1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.redisStore.RecordRound(ctx, storage.RoundRecord{
		TableID: tableID,
		Mode:    string(st.Mode),
		Result:  last.Result,
		Amount:  last.Amount,
		Balance: st.Balance,
	})
	if err != nil {
		logger.LogError("record round for table %s: %v", tableID, err)
	}
}

// Routes 返回 HTTP 路由
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	go s.monitorStats()

	logger.LogInfo("server listening on ws://%s/ws (CPU cores: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
