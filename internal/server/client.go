package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/sette-e-mezzo/internal/game/session"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/convert"
	"github.com/palemoky/sette-e-mezzo/internal/types"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096
)

// Client 一个连接和它独占的牌桌
type Client struct {
	ID string // 与牌桌 ID 相同

	server *Server
	conn   *websocket.Conn
	table  *session.Controller
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn, ctl *session.Controller) *Client {
	return &Client{
		ID:     ctl.ID(),
		server: s,
		conn:   conn,
		table:  ctl,
		send:   make(chan []byte, 256),
	}
}

func (c *Client) GetID() string { return c.ID }

func (c *Client) Table() types.Table { return c.table }

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.LogError("read error from %s: %v", c.ID, err)
			}
			return
		}

		msg, err := codec.Decode(message)
		if err != nil {
			logger.LogError("decode message from %s: %v", c.ID, err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forwardState 把牌桌的每个新快照推送给客户端，庄家暗牌已遮住
func (c *Client) forwardState() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	initial := c.table.Rules().InitialBalance
	states, cancel := c.table.Subscribe()
	defer cancel()

	for st := range states {
		c.SendMessage(codec.MustNewMessage(protocol.MsgTableState, convert.ViewFromState(st, initial)))
	}
}

// SendMessage 发送消息给客户端
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		logger.LogError("encode message for %s: %v", c.ID, err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		logger.LogError("send buffer full for %s", c.ID)
		go c.Close()
	}
}

// handleDisconnect 处理断开连接：停止牌桌，注销连接
func (c *Client) handleDisconnect() {
	c.Close()
	c.table.Close()
	c.server.unregisterClient(c)
}

// Close 关闭发送通道，WritePump 随之退出
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
