//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/types"
)

// MockTable 实现 types.Table 的 mock
type MockTable struct {
	mock.Mock
}

func (m *MockTable) SelectMode(mode table.Mode) { m.Called(mode) }
func (m *MockTable) AdjustBet(delta int)        { m.Called(delta) }
func (m *MockTable) Deal()                      { m.Called() }
func (m *MockTable) Hit()                       { m.Called() }
func (m *MockTable) Stand()                     { m.Called() }
func (m *MockTable) PlayAgain()                 { m.Called() }
func (m *MockTable) Menu()                      { m.Called() }
func (m *MockTable) Close()                     { m.Called() }

func (m *MockTable) Advice(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// RecordingClient 实现 types.ClientInterface，记录发出的消息
type RecordingClient struct {
	ID    string
	Tab   types.Table
	mu    sync.Mutex
	msgs  []*protocol.Message
	sent  chan struct{}
	close bool
}

// NewRecordingClient 创建记录客户端
func NewRecordingClient(id string, t types.Table) *RecordingClient {
	return &RecordingClient{ID: id, Tab: t, sent: make(chan struct{}, 64)}
}

func (c *RecordingClient) GetID() string      { return c.ID }
func (c *RecordingClient) Table() types.Table { return c.Tab }

func (c *RecordingClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
	select {
	case c.sent <- struct{}{}:
	default:
	}
}

func (c *RecordingClient) Close() {
	c.mu.Lock()
	c.close = true
	c.mu.Unlock()
}

// Messages 返回已发送消息的副本
func (c *RecordingClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*protocol.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// Sent 每发送一条消息通知一次
func (c *RecordingClient) Sent() <-chan struct{} { return c.sent }
