package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
)

// ErrAdvicePending 上一个建议请求还没有返回
var ErrAdvicePending = errors.New("advice request already in flight")

type adviceReply struct {
	text string
	err  error
}

// adviceRequest 等待中的建议请求，只接受同一 ID 的回复
type adviceRequest struct {
	id    string
	reply chan adviceReply
}

// RemoteTable 服务器上的一张牌桌，实现 types.TableClient
type RemoteTable struct {
	client *Client
	views  chan protocol.TableView
	ready  chan struct{}

	mu      sync.Mutex
	tableID string
	rules   protocol.RulesInfo
	pending *adviceRequest
	connErr error

	readyOnce sync.Once
}

// Dial 连接服务器，等到收到 connected 消息后返回
func Dial(ctx context.Context, serverURL string) (*RemoteTable, error) {
	rt := &RemoteTable{
		client: NewClient(serverURL),
		views:  make(chan protocol.TableView, 1),
		ready:  make(chan struct{}),
	}
	rt.client.OnMessage = rt.handle
	rt.client.OnError = rt.recordError
	rt.client.OnClose = rt.closeViews

	if err := rt.client.Connect(ctx); err != nil {
		return nil, err
	}

	select {
	case <-rt.ready:
	case <-ctx.Done():
		rt.client.Close()
		return nil, ctx.Err()
	case <-rt.client.Done():
		return nil, ErrClosed
	}

	rt.client.StartHeartbeat()
	return rt, nil
}

// TableID 服务器分配的牌桌 ID
func (rt *RemoteTable) TableID() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tableID
}

// Latency 网络延迟（毫秒）
func (rt *RemoteTable) Latency() int64 { return rt.client.Latency() }

func (rt *RemoteTable) Views() <-chan protocol.TableView { return rt.views }

// Err 连接异常断开的原因，正常关闭时为 nil
func (rt *RemoteTable) Err() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.connErr
}

func (rt *RemoteTable) Rules() protocol.RulesInfo {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.rules
}

func (rt *RemoteTable) SelectMode(mode table.Mode) {
	rt.send(protocol.MsgSelectMode, protocol.SelectModePayload{Mode: string(mode)})
}

func (rt *RemoteTable) AdjustBet(delta int) {
	rt.send(protocol.MsgAdjustBet, protocol.AdjustBetPayload{Delta: delta})
}

func (rt *RemoteTable) Deal()      { rt.send(protocol.MsgDeal, nil) }
func (rt *RemoteTable) Hit()       { rt.send(protocol.MsgHit, nil) }
func (rt *RemoteTable) Stand()     { rt.send(protocol.MsgStand, nil) }
func (rt *RemoteTable) PlayAgain() { rt.send(protocol.MsgPlayAgain, nil) }
func (rt *RemoteTable) Menu()      { rt.send(protocol.MsgMenu, nil) }

// Advice 请求建议并等待带相同请求 ID 的 advice_result 或 error。
// 超时后迟到的回复会被丢弃。
func (rt *RemoteTable) Advice(ctx context.Context) (string, error) {
	req := &adviceRequest{id: uuid.NewString(), reply: make(chan adviceReply, 1)}

	rt.mu.Lock()
	if rt.pending != nil {
		rt.mu.Unlock()
		return "", ErrAdvicePending
	}
	rt.pending = req
	rt.mu.Unlock()

	defer func() {
		rt.mu.Lock()
		if rt.pending == req {
			rt.pending = nil
		}
		rt.mu.Unlock()
	}()

	msg := codec.MustNewMessage(protocol.MsgAdvice, protocol.AdvicePayload{RequestID: req.id})
	if err := rt.client.SendMessage(msg); err != nil {
		return "", err
	}

	select {
	case r := <-req.reply:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-rt.client.Done():
		return "", ErrClosed
	}
}

// Close 断开连接，Views 随之关闭
func (rt *RemoteTable) Close() { rt.client.Close() }

func (rt *RemoteTable) send(msgType protocol.MessageType, payload any) {
	if err := rt.client.SendMessage(codec.MustNewMessage(msgType, payload)); err != nil {
		logger.LogError("send %s: %v", msgType, err)
	}
}

// handle 在读协程中处理服务器消息
func (rt *RemoteTable) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgConnected:
		p, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
		if err != nil {
			logger.LogError("bad connected payload: %v", err)
			return
		}
		rt.mu.Lock()
		rt.tableID = p.TableID
		rt.rules = p.Rules
		rt.mu.Unlock()
		rt.readyOnce.Do(func() { close(rt.ready) })

	case protocol.MsgTableState:
		v, err := codec.ParsePayload[protocol.TableView](msg)
		if err != nil {
			logger.LogError("bad table_state payload: %v", err)
			return
		}
		// 只保留最新的视图
		select {
		case <-rt.views:
		default:
		}
		rt.views <- *v

	case protocol.MsgAdviceResult:
		p, err := codec.ParsePayload[protocol.AdviceResultPayload](msg)
		if err != nil {
			logger.LogError("bad advice_result payload: %v", err)
			return
		}
		if !rt.deliver(p.RequestID, adviceReply{text: p.Text}) {
			logger.WithFields(map[string]any{"request": p.RequestID}).Debug("stale advice_result dropped")
		}

	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			logger.LogError("bad error payload: %v", err)
			return
		}
		gameErr := &apperrors.GameError{Code: p.Code, Message: p.Message}
		if p.RequestID == "" || !rt.deliver(p.RequestID, adviceReply{err: gameErr}) {
			logger.WithFields(map[string]any{"code": p.Code, "request": p.RequestID}).Warn(p.Message)
		}
	}
}

// deliver 把结果交给 ID 相同的等待中的 Advice，没有匹配时返回 false
func (rt *RemoteTable) deliver(id string, r adviceReply) bool {
	rt.mu.Lock()
	req := rt.pending
	if req == nil || req.id != id {
		rt.mu.Unlock()
		return false
	}
	rt.pending = nil
	rt.mu.Unlock()

	req.reply <- r
	return true
}

func (rt *RemoteTable) recordError(err error) {
	rt.mu.Lock()
	rt.connErr = err
	rt.mu.Unlock()
}

func (rt *RemoteTable) closeViews() {
	close(rt.views)
}
