package handler

import (
	"context"
	"time"

	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
	"github.com/palemoky/sette-e-mezzo/internal/types"
)

const defaultAdviceTimeout = 10 * time.Second

// Handler 消息处理器
type Handler struct {
	handlers      map[protocol.MessageType]handlerFunc
	adviceTimeout time.Duration
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器，adviceTimeout <= 0 时使用默认值
func NewHandler(adviceTimeout time.Duration) *Handler {
	if adviceTimeout <= 0 {
		adviceTimeout = defaultAdviceTimeout
	}
	h := &Handler{adviceTimeout: adviceTimeout}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	action := func(fn func(types.Table)) handlerFunc {
		return func(c types.ClientInterface, _ *protocol.Message) { fn(c.Table()) }
	}

	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgPing: h.handlePing,

		// 牌桌操作
		protocol.MsgSelectMode: h.handleSelectMode,
		protocol.MsgAdjustBet:  h.handleAdjustBet,
		protocol.MsgDeal:       action(types.Table.Deal),
		protocol.MsgHit:        action(types.Table.Hit),
		protocol.MsgStand:      action(types.Table.Stand),
		protocol.MsgPlayAgain:  action(types.Table.PlayAgain),
		protocol.MsgMenu:       action(types.Table.Menu),
		protocol.MsgAdvice:     h.handleAdvice,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.WithFields(map[string]any{
		"client":  client.GetID(),
		"type":    msg.Type,
		"payload": len(msg.Payload),
	}).Warn("unknown message type")
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(codec.ErrorMessageFrom(apperrors.ErrInvalidPayload))
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

func (h *Handler) handleSelectMode(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SelectModePayload](msg)
	if err != nil {
		client.SendMessage(codec.ErrorMessageFrom(apperrors.ErrInvalidPayload))
		return
	}
	mode, ok := table.ParseMode(payload.Mode)
	if !ok {
		client.SendMessage(codec.ErrorMessageFrom(apperrors.ErrUnknownMode))
		return
	}
	client.Table().SelectMode(mode)
}

func (h *Handler) handleAdjustBet(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.AdjustBetPayload](msg)
	if err != nil {
		client.SendMessage(codec.ErrorMessageFrom(apperrors.ErrInvalidPayload))
		return
	}
	client.Table().AdjustBet(payload.Delta)
}

// handleAdvice 在独立的 goroutine 中请求建议，不阻塞读循环。回复带上请求 ID。
func (h *Handler) handleAdvice(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.AdvicePayload](msg)
	if err != nil {
		client.SendMessage(codec.ErrorMessageFrom(apperrors.ErrInvalidPayload))
		return
	}
	requestID := payload.RequestID

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.LogPanic(r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), h.adviceTimeout)
		defer cancel()

		text, err := client.Table().Advice(ctx)
		if err != nil {
			client.SendMessage(codec.ReplyError(err, requestID))
			return
		}
		client.SendMessage(codec.MustNewMessage(protocol.MsgAdviceResult, protocol.AdviceResultPayload{
			RequestID: requestID,
			Text:      text,
		}))
	}()
}
