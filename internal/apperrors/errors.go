package apperrors

import (
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// GameError 发给客户端的协议级错误
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrInvalidMessage = newError(protocol.ErrCodeInvalidMsg)
	ErrInvalidPayload = newError(protocol.ErrCodeInvalidPayload)
	ErrUnknownMode    = newError(protocol.ErrCodeUnknownMode)
	ErrNotYourTurn    = newError(protocol.ErrCodeNotYourTurn)
	ErrTableClosed    = newError(protocol.ErrCodeTableClosed)
	ErrServerFull     = newError(protocol.ErrCodeServerFull)
)
