package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// 信封字段
const (
	fieldType    = "type"
	fieldPayload = "payload"
)

// ErrMissingType 信封中没有消息类型
var ErrMissingType = errors.New("codec: message type missing")

// NewMessage 创建一个新消息，payload 以 JSON 编码
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := GetMessage()
	msg.Type = msgType

	if payload != nil {
		buf := GetBuffer()
		defer PutBuffer(buf)
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			PutMessage(msg)
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		// Encoder 会追加换行
		msg.Payload = append(json.RawMessage(nil), bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 Protobuf 字节（structpb 信封）
func Encode(m *protocol.Message) ([]byte, error) {
	env := GetEnvelope()
	defer PutEnvelope(env)

	env.Fields = map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(m.Type)),
	}
	if len(m.Payload) > 0 {
		env.Fields[fieldPayload] = structpb.NewStringValue(string(m.Payload))
	}
	return proto.Marshal(env)
}

// Decode 从 Protobuf 字节解码消息
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func Decode(data []byte) (*protocol.Message, error) {
	env := GetEnvelope()
	defer PutEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	msgType := env.GetFields()[fieldType].GetStringValue()
	if msgType == "" {
		return nil, ErrMissingType
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(msgType)
	if payload := env.GetFields()[fieldPayload].GetStringValue(); payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	return msg, nil
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", msg.Type, err)
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}

// ErrorMessageFrom 把 GameError 转成错误消息，其他错误归为未知错误
func ErrorMessageFrom(err error) *protocol.Message {
	return ReplyError(err, "")
}

// ReplyError 与 ErrorMessageFrom 相同，但带上请求 ID
func ReplyError(err error, requestID string) *protocol.Message {
	code := protocol.ErrCodeUnknown
	text := protocol.ErrorMessages[code]

	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		code, text = gameErr.Code, gameErr.Message
	}
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:      code,
		Message:   text,
		RequestID: requestID,
	})
}
