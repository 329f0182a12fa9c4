package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping

	// 牌桌操作
	MsgSelectMode MessageType = "select_mode" // 选择模式
	MsgAdjustBet  MessageType = "adjust_bet"  // 调整下注
	MsgDeal       MessageType = "deal"        // 发牌
	MsgHit        MessageType = "hit"         // 要牌
	MsgStand      MessageType = "stand"       // 停牌
	MsgPlayAgain  MessageType = "play_again"  // 再来一手
	MsgMenu       MessageType = "menu"        // 回到模式选择
	MsgAdvice     MessageType = "advice"      // 请求建议
)

// 服务端 → 客户端 消息类型
const (
	MsgConnected    MessageType = "connected"     // 连接成功
	MsgPong         MessageType = "pong"          // 心跳 pong
	MsgTableState   MessageType = "table_state"   // 牌桌快照
	MsgAdviceResult MessageType = "advice_result" // 建议结果
	MsgError        MessageType = "error"         // 错误
)
