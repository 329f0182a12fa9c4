package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// SelectModePayload 选择模式
type SelectModePayload struct {
	Mode string `json:"mode"` // SINGLE / MULTI
}

// AdjustBetPayload 调整下注，正数加注，负数减注
type AdjustBetPayload struct {
	Delta int `json:"delta"`
}

// AdvicePayload 请求建议，RequestID 原样出现在对应的回复里
type AdvicePayload struct {
	RequestID string `json:"request_id"`
}

// --- 服务端响应 Payloads ---

// RulesInfo 桌面参数
type RulesInfo struct {
	InitialBalance int `json:"initial_balance"`
	MinBet         int `json:"min_bet"`
	BetStep        int `json:"bet_step"`
}

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	TableID string    `json:"table_id"`
	Rules   RulesInfo `json:"rules"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// AdviceResultPayload 建议结果
type AdviceResultPayload struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// RequestID 非空时表示这是对该建议请求的回复
	RequestID string `json:"request_id,omitempty"`
}

// --- 牌桌视图 ---

// CardInfo 一张牌。Hidden 为 true 时其余字段为空。
type CardInfo struct {
	Suit   string  `json:"suit,omitempty"`
	Rank   int     `json:"rank,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Wild   bool    `json:"wild,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
}

// SeatView 一个座位
type SeatView struct {
	Seat         string     `json:"seat"`
	Name         string     `json:"name"`
	Cards        []CardInfo `json:"cards"`
	Score        float64    `json:"score"`
	ScoreVisible bool       `json:"score_visible"`
	Busted       bool       `json:"busted"`
	Standing     bool       `json:"standing"`
	Active       bool       `json:"active"`
	Turn         bool       `json:"turn"`
}

// HistoryEntry 一局的结算记录
type HistoryEntry struct {
	Result string `json:"result"`
	Amount int    `json:"amount"`
}

// TableView 发给渲染层的牌桌快照，庄家暗牌已遮住
type TableView struct {
	Status    string         `json:"status"`
	Mode      string         `json:"mode"`
	Balance   int            `json:"balance"`
	Bet       int            `json:"bet"`
	Message   string         `json:"message"`
	Round     int            `json:"round"`
	DeckCount int            `json:"deck_count"`
	Seats     []SeatView     `json:"seats"`
	History   []HistoryEntry `json:"history"`
	Series    []int          `json:"series"`
}

// Seat 按座位 ID 查找
func (v TableView) Seat(id string) (SeatView, bool) {
	for _, s := range v.Seats {
		if s.Seat == id {
			return s, true
		}
	}
	return SeatView{}, false
}
