package types

import (
	"context"

	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// Table 牌桌操作。本地控制器和远端牌桌都实现它，不在对应状态时调用什么也不做。
type Table interface {
	SelectMode(mode table.Mode)
	AdjustBet(delta int)
	Deal()
	Hit()
	Stand()
	PlayAgain()
	Menu()
	Advice(ctx context.Context) (string, error)
	Close()
}

// TableClient 渲染层使用的牌桌：操作加上视图推送
type TableClient interface {
	Table
	// Views 推送最新的牌桌视图，关闭表示牌桌已结束
	Views() <-chan protocol.TableView
	Rules() protocol.RulesInfo
}

// ClientInterface 服务器上的一个连接
type ClientInterface interface {
	GetID() string
	Table() Table
	SendMessage(msg *protocol.Message)
	Close()
}
