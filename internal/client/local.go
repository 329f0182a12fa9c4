// Package client 把本地会话控制器适配成渲染层使用的牌桌
package client

import (
	"context"

	"github.com/palemoky/sette-e-mezzo/internal/game/session"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/convert"
)

// LocalTable 进程内的牌桌，视图和远端一样遮住庄家暗牌
type LocalTable struct {
	ctl   *session.Controller
	views chan protocol.TableView
	done  chan struct{}
}

// NewLocal 包装控制器并开始推送视图
func NewLocal(ctl *session.Controller) *LocalTable {
	lt := &LocalTable{
		ctl:   ctl,
		views: make(chan protocol.TableView, 1),
		done:  make(chan struct{}),
	}
	states, cancel := ctl.Subscribe()
	go lt.forward(states, cancel)
	return lt
}

func (lt *LocalTable) forward(states <-chan table.State, cancel func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		cancel()
		close(lt.views)
		close(lt.done)
	}()

	initial := lt.ctl.Rules().InitialBalance
	for st := range states {
		v := convert.ViewFromState(st, initial)
		// 只保留最新的视图
		select {
		case <-lt.views:
		default:
		}
		lt.views <- v
	}
}

// Controller 底层控制器
func (lt *LocalTable) Controller() *session.Controller { return lt.ctl }

func (lt *LocalTable) Views() <-chan protocol.TableView { return lt.views }

func (lt *LocalTable) Rules() protocol.RulesInfo {
	r := lt.ctl.Rules()
	return protocol.RulesInfo{
		InitialBalance: r.InitialBalance,
		MinBet:         r.MinBet,
		BetStep:        r.BetStep,
	}
}

func (lt *LocalTable) SelectMode(mode table.Mode) { lt.ctl.SelectMode(mode) }
func (lt *LocalTable) AdjustBet(delta int)        { lt.ctl.AdjustBet(delta) }
func (lt *LocalTable) Deal()                      { lt.ctl.Deal() }
func (lt *LocalTable) Hit()                       { lt.ctl.Hit() }
func (lt *LocalTable) Stand()                     { lt.ctl.Stand() }
func (lt *LocalTable) PlayAgain()                 { lt.ctl.PlayAgain() }
func (lt *LocalTable) Menu()                      { lt.ctl.Menu() }

func (lt *LocalTable) Advice(ctx context.Context) (string, error) {
	return lt.ctl.Advice(ctx)
}

// Close 停止控制器，等待视图通道关闭
func (lt *LocalTable) Close() {
	lt.ctl.Close()
	<-lt.done
}
