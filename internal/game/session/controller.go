// Package session owns a single table's state and drives its automated turns.
package session

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
)

const (
	DefaultDrawDelay   = 800 * time.Millisecond
	DefaultSettleDelay = 400 * time.Millisecond
)

// Options 控制器参数
type Options struct {
	Engine      *table.Engine
	Rand        *rand.Rand // 洗牌随机源，nil 使用全局随机源
	Sleeper     Sleeper
	DrawDelay   time.Duration
	SettleDelay time.Duration
	Advisor     advice.Advisor
	Logger      logrus.FieldLogger

	// OnSettled 每局结算后调用一次，在锁外执行
	OnSettled func(table.State)
}

// DefaultOptions 默认节奏：要牌前 800ms，CPU 收手前 400ms
func DefaultOptions() Options {
	return Options{
		Sleeper:     TimerSleeper{},
		DrawDelay:   DefaultDrawDelay,
		SettleDelay: DefaultSettleDelay,
		Advisor:     advice.NewHeuristic(),
	}
}

// Controller 持有唯一的 table.State。所有修改都在同一把锁内基于最新状态完成，
// 进入 CPU 或庄家回合时启动对应的自动流程。
type Controller struct {
	id     string
	engine *table.Engine
	opts   Options
	log    logrus.FieldLogger

	mu      sync.Mutex
	state   table.State
	subs    map[int]chan table.State
	nextSub int
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建控制器，初始状态为模式选择
func New(opts Options) *Controller {
	if opts.Engine == nil {
		opts.Engine = table.NewEngine(table.DefaultRules())
	}
	if opts.Sleeper == nil {
		opts.Sleeper = TimerSleeper{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:     uuid.NewString(),
		engine: opts.Engine,
		opts:   opts,
		subs:   make(map[int]chan table.State),
		ctx:    ctx,
		cancel: cancel,
	}
	c.log = opts.Logger.WithField("table", c.id)
	c.state = c.engine.Mount(c.engine.New(), c.newDeck())
	return c
}

// ID 桌子 ID
func (c *Controller) ID() string { return c.id }

// Rules 生效的桌面参数
func (c *Controller) Rules() table.Rules { return c.engine.Rules() }

// 只在持锁时调用，rand.Rand 不是并发安全的
func (c *Controller) newDeck() card.Deck {
	return card.NewDeck(c.opts.Rand)
}

// update 在锁内把 fn 应用到最新状态
func (c *Controller) update(fn func(table.State) table.State) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	prev := c.state
	next := fn(prev)
	c.state = next

	if next.Status.IsAutomated() && (next.Status != prev.Status || next.Round != prev.Round) {
		c.wg.Add(1)
		go c.run(next.Status, next.Round)
	}
	c.publish(next)
	settled := prev.Status != table.StatusResult && next.Status == table.StatusResult
	c.mu.Unlock()

	if settled {
		c.log.WithFields(logrus.Fields{
			"round":   next.Round,
			"balance": next.Balance,
		}).Debug(next.Message)
		if c.opts.OnSettled != nil {
			c.opts.OnSettled(next.Clone())
		}
	}
	return true
}

// publish 每个订阅者只保留最新的快照
func (c *Controller) publish(s table.State) {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.Clone()
	}
}

// --- 自动流程 ---

func (c *Controller) run(status table.Status, round int) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	switch status {
	case table.StatusTurnCPU1:
		c.runCPU(table.SeatCPU1, status, round)
	case table.StatusTurnCPU2:
		c.runCPU(table.SeatCPU2, status, round)
	case table.StatusDealerTurn:
		c.runDealer(status, round)
	}
}

func (c *Controller) runCPU(seat table.Seat, status table.Status, round int) {
	wants := func(s table.State) bool { return c.engine.WantsDraw(s, seat) }
	for c.peek(status, round, wants) {
		if c.sleep(c.opts.DrawDelay) != nil {
			return
		}
		if !c.step(status, round, func(s table.State) table.State { return c.engine.AutoDraw(s, seat) }) {
			return
		}
	}

	if !c.current(status, round) || c.sleep(c.opts.SettleDelay) != nil {
		return
	}
	c.step(status, round, func(s table.State) table.State { return c.engine.EndAutoTurn(s, seat) })
}

func (c *Controller) runDealer(status table.Status, round int) {
	for c.peek(status, round, c.engine.DealerWantsDraw) {
		if c.sleep(c.opts.DrawDelay) != nil {
			return
		}
		if !c.step(status, round, c.engine.DealerDraw) {
			return
		}
	}
	c.step(status, round, c.engine.Settle)
}

func (c *Controller) sleep(d time.Duration) error {
	return c.opts.Sleeper.Sleep(c.ctx, d)
}

// peek 状态和轮次都未变化时返回 fn 的结果，否则返回 false
func (c *Controller) peek(status table.Status, round int, fn func(table.State) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state.Status != status || c.state.Round != round {
		return false
	}
	return fn(c.state)
}

func (c *Controller) current(status table.Status, round int) bool {
	return c.peek(status, round, func(table.State) bool { return true })
}

// step 状态和轮次都未变化时才应用 fn
func (c *Controller) step(status table.Status, round int, fn func(table.State) table.State) bool {
	applied := false
	c.update(func(s table.State) table.State {
		if s.Status != status || s.Round != round {
			return s
		}
		applied = true
		return fn(s)
	})
	return applied
}

// --- 玩家操作，不在对应状态时什么也不做 ---

// SelectMode 选择单人或多人模式
func (c *Controller) SelectMode(mode table.Mode) {
	c.update(func(s table.State) table.State { return c.engine.SelectMode(s, mode) })
}

// AdjustBet 调整下注
func (c *Controller) AdjustBet(delta int) {
	c.update(func(s table.State) table.State { return c.engine.AdjustBet(s, delta) })
}

// RaiseBet 加一档
func (c *Controller) RaiseBet() { c.AdjustBet(c.engine.Rules().BetStep) }

// LowerBet 减一档
func (c *Controller) LowerBet() { c.AdjustBet(-c.engine.Rules().BetStep) }

// Deal 用一副新洗的牌发牌
func (c *Controller) Deal() {
	c.update(func(s table.State) table.State {
		if s.Status != table.StatusBetting {
			return s
		}
		return c.engine.Deal(s, c.newDeck())
	})
}

// Hit 要牌
func (c *Controller) Hit() {
	c.update(c.engine.Hit)
}

// Stand 停牌
func (c *Controller) Stand() {
	c.update(c.engine.Stand)
}

// PlayAgain 结算后开始新一手
func (c *Controller) PlayAgain() {
	c.update(c.engine.PlayAgain)
}

// Menu 回到模式选择，正在进行的自动流程随之失效
func (c *Controller) Menu() {
	c.update(c.engine.ReturnToMenu)
}

// Snapshot 返回当前状态的副本
func (c *Controller) Snapshot() table.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe 订阅状态变化。通道里立即有一份当前快照，慢的订阅者只会错过中间状态。
func (c *Controller) Subscribe() (<-chan table.State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan table.State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.Clone()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Advice 玩家回合时请求建议，在锁外执行，不会阻塞状态变化
func (c *Controller) Advice(ctx context.Context) (string, error) {
	c.mu.Lock()
	s := c.state
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return "", apperrors.ErrTableClosed
	}
	if s.Status != table.StatusTurnPlayer {
		return "", apperrors.ErrNotYourTurn
	}

	player := s.Player(table.SeatPlayer)
	req := advice.Request{
		Hand:  slices.Clone(player.Hand),
		Score: player.Score,
	}
	if dealer := s.Player(table.SeatDealer); len(dealer.Hand) > 0 {
		first := dealer.Hand[0]
		req.DealerCard = &first
	}
	return advice.Safe(ctx, c.opts.Advisor, req), nil
}

// Close 停止自动流程并关闭所有订阅，之后的操作都会被忽略
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.wg.Wait()
}
