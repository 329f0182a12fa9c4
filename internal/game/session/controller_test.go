package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/testutil"
)

func newController(t *testing.T, opts Options) *Controller {
	t.Helper()
	if opts.Sleeper == nil {
		opts.Sleeper = NoDelay{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	c := New(opts)
	t.Cleanup(c.Close)
	return c
}

func waitStatus(t *testing.T, c *Controller, want table.Status) table.State {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Snapshot().Status == want
	}, 2*time.Second, time.Millisecond, "waiting for %s", want)
	return c.Snapshot()
}

func TestNew(t *testing.T) {
	t.Parallel()

	c := newController(t, Options{})
	s := c.Snapshot()

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, table.StatusModeSelection, s.Status)
	assert.Equal(t, card.DeckSize, s.Deck.Len())
	assert.Equal(t, 500, s.Balance)
}

func TestSingleRound(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		settled []table.State
	)
	c := newController(t, Options{
		OnSettled: func(s table.State) {
			mu.Lock()
			settled = append(settled, s)
			mu.Unlock()
		},
	})

	c.SelectMode(table.ModeSingle)
	c.Deal()
	s := c.Snapshot()
	require.Equal(t, table.StatusTurnPlayer, s.Status)
	assert.Len(t, s.Player(table.SeatPlayer).Hand, 1)
	assert.Len(t, s.Player(table.SeatDealer).Hand, 1)

	c.Stand()
	s = waitStatus(t, c, table.StatusResult)
	require.Len(t, s.History, 1)
	assert.Equal(t, 10, s.History[0].Amount)
	assert.Len(t, s.CardsInPlay(), card.DeckSize)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(settled) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, s.Balance, settled[0].Balance)

	c.PlayAgain()
	assert.Equal(t, table.StatusBetting, c.Snapshot().Status)
}

func TestMultiRound_Pacing(t *testing.T) {
	t.Parallel()

	sleeper := &testutil.RecordingSleeper{}
	c := newController(t, Options{
		Sleeper:     sleeper,
		DrawDelay:   DefaultDrawDelay,
		SettleDelay: DefaultSettleDelay,
	})

	c.SelectMode(table.ModeMulti)
	c.Deal()
	s := waitStatus(t, c, table.StatusTurnPlayer)

	cpu := s.Player(table.SeatCPU1)
	delays := sleeper.Delays()
	require.Len(t, delays, len(cpu.Hand))
	for _, d := range delays[:len(delays)-1] {
		assert.Equal(t, DefaultDrawDelay, d)
	}
	assert.Equal(t, DefaultSettleDelay, delays[len(delays)-1])
	if !cpu.Busted {
		assert.GreaterOrEqual(t, cpu.Score, 5.0)
		assert.True(t, cpu.Standing)
	}

	c.Stand()
	s = waitStatus(t, c, table.StatusResult)
	assert.Len(t, s.CardsInPlay(), card.DeckSize)
	assert.Len(t, s.History, 1)
}

func TestManualActionsIgnoredDuringAutomatedTurn(t *testing.T) {
	t.Parallel()

	gate := testutil.NewGateSleeper()
	c := newController(t, Options{Sleeper: gate})

	c.SelectMode(table.ModeMulti)
	c.Deal()
	gate.Wait()

	before := c.Snapshot()
	require.Equal(t, table.StatusTurnCPU1, before.Status)

	c.Hit()
	c.Stand()
	c.Deal()
	c.AdjustBet(50)
	c.PlayAgain()
	assert.Equal(t, before, c.Snapshot())

	c.Close()
}

func TestMenuInvalidatesRunningSequence(t *testing.T) {
	t.Parallel()

	gate := testutil.NewGateSleeper()
	c := newController(t, Options{Sleeper: gate})

	c.SelectMode(table.ModeMulti)
	c.Deal()
	gate.Wait()

	c.Menu()
	menu := c.Snapshot()
	require.Equal(t, table.StatusModeSelection, menu.Status)

	gate.Release()
	// Close 等待自动流程退出
	c.Close()

	after := c.Snapshot()
	assert.Equal(t, menu, after, "stale sequence must not touch the table")
}

func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	t.Parallel()

	c := newController(t, Options{})
	c.SelectMode(table.ModeSingle)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RaiseBet()
		}()
	}
	wg.Wait()

	assert.Equal(t, 210, c.Snapshot().Bet)

	c.LowerBet()
	assert.Equal(t, 200, c.Snapshot().Bet)
}

func TestAdvice(t *testing.T) {
	t.Parallel()

	m := &testutil.MockAdvisor{}
	c := newController(t, Options{Advisor: m})

	_, err := c.Advice(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)

	c.SelectMode(table.ModeSingle)
	c.Deal()
	s := c.Snapshot()
	dealerCard := s.Player(table.SeatDealer).Hand[0]

	m.On("Advise", mock.Anything, mock.MatchedBy(func(req advice.Request) bool {
		return req.DealerCard != nil && *req.DealerCard == dealerCard &&
			len(req.Hand) == 1 && req.Score == s.Player(table.SeatPlayer).Score
	})).Return("STAI!", nil).Once()

	text, err := c.Advice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "STAI!", text)

	m.On("Advise", mock.Anything, mock.Anything).Return("", errors.New("down")).Once()
	text, err = c.Advice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, advice.FallbackFailure, text)

	m.AssertExpectations(t)
	assert.Equal(t, table.StatusTurnPlayer, c.Snapshot().Status, "advice never changes state")
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	c := newController(t, Options{})
	ch, cancel := c.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, table.StatusModeSelection, first.Status)

	c.SelectMode(table.ModeSingle)
	c.AdjustBet(20)

	// 只保留最新的快照
	latest := <-ch
	assert.Equal(t, table.StatusBetting, latest.Status)
	assert.Equal(t, 30, latest.Bet)

	c.Close()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	t.Parallel()

	c := newController(t, Options{})
	c.SelectMode(table.ModeSingle)
	c.Close()
	c.Close()

	c.Deal()
	assert.Equal(t, table.StatusBetting, c.Snapshot().Status)

	_, err := c.Advice(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTableClosed)

	ch, _ := c.Subscribe()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestManyRounds(t *testing.T) {
	t.Parallel()

	c := newController(t, Options{Rand: rand.New(rand.NewPCG(42, 42))})
	c.SelectMode(table.ModeMulti)

	for i := range 50 {
		c.Deal()
		s := waitStatus(t, c, table.StatusTurnPlayer)
		if i%2 == 0 && s.Player(table.SeatPlayer).Score < 5 {
			c.Hit()
		}
		c.Stand()
		s = waitStatus(t, c, table.StatusResult)

		require.Len(t, s.History, i+1)
		assert.Len(t, s.CardsInPlay(), card.DeckSize)
		assert.Positive(t, s.Balance)
		c.PlayAgain()
	}
}
