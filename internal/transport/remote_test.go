package transport

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sette-e-mezzo/internal/apperrors"
	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
	"github.com/palemoky/sette-e-mezzo/internal/server"
	"github.com/palemoky/sette-e-mezzo/internal/types"
)

var _ types.TableClient = (*RemoteTable)(nil)

func dialTestTable(t *testing.T) *RemoteTable {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.Default()
	cfg.Game.DrawDelayMs = 1
	cfg.Game.SettleDelayMs = 1

	ts := httptest.NewServer(server.New(cfg, rdb).Routes())
	t.Cleanup(func() {
		ts.Close()
		_ = rdb.Close()
	})

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()
	rt, err := Dial(ctx, wsURL(ts, "/ws"))
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func waitView(t *testing.T, rt *RemoteTable, status table.Status) protocol.TableView {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case v, ok := <-rt.Views():
			require.True(t, ok, "views closed")
			if v.Status == string(status) {
				return v
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", status)
		}
	}
}

func TestRemoteTable_Dial(t *testing.T) {
	t.Parallel()

	rt := dialTestTable(t)
	assert.NotEmpty(t, rt.TableID())
	assert.Equal(t, 500, rt.Rules().InitialBalance)
	assert.Equal(t, 10, rt.Rules().BetStep)

	v := waitView(t, rt, table.StatusModeSelection)
	assert.Equal(t, 500, v.Balance)
}

func TestRemoteTable_PlayRound(t *testing.T) {
	t.Parallel()

	rt := dialTestTable(t)
	rt.SelectMode(table.ModeMulti)
	waitView(t, rt, table.StatusBetting)

	rt.AdjustBet(20)
	rt.Deal()
	v := waitView(t, rt, table.StatusTurnPlayer)
	assert.Equal(t, 30, v.Bet)
	assert.Len(t, v.Seats, 4)

	text, err := rt.Advice(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	rt.Stand()
	v = waitView(t, rt, table.StatusResult)
	require.Len(t, v.History, 1)

	rt.PlayAgain()
	v = waitView(t, rt, table.StatusBetting)
	assert.Empty(t, v.Seats[0].Cards)

	rt.Menu()
	waitView(t, rt, table.StatusModeSelection)
}

func TestRemoteTable_AdviceOutsideTurn(t *testing.T) {
	t.Parallel()

	rt := dialTestTable(t)
	waitView(t, rt, table.StatusModeSelection)

	_, err := rt.Advice(t.Context())
	var gameErr *apperrors.GameError
	require.True(t, errors.As(err, &gameErr))
	assert.Equal(t, protocol.ErrCodeNotYourTurn, gameErr.Code)
}

func TestRemoteTable_Close(t *testing.T) {
	t.Parallel()

	rt := dialTestTable(t)
	rt.Close()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-rt.Views():
			if !ok {
				_, err := rt.Advice(t.Context())
				assert.Error(t, err)
				return
			}
		case <-timeout:
			t.Fatal("views not closed")
		}
	}
}

// newOfflineTable 不连接服务器，发出的消息留在发送缓冲区里
func newOfflineTable() *RemoteTable {
	return &RemoteTable{
		client: NewClient("ws://unused"),
		views:  make(chan protocol.TableView, 1),
		ready:  make(chan struct{}),
	}
}

func sentAdviceID(t *testing.T, rt *RemoteTable) string {
	t.Helper()
	select {
	case data := <-rt.client.send:
		msg, err := codec.Decode(data)
		require.NoError(t, err)
		require.Equal(t, protocol.MsgAdvice, msg.Type)
		p, err := codec.ParsePayload[protocol.AdvicePayload](msg)
		require.NoError(t, err)
		require.NotEmpty(t, p.RequestID)
		return p.RequestID
	case <-time.After(time.Second):
		t.Fatal("advice request not sent")
		return ""
	}
}

type adviceOutcome struct {
	text string
	err  error
}

func askAsync(t *testing.T, rt *RemoteTable) (<-chan adviceOutcome, string) {
	t.Helper()
	done := make(chan adviceOutcome, 1)
	go func() {
		text, err := rt.Advice(t.Context())
		done <- adviceOutcome{text, err}
	}()
	return done, sentAdviceID(t, rt)
}

func TestRemoteTable_AdviceIgnoresOtherReplies(t *testing.T) {
	t.Parallel()

	rt := newOfflineTable()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err := rt.Advice(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	staleID := sentAdviceID(t, rt)

	done, id := askAsync(t, rt)
	assert.NotEqual(t, staleID, id)

	// 超时请求的迟到回复、其他操作的错误都不能交给当前请求
	rt.handle(codec.MustNewMessage(protocol.MsgAdviceResult, protocol.AdviceResultPayload{RequestID: staleID, Text: "vecchio"}))
	rt.handle(codec.ReplyError(apperrors.ErrNotYourTurn, staleID))
	rt.handle(codec.ErrorMessageFrom(apperrors.ErrUnknownMode))

	select {
	case r := <-done:
		t.Fatalf("advice resolved by an unrelated reply: %q %v", r.text, r.err)
	case <-time.After(20 * time.Millisecond):
	}

	rt.handle(codec.MustNewMessage(protocol.MsgAdviceResult, protocol.AdviceResultPayload{RequestID: id, Text: "STAI!"}))
	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "STAI!", r.text)
	case <-time.After(time.Second):
		t.Fatal("advice not delivered")
	}
}

func TestRemoteTable_AdviceErrorWithRequestID(t *testing.T) {
	t.Parallel()

	rt := newOfflineTable()
	done, id := askAsync(t, rt)

	rt.handle(codec.ReplyError(apperrors.ErrNotYourTurn, id))
	select {
	case r := <-done:
		var gameErr *apperrors.GameError
		require.True(t, errors.As(r.err, &gameErr))
		assert.Equal(t, protocol.ErrCodeNotYourTurn, gameErr.Code)
	case <-time.After(time.Second):
		t.Fatal("advice error not delivered")
	}
}

func TestRemoteTable_ErrAfterAbnormalClose(t *testing.T) {
	t.Parallel()

	connected := codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		TableID: "t-1",
		Rules:   protocol.RulesInfo{InitialBalance: 500, MinBet: 10, BetStep: 10},
	})
	s := httptest.NewServer(closingHandler(connected))
	defer s.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	rt, err := Dial(ctx, wsURL(s, ""))
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, "t-1", rt.TableID())

	select {
	case _, ok := <-rt.Views():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("views not closed")
	}
	assert.Error(t, rt.Err())
}
