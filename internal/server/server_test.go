package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/game/session"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/codec"
)

func newTestServer(t *testing.T, maxConns int) (*Server, *httptest.Server) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.Default()
	cfg.Server.MaxConnections = maxConns

	s := New(cfg, rdb)
	s.newSleeper = func() session.Sleeper { return session.NoDelay{} }

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		ts.Close()
		_ = rdb.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType protocol.MessageType, payload any) {
	t.Helper()
	data, err := codec.Encode(codec.MustNewMessage(msgType, payload))
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
}

// readUntil 读取消息直到 match 返回 true
func readUntil(t *testing.T, conn *websocket.Conn, match func(*protocol.Message) bool) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		msg, err := codec.Decode(data)
		require.NoError(t, err)
		if match(msg) {
			return msg
		}
	}
}

func ofType(msgType protocol.MessageType) func(*protocol.Message) bool {
	return func(m *protocol.Message) bool { return m.Type == msgType }
}

func readView(t *testing.T, conn *websocket.Conn, status string) protocol.TableView {
	t.Helper()
	var view protocol.TableView
	readUntil(t, conn, func(m *protocol.Message) bool {
		if m.Type != protocol.MsgTableState {
			return false
		}
		v, err := codec.ParsePayload[protocol.TableView](m)
		require.NoError(t, err)
		view = *v
		return v.Status == status
	})
	return view
}

func TestServer_Connected(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	msg := readUntil(t, conn, ofType(protocol.MsgConnected))
	p, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
	require.NoError(t, err)
	assert.NotEmpty(t, p.TableID)
	assert.Equal(t, 500, p.Rules.InitialBalance)
	assert.Equal(t, 10, p.Rules.MinBet)

	view := readView(t, conn, "MODE_SELECTION")
	assert.Equal(t, 500, view.Balance)

	require.Eventually(t, func() bool { return s.GetOnlineCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServer_PlayRound(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, 10)
	conn := dial(t, ts)
	readView(t, conn, "MODE_SELECTION")

	send(t, conn, protocol.MsgSelectMode, protocol.SelectModePayload{Mode: "SINGLE"})
	readView(t, conn, "BETTING")

	send(t, conn, protocol.MsgAdjustBet, protocol.AdjustBetPayload{Delta: 10})
	send(t, conn, protocol.MsgDeal, nil)
	view := readView(t, conn, "TURN_PLAYER")
	assert.Equal(t, 20, view.Bet)

	dealer, ok := view.Seat("DEALER")
	require.True(t, ok)
	require.Len(t, dealer.Cards, 1)
	assert.True(t, dealer.Cards[0].Hidden, "庄家暗牌应遮住")
	assert.Empty(t, dealer.Cards[0].Suit)
	assert.False(t, dealer.ScoreVisible)

	send(t, conn, protocol.MsgStand, nil)
	view = readView(t, conn, "RESULT")
	dealer, _ = view.Seat("DEALER")
	for _, c := range dealer.Cards {
		assert.False(t, c.Hidden)
	}
	require.Len(t, view.History, 1)

	// 结算写入 Redis 在状态发布之后
	require.Eventually(t, func() bool {
		stats, err := s.redisStore.GetStats(t.Context())
		return err == nil && stats.Rounds == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Online)
	assert.Equal(t, int64(1), body.Stats.Rounds)
	assert.Equal(t, int64(20), body.Stats.Wagered)
	require.Len(t, body.Recent, 1)
	assert.Equal(t, "SINGLE", body.Recent[0].Mode)
}

func TestServer_Errors(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, 10)
	conn := dial(t, ts)
	readView(t, conn, "MODE_SELECTION")

	tests := []struct {
		name    string
		msgType protocol.MessageType
		payload any
		code    int
	}{
		{"unknown type", "shuffle", nil, protocol.ErrCodeInvalidMsg},
		{"unknown mode", protocol.MsgSelectMode, protocol.SelectModePayload{Mode: "TRIO"}, protocol.ErrCodeUnknownMode},
		{"advice outside turn", protocol.MsgAdvice, nil, protocol.ErrCodeNotYourTurn},
	}

	for _, tt := range tests {
		send(t, conn, tt.msgType, tt.payload)
		msg := readUntil(t, conn, ofType(protocol.MsgError))
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.code, p.Code, tt.name)
	}

	// 无法解码的帧
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xff, 0x01}))
	msg := readUntil(t, conn, ofType(protocol.MsgError))
	p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, p.Code)
}

func TestServer_Advice(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	send(t, conn, protocol.MsgSelectMode, protocol.SelectModePayload{Mode: "SINGLE"})
	readView(t, conn, "BETTING")
	send(t, conn, protocol.MsgDeal, nil)
	readView(t, conn, "TURN_PLAYER")

	send(t, conn, protocol.MsgAdvice, protocol.AdvicePayload{RequestID: "r-1"})
	msg := readUntil(t, conn, ofType(protocol.MsgAdviceResult))
	p, err := codec.ParsePayload[protocol.AdviceResultPayload](msg)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Text)
	assert.Equal(t, "r-1", p.RequestID)
}

func TestServer_Ping(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	send(t, conn, protocol.MsgPing, protocol.PingPayload{Timestamp: 7})
	msg := readUntil(t, conn, ofType(protocol.MsgPong))
	p, err := codec.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ClientTimestamp)
}

func TestServer_MaxConnections(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, 1)
	first := dial(t, ts)
	readUntil(t, first, ofType(protocol.MsgConnected))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	// 断开后名额释放
	_ = first.Close()
	require.Eventually(t, func() bool { return s.GetOnlineCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	second := dial(t, ts)
	readUntil(t, second, ofType(protocol.MsgConnected))
}

func TestNew_NonPositiveMaxConnections(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -5} {
		s, ts := newTestServer(t, n)
		assert.Equal(t, config.Default().Server.MaxConnections, s.maxConnections)
		conn := dial(t, ts)
		readUntil(t, conn, ofType(protocol.MsgConnected))
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, 10)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RedisDown(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := New(config.Default(), rdb)
	mr.Close()

	for _, path := range []string{"/health", "/stats"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestServer_Shutdown(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, 10)
	conn := dial(t, ts)
	readUntil(t, conn, ofType(protocol.MsgConnected))
	require.Eventually(t, func() bool { return s.GetOnlineCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Shutdown(t.Context()))

	msg := readUntil(t, conn, ofType(protocol.MsgError))
	p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeTableClosed, p.Code)
}
