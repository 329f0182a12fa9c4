//go:build !production

package testutil

import (
	"context"
	"sync"
	"time"
)

// RecordingSleeper 不真正等待，只记录每次请求的时长
type RecordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Delays 返回记录的时长副本
func (s *RecordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}

// GateSleeper 每次 Sleep 都阻塞到测试调用 Release
type GateSleeper struct {
	entered chan time.Duration
	gate    chan struct{}
}

// NewGateSleeper 创建 GateSleeper
func NewGateSleeper() *GateSleeper {
	return &GateSleeper{
		entered: make(chan time.Duration, 64),
		gate:    make(chan struct{}),
	}
}

func (s *GateSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.entered <- d
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.gate:
		return nil
	}
}

// Wait 阻塞到有一个 Sleep 正在等待，返回它请求的时长
func (s *GateSleeper) Wait() time.Duration {
	return <-s.entered
}

// Release 放行一个正在等待的 Sleep
func (s *GateSleeper) Release() {
	s.gate <- struct{}{}
}
