package session

import (
	"context"
	"time"
)

// Sleeper 自动流程的节奏控制
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper 真实计时
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay 立即返回，用于测试和模拟
type NoDelay struct{}

func (NoDelay) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
