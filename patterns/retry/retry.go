// Package retry 为远端发布等瞬时失败的操作提供指数退避重试。
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Operation 可重试的操作，attempt 从 1 开始
type Operation func(ctx context.Context, attempt int) error

// Config 重试配置
type Config struct {
	MaxAttempts  int           // 最大尝试次数（包括首次），<=0 使用默认值
	InitialDelay time.Duration // 首次重试前的等待
	Multiplier   float64       // 退避倍数，<1 视为 1
	MaxDelay     time.Duration // 单次等待上限，0 表示不限
}

// DefaultConfig 默认 3 次尝试，20ms 起步翻倍，最长 500ms
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 20 * time.Millisecond,
		Multiplier:   2,
		MaxDelay:     500 * time.Millisecond,
	}
}

func (c Config) normalized() Config {
	if c.MaxAttempts <= 0 {
		c = DefaultConfig()
	}
	if c.Multiplier < 1 {
		c.Multiplier = 1
	}
	return c
}

// Delay 返回第 attempt 次失败后的等待时长
func (c Config) Delay(attempt int) time.Duration {
	c = c.normalized()
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent 标记不应重试的错误；Do 会返回其内部错误
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do 执行 op，失败后按退避重试，返回最后一次错误
func Do(ctx context.Context, cfg Config, op Operation) error {
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(cfg.Delay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		}
	}
	return lastErr
}
