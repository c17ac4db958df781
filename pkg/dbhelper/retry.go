package dbhelper

import (
	"context"
	"time"

	"github.com/shrewx/crudx/pkg/logx"
)

// RetryConfig 重试配置
type RetryConfig struct {
	MaxRetries int           // 最大重试次数
	Delay      time.Duration // 首次重试延迟
	Backoff    float64       // 退避倍数
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		Delay:      500 * time.Millisecond,
		Backoff:    2.0,
	}
}

// RetryWithBackoff runs operation until it succeeds, the retries are used
// up or ctx is done. The delay grows by Backoff after every attempt.
func RetryWithBackoff[T any](ctx context.Context, operation func() (T, error), config *RetryConfig) (T, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var (
		result T
		err    error
	)
	delay := config.Delay
	for i := 0; i <= config.MaxRetries; i++ {
		result, err = operation()
		if err == nil {
			return result, nil
		}
		logx.Warnf("attempt %d/%d failed: %v", i+1, config.MaxRetries+1, err)

		if i == config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
		if config.Backoff > 1 {
			delay = time.Duration(float64(delay) * config.Backoff)
		}
	}

	return result, err
}
