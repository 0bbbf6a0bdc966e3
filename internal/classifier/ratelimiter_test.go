package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/internal/classifier"
)

func TestRateLimiter_GetSetLimit(t *testing.T) {
	rl := classifier.NewRateLimiter(5)
	require.Equal(t, 5, rl.GetLimit())

	rl.SetLimit(20)
	require.Equal(t, 20, rl.GetLimit())

	rl.SetLimit(0)
	require.Equal(t, classifier.DefaultRateLimit, rl.GetLimit())

	rl.SetLimit(1000)
	require.Equal(t, classifier.DefaultRateLimit, rl.GetLimit())
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := classifier.NewRateLimiter(5)
	err := rl.Wait(context.Background())
	require.NoError(t, err)
}

func TestRateLimiter_Wait_ContextCanceled(t *testing.T) {
	rl := classifier.NewRateLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Drain the single burst token first so the next Wait would actually
	// block, then confirm a canceled context returns promptly.
	_ = rl.Wait(context.Background())
	err := rl.Wait(ctx)
	require.Error(t, err)
}
