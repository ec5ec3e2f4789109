package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := NewStandardImpl().Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestStandardSleepZero(t *testing.T) {
	err := NewStandardImpl().Sleep(context.Background(), 0)
	require.NoError(t, err)
}

func TestFake(t *testing.T) {
	start := time.Date(2024, time.August, 26, 0, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	require.NoError(t, fake.Sleep(context.Background(), time.Second))
	require.NoError(t, fake.Sleep(context.Background(), 0))
	require.NoError(t, fake.Sleep(context.Background(), 500*time.Millisecond))

	require.Equal(t, []time.Duration{time.Second, 0, 500 * time.Millisecond}, fake.Sleeps())
	require.Equal(t, start.Add(1500*time.Millisecond), fake.Now())
}
