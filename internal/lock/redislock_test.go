package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/lock"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond}, mr
}

func TestTryWithLockSkipsWhenHeld(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = locker.TryWithLock(ctx, "sweep", time.Second, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := locker.TryWithLock(ctx, "sweep", time.Second, func(context.Context) error {
		t.Fatal("second holder must not run")
		return nil
	})
	require.ErrorIs(t, err, lock.ErrNotAcquired)
	close(release)
}

func TestTryWithLockReleasesAfterRun(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()

	ran := 0
	for i := 0; i < 2; i++ {
		err := locker.TryWithLock(ctx, "sweep", time.Second, func(context.Context) error {
			ran++
			return nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, ran)
	require.False(t, mr.Exists("sweep"))
}

func TestWithLockWaitsForRelease(t *testing.T) {
	locker, _ := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locker.WithLock(ctx, "job", time.Second, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	done := make(chan error, 1)
	go func() {
		done <- locker.WithLock(ctx, "job", time.Second, func(context.Context) error { return nil })
	}()

	close(release)
	require.NoError(t, <-done)
}

func TestWithLockHonorsCancellation(t *testing.T) {
	locker, mr := newLocker(t)
	require.NoError(t, mr.Set("job", "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := locker.WithLock(ctx, "job", time.Second, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
