package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestManagerStartIsSingleFlight(t *testing.T) {
	var loads int32
	release := make(chan struct{})
	mgr := NewManager(zap.NewNop(), func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		<-release
		return nil
	})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = mgr.Start(context.Background())
		}(i)
	}

	// Let every caller reach Start before the load completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Fatalf("initialization ran %d times, want 1", got)
	}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if mgr.State() != StateReady {
		t.Fatalf("state = %q, want ready", mgr.State())
	}
}

func TestManagerStartAfterReadyReturnsImmediately(t *testing.T) {
	var loads int32
	mgr := NewManager(zap.NewNop(), func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		return nil
	})

	for i := 0; i < 3; i++ {
		if err := mgr.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Fatalf("initialization ran %d times, want 1", got)
	}
}

func TestManagerFailedStartResetsAndDoesNotRetry(t *testing.T) {
	var loads int32
	mgr := NewManager(zap.NewNop(), func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		return errors.New("unsupported provider: carrier-pigeon")
	})

	if err := mgr.Start(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if mgr.State() != StateUninitialized {
		t.Fatalf("state = %q, want uninitialized", mgr.State())
	}
	if mgr.LastError() != "The chat assistant is not available in this deployment." {
		t.Fatalf("last error = %q", mgr.LastError())
	}

	// A failed attempt is not retried implicitly; the next Start tries again.
	mgr.Start(context.Background())
	if got := atomic.LoadInt32(&loads); got != 2 {
		t.Fatalf("initialization ran %d times, want 2", got)
	}
}

func TestManagerStopThenStart(t *testing.T) {
	mgr := NewManager(zap.NewNop(), func(ctx context.Context) error { return nil })

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	mgr.Stop()
	if mgr.State() != StateDestroyed {
		t.Fatalf("state = %q, want destroyed", mgr.State())
	}
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if mgr.State() != StateReady {
		t.Fatalf("state = %q, want ready after restart", mgr.State())
	}
}

func TestManagerStopDuringLoadStaysDestroyed(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	mgr := NewManager(zap.NewNop(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(context.Background()) }()

	<-started
	mgr.Stop()
	close(release)

	// The load finished after Stop; it must not resurrect the session.
	if err := <-errCh; err == nil {
		t.Fatal("expected Start to fail after Stop")
	}
	if mgr.State() != StateDestroyed {
		t.Fatalf("state = %q, want destroyed", mgr.State())
	}
}

func TestClassifyInitError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("unsupported provider: x"), "The chat assistant is not available in this deployment."},
		{errors.New("no enabled AI provider"), "The chat assistant is not available in this deployment."},
		{errors.New("dial tcp: connection refused"), "The chat assistant failed to start. Please try again later."},
	}
	for _, tt := range tests {
		if got := ClassifyInitError(tt.err); got != tt.want {
			t.Errorf("ClassifyInitError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
