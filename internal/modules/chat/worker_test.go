package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	appcfg "github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/fetch"
	"go.uber.org/zap"
)

func waitEvent(t *testing.T, events <-chan Event, eventType string) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", eventType)
		}
	}
}

func TestWorkerGenerateBeforeInitialize(t *testing.T) {
	cfg := &appcfg.AppConfig{}
	cfg.AI.EnableChat = true

	worker := NewWorker(zap.NewNop(), cfg, fetch.New(), NewDefaultPolicy(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Inbox() <- Envelope{Type: EnvelopeGenerate, Prompt: "...", Query: "q1", MaxTokens: 60, Temperature: 0.3}

	ev := waitEvent(t, worker.Events(), EventError)
	if ev.Query != "q1" {
		t.Fatalf("event query = %q, want q1", ev.Query)
	}
	if ev.Error != ErrNotInitialized {
		t.Fatalf("event error = %q, want %q", ev.Error, ErrNotInitialized)
	}
}

func TestWorkerInitializeWithoutProviderFails(t *testing.T) {
	cfg := &appcfg.AppConfig{}
	cfg.AI.EnableChat = true

	worker := NewWorker(zap.NewNop(), cfg, fetch.New(), NewDefaultPolicy(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Inbox() <- Envelope{Type: EnvelopeInitialize}

	ev := waitEvent(t, worker.Events(), EventError)
	if ev.Error != "no enabled AI provider" {
		t.Fatalf("event error = %q", ev.Error)
	}

	// The worker stays unloaded: a follow-up generate still fails fast.
	worker.Inbox() <- Envelope{Type: EnvelopeGenerate, Query: "q2"}
	ev = waitEvent(t, worker.Events(), EventError)
	if ev.Error != ErrNotInitialized {
		t.Fatalf("follow-up error = %q, want %q", ev.Error, ErrNotInitialized)
	}
}

func TestWorkerInitializeWhenChatDisabled(t *testing.T) {
	cfg := &appcfg.AppConfig{}

	worker := NewWorker(zap.NewNop(), cfg, fetch.New(), NewDefaultPolicy(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Inbox() <- Envelope{Type: EnvelopeInitialize}

	ev := waitEvent(t, worker.Events(), EventError)
	if ev.Error != "chat generation is disabled" {
		t.Fatalf("event error = %q", ev.Error)
	}
}

func TestWorkerTerminalEventsSurviveBackpressure(t *testing.T) {
	cfg := &appcfg.AppConfig{}
	cfg.AI.EnableChat = true

	worker := NewWorker(zap.NewNop(), cfg, fetch.New(), NewDefaultPolicy(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	// More requests than the event buffer holds, each owed one error event.
	const requests = 40
	go func() {
		for i := 0; i < requests; i++ {
			worker.Inbox() <- Envelope{Type: EnvelopeGenerate, Query: fmt.Sprintf("q%d", i)}
		}
	}()

	// Let the worker churn with no one draining before collecting.
	time.Sleep(100 * time.Millisecond)

	received := 0
	deadline := time.After(5 * time.Second)
	for received < requests {
		select {
		case ev := <-worker.Events():
			if ev.Type == EventError {
				received++
			}
		case <-deadline:
			t.Fatalf("received %d of %d terminal events", received, requests)
		}
	}
}

func TestWorkerUnknownMessageType(t *testing.T) {
	cfg := &appcfg.AppConfig{}
	worker := NewWorker(zap.NewNop(), cfg, fetch.New(), NewDefaultPolicy(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Inbox() <- Envelope{Type: "shutdown", Query: "q9"}

	ev := waitEvent(t, worker.Events(), EventError)
	if ev.Query != "q9" {
		t.Fatalf("event query = %q, want q9", ev.Query)
	}
}
