package chat

import (
	"context"
	"fmt"
	"time"

	appcfg "github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/fetch"
	jetapi "go.jetify.com/ai/api"
	"go.uber.org/zap"
)

// ErrNotInitialized is the error text emitted when a generate request
// arrives before the model is ready.
const ErrNotInitialized = "Model not initialized"

// RejectionMessage marks a policy rejection; callers distinguish it from
// infrastructure failures by this text.
const RejectionMessage = "Response failed validation"

// Worker owns the loaded generation pipeline. It runs in a single goroutine
// and communicates exclusively over its inbox and event channels; no other
// goroutine touches its state. Requests are serialized by the inbox.
type Worker struct {
	log     *zap.Logger
	cfg     *appcfg.AppConfig
	fetcher *fetch.Client
	policy  Policy

	in  chan Envelope
	out chan Event

	ready    bool
	provider *appcfg.AIProvider
	model    jetapi.LanguageModel // nil when the raw compatible path is used
}

func NewWorker(log *zap.Logger, cfg *appcfg.AppConfig, fetcher *fetch.Client, policy Policy) *Worker {
	return &Worker{
		log:     log.Named("chat-worker"),
		cfg:     cfg,
		fetcher: fetcher,
		policy:  policy,
		in:      make(chan Envelope, 8),
		out:     make(chan Event, 32),
	}
}

// Inbox accepts initialize and generate envelopes.
func (w *Worker) Inbox() chan<- Envelope { return w.in }

// Events streams status, progress, ready, response and error events.
func (w *Worker) Events() <-chan Event { return w.out }

// Run drives the worker loop until ctx is cancelled. The event channel is
// closed on exit.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.out)
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-w.in:
			w.dispatch(ctx, env)
		}
	}
}

// dispatch translates one envelope into the matching handler. A recover
// guard turns any panic into an error event so the loop never dies silently.
func (w *Worker) dispatch(ctx context.Context, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("worker panic", zap.Any("panic", r), zap.String("type", env.Type))
			w.emit(ctx, Event{Type: EventError, Query: env.Query, Error: fmt.Sprintf("internal worker failure: %v", r)})
		}
	}()

	switch env.Type {
	case EnvelopeInitialize:
		w.initialize(ctx)
	case EnvelopeGenerate:
		w.processGeneration(ctx, env)
	default:
		w.emit(ctx, Event{Type: EventError, Query: env.Query, Error: "unknown message type: " + env.Type})
	}
}

// initialize selects and probes the provider, downgrading to the configured
// fallback when the primary is unreachable. Failure is terminal for the
// attempt: the worker stays unloaded and never retries on its own.
func (w *Worker) initialize(ctx context.Context) {
	if w.ready {
		w.emit(ctx, Event{Type: EventReady, Message: "model already loaded"})
		return
	}
	start := time.Now()

	if !w.cfg.AI.EnableChat {
		w.emit(ctx, Event{Type: EventError, Error: "chat generation is disabled"})
		return
	}

	w.emit(ctx, Event{Type: EventStatus, Message: "selecting provider"})
	provider := selectProvider(w.cfg.AI, w.cfg.AI.ChatModel)
	if provider == nil {
		w.emit(ctx, Event{Type: EventError, Error: "no enabled AI provider"})
		return
	}

	w.emit(ctx, Event{Type: EventProgress, Progress: 30, Message: "probing provider " + provider.ID})
	if err := probeProvider(ctx, w.fetcher, provider); err != nil {
		fallback := findProvider(w.cfg.AI, w.cfg.AI.FallbackProvider)
		if fallback != nil && fallback.ID != provider.ID {
			w.log.Warn("primary provider unreachable, using fallback",
				zap.String("primary", provider.ID), zap.String("fallback", fallback.ID), zap.Error(err))
			w.emit(ctx, Event{Type: EventStatus, Message: "primary provider unavailable, using fallback " + fallback.ID})
			provider = fallback
		} else {
			// No fallback configured: keep the primary and let generation
			// surface the failure if it persists.
			w.log.Warn("provider probe failed, continuing with primary",
				zap.String("provider", provider.ID), zap.Error(err))
			w.emit(ctx, Event{Type: EventStatus, Message: "provider probe failed, continuing"})
		}
	}

	w.emit(ctx, Event{Type: EventProgress, Progress: 70, Message: "loading model"})
	if isOpenAICompatibleProviderType(provider.Type) {
		w.model = nil
	} else {
		model, err := buildLanguageModel(provider)
		if err != nil {
			w.emit(ctx, Event{Type: EventError, Error: err.Error()})
			return
		}
		w.model = model
	}

	w.provider = provider
	w.ready = true
	w.emit(ctx, Event{Type: EventReady, LoadTimeMS: time.Since(start).Milliseconds()})
}

// processGeneration handles one request end to end and emits exactly one
// response or error event tagged with the request's query token.
func (w *Worker) processGeneration(ctx context.Context, env Envelope) {
	if !w.ready {
		w.emit(ctx, Event{Type: EventError, Query: env.Query, Error: ErrNotInitialized})
		return
	}

	params := ClampParams(GenerationParams{MaxTokens: env.MaxTokens, Temperature: env.Temperature})
	start := time.Now()

	raw, err := w.complete(ctx, env.Prompt, params)
	if err != nil {
		w.emit(ctx, Event{Type: EventError, Query: env.Query, Error: err.Error(),
			ProcessingMS: time.Since(start).Milliseconds()})
		return
	}

	cleaned, ok := w.policy.Clean(raw)
	if !ok {
		w.emit(ctx, Event{Type: EventError, Query: env.Query, Error: RejectionMessage,
			ProcessingMS: time.Since(start).Milliseconds()})
		return
	}

	w.emit(ctx, Event{Type: EventResponse, Query: env.Query, Response: cleaned,
		ProcessingMS: time.Since(start).Milliseconds()})
}

func (w *Worker) complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if w.model != nil {
		return generateWithModel(ctx, w.model, prompt, params)
	}
	return generateOpenAICompatible(ctx, w.provider, prompt, params)
}

func (w *Worker) emit(ctx context.Context, ev Event) {
	select {
	case w.out <- ev:
		return
	default:
	}

	switch ev.Type {
	case EventResponse, EventError:
		// Every request is owed exactly one terminal event; wait for the
		// fan-out to drain instead of dropping it.
		select {
		case w.out <- ev:
		case <-ctx.Done():
		}
	default:
		// Progress and status events are advisory and may be dropped when
		// no one is draining.
		w.log.Warn("event channel full, dropping event", zap.String("type", ev.Type))
	}
}
