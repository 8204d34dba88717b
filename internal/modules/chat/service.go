package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	appcfg "github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/modules/cv"
	"github.com/folio-space/core/internal/pkg/fetch"
	"github.com/folio-space/core/internal/pkg/taskqueue"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// TaskTypeAsk is the queue type for asynchronous generation requests.
	TaskTypeAsk = "chat:ask"

	initializeTimeout = 60 * time.Second
	generateTimeout   = 90 * time.Second
)

// AskPayload is the task payload for asynchronous asks.
type AskPayload struct {
	Query string `json:"query"`
	Style string `json:"style"`
	Lang  string `json:"lang"`
}

// AskResult is a finished (or rejected) answer.
type AskResult struct {
	Answer       string `json:"answer"`
	Rejected     bool   `json:"rejected"`
	Message      string `json:"message,omitempty"`
	ProcessingMS int64  `json:"processing_ms"`
	Cached       bool   `json:"cached"`
}

// Service owns the worker goroutine and fans its events out to subscribers:
// synchronous asks wait on their query token, WebSocket clients relay
// everything.
type Service struct {
	log     *zap.Logger
	db      *gorm.DB
	cfg     *appcfg.AppConfig
	cvStore *cv.Store
	taskSvc *taskqueue.Service
	worker  *Worker

	Manager *Manager

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewService(log *zap.Logger, cfg *appcfg.AppConfig, db *gorm.DB, cvStore *cv.Store, taskSvc *taskqueue.Service, fetcher *fetch.Client) *Service {
	s := &Service{
		log:     log.Named("chat"),
		db:      db,
		cfg:     cfg,
		cvStore: cvStore,
		taskSvc: taskSvc,
		worker:  NewWorker(log, cfg, fetcher, NewDefaultPolicy(cfg.AI.ExtraDenylist)),
		subs:    map[chan Event]struct{}{},
	}
	s.Manager = NewManager(log, s.initializeWorker)
	return s
}

// Run starts the worker loop and the event fan-out. It returns when ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) {
	go s.worker.Run(ctx)
	for ev := range s.worker.Events() {
		s.broadcast(ev)
	}
}

// Send forwards an envelope to the worker.
func (s *Service) Send(env Envelope) {
	s.worker.Inbox() <- env
}

// Subscribe registers an event listener. The returned cancel closes the
// channel and must be called to release it; calling it twice is safe.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
}

// broadcast sends under the same lock that guards cancellation, so a send
// never races a close.
func (s *Service) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// A stalled subscriber must not block the fan-out.
		}
	}
}

// initializeWorker sends the initialize envelope and waits for the terminal
// ready or error event. It is the single-flight body behind Manager.Start.
func (s *Service) initializeWorker(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Send(Envelope{Type: EnvelopeInitialize})

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("model initialization: %w", ctx.Err())
		case ev, ok := <-events:
			if !ok {
				return errors.New("worker stopped during initialization")
			}
			if ev.Query != "" {
				continue // generation traffic from another caller
			}
			switch ev.Type {
			case EventReady:
				s.log.Info("model ready", zap.Int64("load_time_ms", ev.LoadTimeMS))
				return nil
			case EventError:
				return errors.New(ev.Error)
			}
		}
	}
}

// Ask answers one visitor question synchronously: answer cache, session
// start, prompt build, correlated wait on the worker, then persistence.
func (s *Service) Ask(ctx context.Context, query, style, lang string) (*AskResult, error) {
	if !s.cfg.AI.EnableChat {
		return nil, errors.New("chat is disabled")
	}
	if style == "" {
		style = "general"
	}
	if lang == "" {
		lang = "default"
	}

	hash := answerHash(query, style, lang)
	var cached models.AnswerCacheModel
	if err := s.db.Where("hash = ?", hash).First(&cached).Error; err == nil {
		return &AskResult{Answer: cached.Answer, Cached: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Manager.Start(ctx); err != nil {
		return nil, errors.New(ClassifyInitError(err))
	}

	token := uuid.NewString()
	prompt := BuildPrompt(s.cfg.Site.OwnerName, style, s.cvStore.ContextFor(query, style), query)

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Send(Envelope{Type: EnvelopeGenerate, Prompt: prompt, Query: token})

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation: %w", ctx.Err())
		case ev, ok := <-events:
			if !ok {
				return nil, errors.New("worker stopped during generation")
			}
			if ev.Query != token {
				continue
			}
			switch ev.Type {
			case EventResponse:
				s.persistExchange(query, ev.Response, style, lang, false, ev.ProcessingMS)
				s.cacheAnswer(hash, query, ev.Response, style, lang)
				return &AskResult{Answer: ev.Response, ProcessingMS: ev.ProcessingMS}, nil
			case EventError:
				if ev.Error == RejectionMessage {
					s.persistExchange(query, "", style, lang, true, ev.ProcessingMS)
					return &AskResult{Rejected: true, Message: RejectionMessage, ProcessingMS: ev.ProcessingMS}, nil
				}
				return nil, errors.New(ev.Error)
			}
		}
	}
}

// EnqueueAsk queues an asynchronous ask, deduplicated on the answer hash.
func (s *Service) EnqueueAsk(ctx context.Context, query, style, lang string) (*taskqueue.Task, error) {
	if style == "" {
		style = "general"
	}
	if lang == "" {
		lang = "default"
	}
	payload := AskPayload{Query: query, Style: style, Lang: lang}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeAsk, payload, answerHash(query, style, lang))
	if err != nil {
		return nil, err
	}

	if task.Status == taskqueue.TaskPending {
		go s.executeAsk(context.Background(), task.ID, payload)
	}
	return task, nil
}

func (s *Service) executeAsk(ctx context.Context, taskID string, payload AskPayload) {
	s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	result, err := s.Ask(ctx, payload.Query, payload.Style, payload.Lang)
	if err != nil {
		s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}
	s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, result, "")
}

func (s *Service) persistExchange(query, answer, style, lang string, rejected bool, processingMS int64) {
	record := models.ChatMessageModel{
		Query:        query,
		Answer:       answer,
		Style:        style,
		Lang:         lang,
		Rejected:     rejected,
		ProcessingMS: processingMS,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.log.Warn("persist chat message failed", zap.Error(err))
	}
}

func (s *Service) cacheAnswer(hash, query, answer, style, lang string) {
	entry := models.AnswerCacheModel{
		Hash:   hash,
		Query:  query,
		Answer: answer,
		Style:  style,
		Lang:   lang,
	}
	if err := s.db.Where("hash = ?", hash).Assign(entry).FirstOrCreate(&entry).Error; err != nil {
		s.log.Warn("cache answer failed", zap.Error(err))
	}
}

// PurgeMessagesBefore deletes chat log entries older than the cutoff.
func (s *Service) PurgeMessagesBefore(cutoff time.Time) (int64, error) {
	result := s.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ChatMessageModel{})
	return result.RowsAffected, result.Error
}

func answerHash(query, style, lang string) string {
	sum := sha256.Sum256([]byte(query + ":" + style + ":" + lang))
	return hex.EncodeToString(sum[:])
}
