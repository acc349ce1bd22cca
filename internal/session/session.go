package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/postboard/internal/collection"
	"github.com/five82/postboard/internal/placeholder"
	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/records"
	"github.com/five82/postboard/internal/viewstate"
)

// Operation names used for logs and metrics.
const (
	OpFetch   = "fetch"
	OpRefresh = "refresh"
	OpGet     = "get"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
)

// Recorder observes operation lifecycles. *metrics.Collector implements it.
type Recorder interface {
	Begin(op string)
	Settle(op string, err error, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Begin(string) {}

func (nopRecorder) Settle(string, error, time.Duration) {}

// Options configure a Session.
type Options struct {
	Gateway  placeholder.Gateway
	Params   query.Params // zero value uses query.DefaultParams
	Strategy WriteStrategy
	Logger   *zap.Logger
	Recorder Recorder
}

// Session owns one client-side collection, its operation status and its
// view parameters. Every consumer of the collection goes through it.
type Session struct {
	gateway  placeholder.Gateway
	store    *collection.Store
	status   *collection.Status
	coord    *viewstate.Coordinator
	strategy WriteStrategy
	logger   *zap.Logger
	recorder Recorder

	viewMu   sync.Mutex
	cached   query.View
	cacheKey [2]uint64
	hasCache bool
}

// ErrNoGateway is returned by New when Options.Gateway is nil.
var ErrNoGateway = errors.New("session requires a gateway")

// New builds an empty session. Call FetchAll to populate it.
func New(opts Options) (*Session, error) {
	if opts.Gateway == nil {
		return nil, ErrNoGateway
	}
	strategy, err := ParseWriteStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	params := opts.Params
	if params == (query.Params{}) {
		params = query.DefaultParams()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	store := &collection.Store{}
	return &Session{
		gateway:  opts.Gateway,
		store:    store,
		status:   &collection.Status{},
		coord:    viewstate.New(store, params),
		strategy: strategy,
		logger:   logger.Named("session"),
		recorder: recorder,
	}, nil
}

// FetchAll replaces the collection with the remote list.
func (s *Session) FetchAll(ctx context.Context) Result[[]records.Record] {
	return s.fetch(ctx, OpFetch, viewstate.TriggerFetched)
}

// Refresh re-fetches the collection like FetchAll but keeps the current page,
// clamped to the last page of the new collection.
func (s *Session) Refresh(ctx context.Context) Result[[]records.Record] {
	return s.fetch(ctx, OpRefresh, viewstate.TriggerRefreshed)
}

func (s *Session) fetch(ctx context.Context, op string, trigger viewstate.Trigger) Result[[]records.Record] {
	return run(s, ctx, op, func(ctx context.Context) ([]records.Record, error) {
		list, err := s.gateway.List(ctx)
		if err != nil {
			return nil, err
		}
		s.store.Replace(list)
		s.coord.Notify(trigger)
		return s.store.Snapshot(), nil
	})
}

// Get reads one record from the remote without touching the collection.
func (s *Session) Get(ctx context.Context, id int64) Result[records.Record] {
	return run(s, ctx, OpGet, func(ctx context.Context) (records.Record, error) {
		if err := records.ValidateID(id); err != nil {
			return records.Record{}, err
		}
		return s.gateway.Get(ctx, id)
	})
}

// Create sends draft to the remote and prepends the result to the
// collection.
func (s *Session) Create(ctx context.Context, draft records.Draft) Result[records.Record] {
	return run(s, ctx, OpCreate, func(ctx context.Context) (records.Record, error) {
		if err := draft.Validate(); err != nil {
			return records.Record{}, err
		}
		created, err := s.gateway.Create(ctx, draft)
		if err != nil {
			return records.Record{}, err
		}
		applied := created
		if s.strategy == ApplyDraft {
			applied = draft.WithID(created.ID)
		}
		s.store.InsertFront(applied)
		s.coord.Notify(viewstate.TriggerCreated)
		return applied, nil
	})
}

// Update replaces full.ID on the remote and swaps the collection entry
// wholesale. The id must already be in the collection.
func (s *Session) Update(ctx context.Context, full records.Record) Result[records.Record] {
	return run(s, ctx, OpUpdate, func(ctx context.Context) (records.Record, error) {
		if err := full.Validate(); err != nil {
			return records.Record{}, err
		}
		if _, ok := s.store.FindByID(full.ID); !ok {
			return records.Record{}, &records.ValidationError{Field: "id", Reason: fmt.Sprintf("%d is not in the collection", full.ID)}
		}
		replaced, err := s.gateway.Replace(ctx, full.ID, full)
		if err != nil {
			return records.Record{}, err
		}
		applied := replaced
		if s.strategy == ApplyDraft {
			applied = full
		}
		applied.ID = full.ID
		if !s.store.ReplaceByID(full.ID, applied) {
			s.logger.Debug("updated record vanished before apply", zap.Int64("id", full.ID))
		}
		s.coord.Notify(viewstate.TriggerUpdated)
		return applied, nil
	})
}

// Delete removes id on the remote, drops it from the collection and lets the
// coordinator repair pagination.
func (s *Session) Delete(ctx context.Context, id int64) Result[struct{}] {
	return run(s, ctx, OpDelete, func(ctx context.Context) (struct{}, error) {
		if err := records.ValidateID(id); err != nil {
			return struct{}{}, err
		}
		if err := s.gateway.Remove(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.store.RemoveByID(id)
		s.coord.Notify(viewstate.TriggerDeleted)
		return struct{}{}, nil
	})
}

// run applies the operation template: status.Begin, the body, and a deferred
// settle that runs on every exit path including a panic in the gateway.
func run[T any](s *Session, ctx context.Context, op string, body func(context.Context) (T, error)) (res Result[T]) {
	start := time.Now()
	s.status.Begin()
	s.recorder.Begin(op)
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: fmt.Errorf("%s: gateway panic: %v", op, p)}
		}
		elapsed := time.Since(start)
		s.status.Settle(res.Err)
		s.recorder.Settle(op, res.Err, elapsed)
		if res.Err != nil {
			s.logger.Warn("operation failed",
				zap.String("op", op),
				zap.String("kind", records.Kind(res.Err)),
				zap.Duration("elapsed", elapsed),
				zap.Error(res.Err))
			return
		}
		s.logger.Debug("operation settled", zap.String("op", op), zap.Duration("elapsed", elapsed))
	}()

	data, err := body(ctx)
	if err != nil {
		return Result[T]{Err: fmt.Errorf("%s: %w", op, err)}
	}
	return Result[T]{Data: data}
}

// View returns the current page. The result is cached until the collection
// or the parameters change.
func (s *Session) View() query.View {
	key := [2]uint64{s.store.Version(), s.coord.Version()}

	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if s.hasCache && s.cacheKey == key {
		return s.cached
	}
	s.cached = s.coord.View()
	s.cacheKey = key
	s.hasCache = true
	return s.cached
}

// Records returns a copy of the collection in collection order.
func (s *Session) Records() []records.Record {
	return s.store.Snapshot()
}

// Status returns the shared loading/error state.
func (s *Session) Status() collection.StatusSnapshot {
	return s.status.Snapshot()
}

// Params returns the current view parameters.
func (s *Session) Params() query.Params {
	return s.coord.Params()
}

// Coordinator exposes the parameter setters.
func (s *Session) Coordinator() *viewstate.Coordinator {
	return s.coord
}

// Strategy reports the configured write strategy.
func (s *Session) Strategy() WriteStrategy {
	return s.strategy
}
