package recorder

import (
	"context"
	"sync"
	"time"

	"campus-marketplace/internal/domain/history"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/rs/zerolog"
)

const appendTimeout = 5 * time.Second

// SearchRecorder appends executed searches to the history store on a worker pool
type SearchRecorder struct {
	historyRepo outbound.SearchHistoryRepository
	workers     int
	capacity    int
	pool        *pond.WorkerPool
	mu          sync.RWMutex
	now         func() time.Time
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

type SearchRecorderParams struct {
	HistoryRepo outbound.SearchHistoryRepository
	Workers     int
	Capacity    int
	Logger      zerolog.Logger
}

func NewSearchRecorder(params SearchRecorderParams) *SearchRecorder {
	ctx, cancel := context.WithCancel(context.Background())

	workers, capacity := params.Workers, params.Capacity
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = 64
	}

	return &SearchRecorder{
		historyRepo: params.HistoryRepo,
		workers:     workers,
		capacity:    capacity,
		now:         time.Now,
		logger:      params.Logger.With().Str("component", "search_recorder").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins accepting searches
func (s *SearchRecorder) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return
	}
	s.logger.Info().Int("workers", s.workers).Int("capacity", s.capacity).Msg("Starting search recorder")
	s.pool = pond.New(s.workers, s.capacity, pond.Context(s.ctx), pond.Strategy(pond.Balanced()))
}

// Stop waits for queued searches to be written, then stops the workers
func (s *SearchRecorder) Stop() {
	s.mu.Lock()
	pool := s.pool
	s.pool = nil
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping search recorder")
	if pool != nil {
		pool.StopAndWait()
	}
	s.cancel()
}

// Record queues one entry for the session's user. Anonymous sessions and blank
// queries are ignored. When the queue is full the search is dropped.
func (s *SearchRecorder) Record(sess *shared.Session, query string) {
	q := history.Normalize(query)
	if !sess.Authenticated() || q == "" {
		return
	}
	entry := history.NewEntry(sess.UserID, q, s.now().UTC())

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pool == nil {
		s.logger.Warn().Str("user_id", sess.UserID.String()).Msg("Search recorder not running, dropping search")
		return
	}

	if !s.pool.TrySubmit(func() { s.append(entry) }) {
		s.logger.Warn().Str("user_id", sess.UserID.String()).Msg("Search history queue full, dropping search")
	}
}

func (s *SearchRecorder) append(entry *history.Entry) {
	ctx, cancel := context.WithTimeout(s.ctx, appendTimeout)
	defer cancel()

	if err := s.historyRepo.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("user_id", entry.UserID.String()).Msg("Error tracking search")
		return
	}

	s.logger.Debug().Str("user_id", entry.UserID.String()).Str("query", entry.Query).Msg("Search recorded")
}
