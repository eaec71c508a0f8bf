package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/repository"
)

// WordStore is the append-only, deduplicated collection of captured words.
type WordStore interface {
	// Add stores text with the current time unless a record with the exact same
	// text already exists.
	Add(ctx context.Context, text string) (entity.AddResult, error)
	// Restore stores a previously exported record, keeping its timestamp.
	Restore(ctx context.Context, record entity.WordRecord) (entity.AddResult, error)
	ListAll(ctx context.Context) ([]entity.WordRecord, error)
	Count(ctx context.Context) (int64, error)
}

// NewWordStore wires the repository with default behaviour.
func NewWordStore(repo repository.WordRecordRepository, logger *logrus.Logger, opts StoreOptions) WordStore {
	return &wordStore{
		repo:   repo,
		logger: logger.WithField("component", "word_store"),
		opts:   opts,
		clock:  time.Now,
	}
}

type wordStore struct {
	// mu serializes writers within this process; the table's primary key
	// serializes them across processes.
	mu     sync.Mutex
	repo   repository.WordRecordRepository
	logger logrus.FieldLogger
	opts   StoreOptions
	clock  func() time.Time
}

func (s *wordStore) Add(ctx context.Context, text string) (entity.AddResult, error) {
	if entity.IsBlankText(text) {
		return 0, entity.ErrInvalidWordText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, entity.NewWordRecord(text, s.clock()))
}

func (s *wordStore) Restore(ctx context.Context, record entity.WordRecord) (entity.AddResult, error) {
	record.Timestamp = entity.NormalizeTimestamp(record.Timestamp)
	if err := record.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, record)
}

func (s *wordStore) insert(ctx context.Context, record entity.WordRecord) (entity.AddResult, error) {
	attempts := 0
	result, err := withRetry(ctx, s.opts, func(ctx context.Context) (entity.AddResult, error) {
		attempts++
		return s.repo.InsertIfAbsent(ctx, record)
	})
	entry := s.logger.WithField("text", record.Text)
	if err != nil {
		entry.WithError(err).Error("failed to store word")
		return 0, err
	}
	if result == entity.AddResultAlreadyExists && attempts > 1 {
		result = s.resolveRetriedInsert(ctx, record)
	}
	switch result {
	case entity.AddResultAdded:
		entry.WithField("timestamp", record.ISOTimestamp()).Info("word stored")
	case entity.AddResultAlreadyExists:
		entry.Debug("word already stored")
	}
	return result, nil
}

// resolveRetriedInsert decides whether a conflict seen on a retry was caused by
// an earlier attempt that committed before its error was reported. The stored
// row is ours when it carries the timestamp this call wrote.
func (s *wordStore) resolveRetriedInsert(ctx context.Context, record entity.WordRecord) entity.AddResult {
	stored, err := withRetry(ctx, s.opts, func(ctx context.Context) (*entity.WordRecord, error) {
		rec, ok, err := s.repo.FindByText(ctx, record.Text)
		if err != nil || !ok {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		s.logger.WithField("text", record.Text).WithError(err).Warn("cannot confirm outcome of retried insert")
		return entity.AddResultAlreadyExists
	}
	if stored != nil && stored.Timestamp.Equal(record.Timestamp) {
		return entity.AddResultAdded
	}
	return entity.AddResultAlreadyExists
}

func (s *wordStore) ListAll(ctx context.Context) ([]entity.WordRecord, error) {
	return withRetry(ctx, s.opts, s.repo.ListAll)
}

func (s *wordStore) Count(ctx context.Context) (int64, error) {
	return withRetry(ctx, s.opts, s.repo.Count)
}
