package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/repository"
)

var baseTime = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeWordRecordRepo struct {
	mu    sync.Mutex
	items map[string]entity.WordRecord

	// failures is consumed one per call before the call runs.
	failures []error
	// writeFailures is consumed by inserts after the record has been stored.
	writeFailures []error
	calls    int
}

func newFakeWordRecordRepo() *fakeWordRecordRepo {
	return &fakeWordRecordRepo{items: make(map[string]entity.WordRecord)}
}

func (r *fakeWordRecordRepo) failNext(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, errs...)
}

func (r *fakeWordRecordRepo) failAfterWrite(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeFailures = append(r.writeFailures, errs...)
}

func (r *fakeWordRecordRepo) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.calls++
	if len(r.failures) > 0 {
		err := r.failures[0]
		r.failures = r.failures[1:]
		return err
	}
	return nil
}

func (r *fakeWordRecordRepo) InsertIfAbsent(ctx context.Context, record entity.WordRecord) (entity.AddResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return 0, err
	}
	if err := record.Validate(); err != nil {
		return 0, err
	}
	if _, ok := r.items[record.Text]; ok {
		return entity.AddResultAlreadyExists, nil
	}
	r.items[record.Text] = record
	if len(r.writeFailures) > 0 {
		err := r.writeFailures[0]
		r.writeFailures = r.writeFailures[1:]
		return 0, err
	}
	return entity.AddResultAdded, nil
}

func (r *fakeWordRecordRepo) FindByText(ctx context.Context, text string) (entity.WordRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return entity.WordRecord{}, false, err
	}
	rec, ok := r.items[text]
	return rec, ok, nil
}

func (r *fakeWordRecordRepo) sortedLocked() []entity.WordRecord {
	out := make([]entity.WordRecord, 0, len(r.items))
	for _, rec := range r.items {
		out = append(out, rec)
	}
	slices.SortFunc(out, entity.ByRecency)
	return out
}

func (r *fakeWordRecordRepo) ListAll(ctx context.Context) ([]entity.WordRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return nil, err
	}
	return r.sortedLocked(), nil
}

func (r *fakeWordRecordRepo) ListBatch(ctx context.Context, offset, limit int) ([]entity.WordRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, entity.ErrInvalidPageSize
	}
	all := r.sortedLocked()
	if offset >= len(all) {
		return []entity.WordRecord{}, nil
	}
	end := min(offset+limit, len(all))
	return slices.Clone(all[offset:end]), nil
}

func (r *fakeWordRecordRepo) List(ctx context.Context, query *repository.ListWordRecordQuery) ([]entity.WordRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return nil, 0, err
	}
	if query.PageSize <= 0 {
		return nil, 0, entity.ErrInvalidPageSize
	}
	var prefix string
	if f := strings.TrimSpace(query.GetFilter()); f != "" {
		// Only the prefix form is understood here; the SQL repository covers the rest.
		const fn = "text.startsWith('"
		if !strings.HasPrefix(f, fn) || !strings.HasSuffix(f, "')") {
			return nil, 0, errors.Join(entity.ErrInvalidFilter, errors.New(f))
		}
		prefix = strings.TrimSuffix(strings.TrimPrefix(f, fn), "')")
	}
	var matched []entity.WordRecord
	for _, rec := range r.sortedLocked() {
		if strings.HasPrefix(rec.Text, prefix) {
			matched = append(matched, rec)
		}
	}
	total := int64(len(matched))
	offset := int(query.Offset())
	if query.PageNo < 1 || offset >= len(matched) {
		return []entity.WordRecord{}, total, nil
	}
	end := min(offset+int(query.PageSize), len(matched))
	return slices.Clone(matched[offset:end]), total, nil
}

func (r *fakeWordRecordRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(ctx); err != nil {
		return 0, err
	}
	return int64(len(r.items)), nil
}

func texts(records []entity.WordRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Text)
	}
	return out
}
