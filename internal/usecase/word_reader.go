package usecase

import (
	"context"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/repository"
)

// WordReader serves paged and full views of the stored words, newest first.
type WordReader interface {
	// Page returns the 1-based pageIndex-th slice of pageSize records. Indexes
	// below 1 or past the end yield an empty page.
	Page(ctx context.Context, pageIndex, pageSize int) ([]entity.WordRecord, error)
	PageCount(ctx context.Context, pageSize int) (int, error)
	// ExportAll reads every record in bounded batches.
	ExportAll(ctx context.Context) ([]entity.WordRecord, error)
	Search(ctx context.Context, query *repository.ListWordRecordQuery) ([]entity.WordRecord, int64, error)
}

func NewWordReader(repo repository.WordRecordRepository, opts StoreOptions) WordReader {
	return &wordReader{repo: repo, opts: opts}
}

type wordReader struct {
	repo repository.WordRecordRepository
	opts StoreOptions
}

func (r *wordReader) Page(ctx context.Context, pageIndex, pageSize int) ([]entity.WordRecord, error) {
	if pageSize < 1 {
		return nil, entity.ErrInvalidPageSize
	}
	if pageIndex < 1 || pageIndex-1 > math.MaxInt/pageSize {
		return []entity.WordRecord{}, nil
	}
	offset := (pageIndex - 1) * pageSize

	records, err := withRetry(ctx, r.opts, func(ctx context.Context) ([]entity.WordRecord, error) {
		return r.repo.ListBatch(ctx, offset, pageSize)
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.WordRecord{}
	}
	return records, nil
}

func (r *wordReader) PageCount(ctx context.Context, pageSize int) (int, error) {
	if pageSize < 1 {
		return 0, entity.ErrInvalidPageSize
	}
	count, err := withRetry(ctx, r.opts, r.repo.Count)
	if err != nil {
		return 0, err
	}
	return pageCount(count, pageSize), nil
}

func (r *wordReader) ExportAll(ctx context.Context) ([]entity.WordRecord, error) {
	batchSize := r.opts.exportBatchSize()
	var records []entity.WordRecord
	for offset := 0; ; offset += batchSize {
		batch, err := withRetry(ctx, r.opts, func(ctx context.Context) ([]entity.WordRecord, error) {
			return r.repo.ListBatch(ctx, offset, batchSize)
		})
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
		if len(batch) < batchSize {
			break
		}
	}

	// A concurrent Add shifts later offsets by one, which repeats a record at a
	// batch boundary.
	records = lo.UniqBy(records, func(rec entity.WordRecord) string { return rec.Text })
	slices.SortStableFunc(records, entity.ByRecency)
	return records, nil
}

func (r *wordReader) Search(ctx context.Context, query *repository.ListWordRecordQuery) ([]entity.WordRecord, int64, error) {
	if query == nil {
		query = &repository.ListWordRecordQuery{}
	}
	if query.PageSize < 1 || query.PageSize > _maxPageSize {
		return nil, 0, entity.ErrInvalidPageSize
	}

	type page struct {
		records []entity.WordRecord
		total   int64
	}
	result, err := withRetry(ctx, r.opts, func(ctx context.Context) (page, error) {
		records, total, err := r.repo.List(ctx, query)
		return page{records: records, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	if result.records == nil {
		result.records = []entity.WordRecord{}
	}
	return result.records, result.total, nil
}

func pageCount(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// PageCount is the number of pageSize pages needed for total records.
func PageCount(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return pageCount(total, pageSize)
}
