package repository

import (
	"context"

	"github.com/eslsoft/wordpicker/internal/entity"
)

// ListWordRecordQuery selects one page of records, most recent first.
type ListWordRecordQuery struct {
	Pagination
	Filter
}

// WordRecordRepository abstracts persistence for captured words.
//
// InsertIfAbsent must be atomic with respect to the record's text: when two
// callers race on the same text exactly one of them observes AddResultAdded.
type WordRecordRepository interface {
	InsertIfAbsent(ctx context.Context, record entity.WordRecord) (entity.AddResult, error)
	// FindByText looks a record up by its exact text.
	FindByText(ctx context.Context, text string) (entity.WordRecord, bool, error)
	ListAll(ctx context.Context) ([]entity.WordRecord, error)
	// ListBatch returns up to limit records starting at offset in recency order.
	ListBatch(ctx context.Context, offset, limit int) ([]entity.WordRecord, error)
	List(ctx context.Context, query *ListWordRecordQuery) ([]entity.WordRecord, int64, error)
	Count(ctx context.Context) (int64, error)
}
