package repository

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database/migrate"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database/types"
	"github.com/eslsoft/wordpicker/internal/repository"
	"github.com/eslsoft/wordpicker/pkg/filterexpr"
)

const (
	tableName       = migrate.WordRecordsTableName
	textColumn      = migrate.WordRecordsTextColumn
	timestampColumn = migrate.WordRecordsTimestampColumn
)

type wordRecordRepository struct {
	drv dialect.Driver
}

// NewWordRecordRepository constructs an ent SQL-builder backed repository.
func NewWordRecordRepository(drv dialect.Driver) repository.WordRecordRepository {
	return &wordRecordRepository{drv: drv}
}

// listWordRecordsParams receives the bound filter of a list query.
type listWordRecordsParams struct {
	Text       *string
	TextPrefix *string
	Texts      []string
	Since      *time.Time
	Until      *time.Time
}

func (r *wordRecordRepository) builder() *sql.DialectBuilder {
	return sql.Dialect(r.drv.Dialect())
}

// InsertIfAbsent writes the record with a single INSERT ... ON CONFLICT DO NOTHING
// so the existence check and the write cannot interleave with another writer.
func (r *wordRecordRepository) InsertIfAbsent(ctx context.Context, record entity.WordRecord) (entity.AddResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := record.Validate(); err != nil {
		return 0, err
	}

	query, args := r.builder().
		Insert(tableName).
		Columns(textColumn, timestampColumn).
		Values(record.Text, types.Timestamp(record.Timestamp)).
		OnConflict(sql.ConflictColumns(textColumn), sql.DoNothing()).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		if isUniqueViolation(err) {
			return entity.AddResultAlreadyExists, nil
		}
		return 0, storageError("insert word record", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("insert word record", err)
	}
	if affected == 0 {
		return entity.AddResultAlreadyExists, nil
	}
	return entity.AddResultAdded, nil
}

func (r *wordRecordRepository) FindByText(ctx context.Context, text string) (entity.WordRecord, bool, error) {
	selector := r.builder().
		Select(textColumn, timestampColumn).
		From(sql.Table(tableName)).
		Where(sql.EQ(textColumn, text)).
		Limit(1)
	records, err := r.query(ctx, "find word record", selector)
	if err != nil || len(records) == 0 {
		return entity.WordRecord{}, false, err
	}
	return records[0], true, nil
}

func (r *wordRecordRepository) ListAll(ctx context.Context) ([]entity.WordRecord, error) {
	selector := r.builder().
		Select(textColumn, timestampColumn).
		From(sql.Table(tableName))
	return r.query(ctx, "list word records", selector)
}

func (r *wordRecordRepository) ListBatch(ctx context.Context, offset, limit int) ([]entity.WordRecord, error) {
	if limit <= 0 {
		return nil, entity.ErrInvalidPageSize
	}
	if offset < 0 {
		offset = 0
	}
	selector := r.orderedSelector().Limit(limit).Offset(offset)
	return r.query(ctx, "list word record batch", selector)
}

func (r *wordRecordRepository) List(ctx context.Context, query *repository.ListWordRecordQuery) ([]entity.WordRecord, int64, error) {
	if query == nil {
		return nil, 0, entity.ErrInvalidPageSize
	}
	if query.PageSize <= 0 {
		return nil, 0, entity.ErrInvalidPageSize
	}

	var params listWordRecordsParams
	if err := filterexpr.Bind(query, &params, listWordRecordsSchema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidFilter, err)
	}
	where := params.predicate()

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}
	if query.PageNo < 1 || query.Offset() >= total {
		return []entity.WordRecord{}, total, nil
	}

	selector := r.orderedSelector().Limit(int(query.PageSize)).Offset(int(query.Offset()))
	if where != nil {
		selector.Where(where)
	}
	records, err := r.query(ctx, "list word records", selector)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *wordRecordRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

func (r *wordRecordRepository) orderedSelector() *sql.Selector {
	return r.builder().
		Select(textColumn, timestampColumn).
		From(sql.Table(tableName)).
		OrderBy(sql.Desc(timestampColumn), sql.Asc(textColumn))
}

func (r *wordRecordRepository) count(ctx context.Context, where *sql.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	selector := r.builder().Select(sql.Count("*")).From(sql.Table(tableName))
	if where != nil {
		selector.Where(where)
	}
	query, args := selector.Query()

	var rows sql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, storageError("count word records", err)
	}
	defer rows.Close()

	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, storageError("count word records", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, storageError("count word records", err)
	}
	return total, nil
}

func (r *wordRecordRepository) query(ctx context.Context, op string, selector *sql.Selector) ([]entity.WordRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, args := selector.Query()

	var rows sql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	records := []entity.WordRecord{}
	for rows.Next() {
		var (
			text string
			ts   types.Timestamp
		)
		if err := rows.Scan(&text, &ts); err != nil {
			return nil, storageError(op, err)
		}
		records = append(records, entity.WordRecord{Text: text, Timestamp: ts.Time()})
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return records, nil
}

func (p listWordRecordsParams) predicate() *sql.Predicate {
	var preds []*sql.Predicate
	if p.Text != nil {
		preds = append(preds, sql.EQ(textColumn, *p.Text))
	}
	if p.TextPrefix != nil {
		preds = append(preds, hasPrefix(textColumn, *p.TextPrefix))
	}
	if len(p.Texts) > 0 {
		args := make([]any, 0, len(p.Texts))
		for _, text := range p.Texts {
			args = append(args, text)
		}
		preds = append(preds, sql.In(textColumn, args...))
	}
	if p.Since != nil {
		preds = append(preds, sql.GTE(timestampColumn, types.Timestamp(*p.Since)))
	}
	if p.Until != nil {
		preds = append(preds, sql.LTE(timestampColumn, types.Timestamp(*p.Until)))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return sql.And(preds...)
	}
}

// hasPrefix compares a leading substring instead of using LIKE, which SQLite
// evaluates case-insensitively. Text matching stays exact on every backend.
func hasPrefix(column, prefix string) *sql.Predicate {
	return sql.P(func(b *sql.Builder) {
		b.WriteString("substr(").
			Ident(column).
			WriteString(", 1, ").
			Arg(utf8.RuneCountInString(prefix)).
			WriteString(") = ").
			Arg(prefix)
	})
}
