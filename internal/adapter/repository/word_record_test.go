package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database/migrate"
	"github.com/eslsoft/wordpicker/internal/repository"
)

var baseTime = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newSQLiteRepo(t *testing.T) repository.WordRecordRepository {
	t.Helper()
	requireSQLite(t)

	dsn := "file:" + filepath.Join(t.TempDir(), "words.db") + "?_fk=1"
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	drv := entsql.OpenDB(dialect.SQLite, db)
	require.NoError(t, migrate.Create(context.Background(), drv))
	return NewWordRecordRepository(drv)
}

func seed(t *testing.T, repo repository.WordRecordRepository, n int) []entity.WordRecord {
	t.Helper()
	records := make([]entity.WordRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := entity.NewWordRecord(fmt.Sprintf("word %02d", i), baseTime.Add(time.Duration(i)*time.Minute))
		res, err := repo.InsertIfAbsent(context.Background(), rec)
		require.NoError(t, err)
		require.Equal(t, entity.AddResultAdded, res)
		records = append(records, rec)
	}
	return records
}

func TestInsertIfAbsentDeduplicates(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := entity.NewWordRecord("Hello world", baseTime)
	res, err := repo.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, entity.AddResultAdded, res)

	res, err = repo.InsertIfAbsent(ctx, entity.NewWordRecord("Hello world", baseTime.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, entity.AddResultAlreadyExists, res)

	// Matching is exact: a different case is a different record.
	res, err = repo.InsertIfAbsent(ctx, entity.NewWordRecord("hello world", baseTime.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, entity.AddResultAdded, res)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byText := map[string]entity.WordRecord{}
	for _, r := range all {
		byText[r.Text] = r
	}
	assert.True(t, byText["Hello world"].Timestamp.Equal(first.Timestamp), "timestamp must not be mutated by a duplicate add")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestFindByText(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	records := seed(t, repo, 3)

	got, ok, err := repo.FindByText(ctx, "word 01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "word 01", got.Text)
	assert.True(t, got.Timestamp.Equal(records[1].Timestamp))

	_, ok, err = repo.FindByText(ctx, "WORD 01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertIfAbsentRejectsInvalidRecords(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.InsertIfAbsent(ctx, entity.NewWordRecord("   ", baseTime))
	assert.ErrorIs(t, err, entity.ErrInvalidWordText)

	_, err = repo.InsertIfAbsent(ctx, entity.WordRecord{Text: "no time"})
	assert.ErrorIs(t, err, entity.ErrInvalidTimestamp)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertIfAbsentConcurrentSameText(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	const workers = 16
	results := make([]entity.AddResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := repo.InsertIfAbsent(ctx, entity.NewWordRecord("race", baseTime.Add(time.Duration(i)*time.Second)))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	added := 0
	for _, res := range results {
		if res == entity.AddResultAdded {
			added++
		}
	}
	assert.Equal(t, 1, added)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestListBatchOrdersByRecency(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	seed(t, repo, 5)

	batch, err := repo.ListBatch(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"word 04", "word 03", "word 02"}, texts(batch))

	batch, err = repo.ListBatch(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"word 01", "word 00"}, texts(batch))

	batch, err = repo.ListBatch(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, batch)

	_, err = repo.ListBatch(ctx, 0, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidPageSize)
}

func TestListBatchBreaksTimestampTiesByText(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	for _, text := range []string{"b", "c", "a"} {
		_, err := repo.InsertIfAbsent(ctx, entity.NewWordRecord(text, baseTime))
		require.NoError(t, err)
	}

	batch, err := repo.ListBatch(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, texts(batch))
}

func TestListPaginatesAndFilters(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	seed(t, repo, 45)

	query := &repository.ListWordRecordQuery{Pagination: repository.Pagination{PageNo: 3, PageSize: 20}}
	page, total, err := repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Equal(t, []string{"word 04", "word 03", "word 02", "word 01", "word 00"}, texts(page))

	query.PageNo = 4
	page, total, err = repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Empty(t, page)

	query = &repository.ListWordRecordQuery{
		Pagination: repository.Pagination{PageNo: 1, PageSize: 20},
		Filter:     repository.Filter{Filter: "text.startsWith('word 1')"},
	}
	page, total, err = repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
	assert.Equal(t, "word 19", page[0].Text)

	since := baseTime.Add(40 * time.Minute).Format(time.RFC3339)
	query.Filter.Filter = fmt.Sprintf("timestamp >= timestamp('%s')", since)
	page, total, err = repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"word 44", "word 43", "word 42", "word 41", "word 40"}, texts(page))

	query.Filter.Filter = "text in ['word 07', 'word 09', 'missing']"
	page, total, err = repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"word 09", "word 07"}, texts(page))
}

func TestListFarPastTheEndIsEmpty(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	seed(t, repo, 5)

	query := &repository.ListWordRecordQuery{Pagination: repository.Pagination{PageNo: 300000, PageSize: 10000}}
	assert.EqualValues(t, int64(299999)*10000, query.Offset())

	page, total, err := repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, page)
}

func TestListPrefixIsCaseSensitive(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	for i, text := range []string{"Apple pie", "apple tart"} {
		_, err := repo.InsertIfAbsent(ctx, entity.NewWordRecord(text, baseTime.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	query := &repository.ListWordRecordQuery{
		Pagination: repository.Pagination{PageNo: 1, PageSize: 10},
		Filter:     repository.Filter{Filter: "text.startsWith('apple')"},
	}
	page, total, err := repo.List(ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"apple tart"}, texts(page))
}

func TestListRejectsBadInput(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, _, err := repo.List(ctx, &repository.ListWordRecordQuery{Pagination: repository.Pagination{PageNo: 1}})
	assert.ErrorIs(t, err, entity.ErrInvalidPageSize)

	_, _, err = repo.List(ctx, &repository.ListWordRecordQuery{
		Pagination: repository.Pagination{PageNo: 1, PageSize: 10},
		Filter:     repository.Filter{Filter: "text == 'a' || text == 'b'"},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidFilter)
}

func TestStorageErrorsAreClassified(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	err := storageError("insert", busy)
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.True(t, entity.IsTransientStorageError(err))

	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}
	assert.True(t, isUniqueViolation(unique))
	assert.False(t, entity.IsTransientStorageError(storageError("insert", unique)))

	assert.ErrorIs(t, storageError("query", context.Canceled), context.Canceled)
	assert.NotErrorIs(t, storageError("query", context.Canceled), entity.ErrStorageUnavailable)
}

func TestClosedDatabaseSurfacesStorageFailure(t *testing.T) {
	requireSQLite(t)
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "closed.db")+"?_fk=1")
	require.NoError(t, err)
	drv := entsql.OpenDB(dialect.SQLite, db)
	require.NoError(t, migrate.Create(context.Background(), drv))
	require.NoError(t, db.Close())

	repo := NewWordRecordRepository(drv)
	_, err = repo.InsertIfAbsent(context.Background(), entity.NewWordRecord("x", baseTime))
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)

	_, err = repo.Count(context.Background())
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
}

func texts(records []entity.WordRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Text)
	}
	return out
}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}
