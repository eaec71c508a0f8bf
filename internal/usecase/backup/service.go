package backup

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database/migrate"
	"github.com/eslsoft/wordpicker/internal/repository"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1

	recordTypeMeta = "meta"
	// maxLineSize bounds a single NDJSON line; one record is a short phrase.
	maxLineSize = 1 << 20
)

var (
	ErrMissingMeta        = errors.New("backup: missing meta record")
	ErrUnsupportedVersion = errors.New("backup: unsupported format version")
	ErrSchemaMismatch     = errors.New("backup: schema hash mismatch")
)

type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams word records to and from NDJSON backups.
type Service struct {
	repo       repository.WordRecordRepository
	store      usecase.WordStore
	batchSize  int
	schemaHash string
	clock      func() time.Time
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService reads through repo and restores through store, so imported rows
// follow the same insert-if-absent rule as captures.
func NewService(repo repository.WordRecordRepository, store usecase.WordStore, opts ...Option) *Service {
	svc := &Service{
		repo:       repo,
		store:      store,
		batchSize:  defaultBatchSize,
		schemaHash: migrate.Hash(migrate.Tables),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	reporter ProgressReporter
}

// WithProgressReporter registers a reporter that receives progress callbacks.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	reporter         ProgressReporter
	ignoreSchemaHash bool
}

// WithImportProgressReporter registers a reporter for import progress.
func WithImportProgressReporter(reporter ProgressReporter) ImportOption {
	return func(cfg *importConfig) {
		cfg.reporter = reporter
	}
}

// WithIgnoreSchemaHash accepts backups taken from a different schema revision.
func WithIgnoreSchemaHash() ImportOption {
	return func(cfg *importConfig) {
		cfg.ignoreSchemaHash = true
	}
}

// ImportResult counts what an import did with each record.
type ImportResult struct {
	Added   int
	Skipped int
}

type record struct {
	Type       string             `json:"type"`
	Version    int                `json:"version,omitempty"`
	ExportedAt *time.Time         `json:"exported_at,omitempty"`
	SchemaHash string             `json:"schema_hash,omitempty"`
	Tables     []string           `json:"tables,omitempty"`
	RowCounts  map[string]int     `json:"row_counts,omitempty"`
	Payload    *entity.WordRecord `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	SchemaHash string          `json:"schema_hash"`
	Tables     []string        `json:"tables"`
	RowCounts  map[string]int  `json:"row_counts"`
	Payload    json.RawMessage `json:"payload"`
}

// Export writes a meta line followed by one line per record, newest first.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{reporter: noopProgress{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = noopProgress{}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count %s: %w", migrate.WordRecordsTableName, err)
	}

	writer := bufio.NewWriter(w)
	now := s.clock().UTC()
	meta := record{
		Type:       recordTypeMeta,
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     []string{migrate.WordRecordsTableName},
		RowCounts:  map[string]int{migrate.WordRecordsTableName: int(total)},
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	table := migrate.WordRecordsTableName
	cfg.reporter.StartTable(table, int(total))
	for offset := 0; ; offset += s.batchSize {
		batch, err := s.repo.ListBatch(ctx, offset, s.batchSize)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		for i := range batch {
			if err := writeRecord(writer, record{Type: table, Payload: &batch[i]}); err != nil {
				return err
			}
		}
		cfg.reporter.Increment(table, len(batch))
		if len(batch) < s.batchSize {
			break
		}
	}
	cfg.reporter.FinishTable(table)
	return writer.Flush()
}

// Import restores every record of a backup. The meta line must come first so a
// foreign file is rejected before anything is written.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (ImportResult, error) {
	cfg := importConfig{reporter: noopProgress{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = noopProgress{}
	}

	var (
		result   ImportResult
		metaSeen bool
		lineNo   int
		table    = migrate.WordRecordsTableName
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return result, fmt.Errorf("decode record on line %d: %w", lineNo, err)
		}

		if !metaSeen {
			if rec.Type != recordTypeMeta {
				return result, ErrMissingMeta
			}
			if err := s.checkMeta(rec, cfg.ignoreSchemaHash); err != nil {
				return result, err
			}
			metaSeen = true
			cfg.reporter.StartTable(table, rec.RowCounts[table])
			continue
		}

		if rec.Type != table {
			// Unknown tables come from newer exports.
			continue
		}
		if len(rec.Payload) == 0 {
			return result, fmt.Errorf("backup: missing payload on line %d", lineNo)
		}
		var word entity.WordRecord
		if err := json.Unmarshal(rec.Payload, &word); err != nil {
			return result, fmt.Errorf("decode payload on line %d: %w", lineNo, err)
		}
		added, err := s.store.Restore(ctx, word)
		if err != nil {
			return result, fmt.Errorf("restore line %d: %w", lineNo, err)
		}
		if added == entity.AddResultAdded {
			result.Added++
		} else {
			result.Skipped++
		}
		cfg.reporter.Increment(table, 1)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read backup: %w", err)
	}
	if !metaSeen {
		return result, ErrMissingMeta
	}
	cfg.reporter.FinishTable(table)
	return result, nil
}

func (s *Service) checkMeta(meta rawRecord, ignoreHash bool) error {
	if meta.Version != formatVersion {
		return fmt.Errorf("%w %d", ErrUnsupportedVersion, meta.Version)
	}
	if !ignoreHash && meta.SchemaHash != "" && meta.SchemaHash != s.schemaHash {
		return fmt.Errorf("%w: backup %s, database %s", ErrSchemaMismatch, meta.SchemaHash, s.schemaHash)
	}
	return nil
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}
