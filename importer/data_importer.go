// Package importer bulk-loads candidate records from CSV files.
//
// Source headers are mapped onto the seven candidate columns by exact,
// normalized, alias and fuzzy (Levenshtein) matching. A real import runs in
// one transaction through a single prepared INSERT; each row is isolated by
// a savepoint so one bad row does not abort the rest. A dry run validates
// the rows with a worker pool and never touches the database.
package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
)

const (
	DefaultBatchSize   = 1000
	DefaultWorkerCount = 4
	DefaultFailedDir   = "failed_imports"

	// AutoAcceptConfidence is the minimum fuzzy score for a header to be
	// mapped without an exact or alias match.
	AutoAcceptConfidence = 0.8
	candidateConfidence  = 0.6
)

// Error codes carried by ImportError.
const (
	CodeMissingName   = "MISSING_NAME_COLUMN"
	CodeFieldCount    = "FIELD_COUNT"
	CodeEmptyName     = "EMPTY_NAME"
	CodeInsertFailed  = "INSERT_FAILED"
	CodeReadFailed    = "READ_FAILED"
	CodeEmptyFile     = "EMPTY_FILE"
	savepointName     = "hirehub_row"
	failedFileLayout  = "20060102_150405"
	failedErrorHeader = "Error"
)

// Target is the table rows are written to. *store.Store satisfies it.
type Target interface {
	DB() *sql.DB
	Table() string
	Placeholder(n int) string
}

// ImportConfig holds the configuration for data import
type ImportConfig struct {
	SourceFile  string `validate:"required"`
	BatchSize   int    `validate:"gte=0"`
	WorkerCount int    `validate:"gte=0,lte=64"`
	// FailedDir receives failed_records_<timestamp>.csv; empty means DefaultFailedDir.
	FailedDir string
	DryRun    bool
}

func (c ImportConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid import configuration: %w", err)
	}
	return nil
}

type ImportError struct {
	Code      string
	Message   string
	Timestamp time.Time
	Context   map[string]string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newImportError(code, format string, args ...any) *ImportError {
	return &ImportError{Code: code, Message: fmt.Sprintf(format, args...), Timestamp: time.Now()}
}

// RowFailure is one rejected source row. Row is 1-based and excludes the
// header line.
type RowFailure struct {
	Row  int
	Err  *ImportError
	Data []string
}

// Report summarizes one import or dry run.
type Report struct {
	RunID      string
	Source     string
	DryRun     bool
	Total      int
	Imported   int
	Failures   []RowFailure
	Mapping    HeaderMapping
	FailedFile string
	Duration   time.Duration
}

// Failed is the number of rejected rows.
func (r *Report) Failed() int { return len(r.Failures) }

// ReasonCounts groups the failures by error code.
func (r *Report) ReasonCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Failures {
		counts[f.Err.Code]++
	}
	return counts
}

type DataImporter struct {
	target  Target
	config  ImportConfig
	mapping HeaderMapping
	headers []string
	now     func() time.Time
}

func NewDataImporter(target Target, config ImportConfig) *DataImporter {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultWorkerCount
	}
	if config.FailedDir == "" {
		config.FailedDir = DefaultFailedDir
	}
	return &DataImporter{target: target, config: config, now: time.Now}
}

// Run executes an import, or a dry run when config.DryRun is set.
func Run(ctx context.Context, target Target, config ImportConfig) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	d := NewDataImporter(target, config)
	if config.DryRun {
		return d.Analyze(ctx)
	}
	return d.ImportData(ctx)
}

func (d *DataImporter) newReport() *Report {
	return &Report{
		RunID:  uuid.NewString(),
		Source: d.config.SourceFile,
		DryRun: d.config.DryRun,
	}
}

// open reads the header line and resolves the column mapping.
func (d *DataImporter) open() (*os.File, *csv.Reader, error) {
	file, err := os.Open(d.config.SourceFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		file.Close()
		return nil, nil, newImportError(CodeEmptyFile, "%s has no header row", d.config.SourceFile)
	}
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("error reading headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	mapping, err := MapHeaders(headers)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("header validation failed: %w", err)
	}
	d.headers = headers
	d.mapping = mapping
	return file, reader, nil
}

// ImportData inserts every valid row in a single transaction.
func (d *DataImporter) ImportData(ctx context.Context) (*Report, error) {
	start := d.now()
	report := d.newReport()

	file, reader, err := d.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	report.Mapping = d.mapping

	logger.Log.Info("import started", "run_id", report.RunID, "source", report.Source, "table", d.target.Table())

	db := d.target.DB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := d.prepareInsertStatement(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	var (
		batch    = make([]sourceRow, 0, d.config.BatchSize)
		rowIndex int
	)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowIndex++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("error reading row %d: %w", rowIndex, err)
			}
			report.Failures = append(report.Failures, RowFailure{
				Row: rowIndex,
				Err: newImportError(CodeReadFailed, "%v", err),
			})
			continue
		}

		batch = append(batch, sourceRow{row: rowIndex, data: record})
		if len(batch) >= d.config.BatchSize {
			if err := d.processBatch(ctx, tx, stmt, batch, report); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := d.processBatch(ctx, tx, stmt, batch, report); err != nil {
			return nil, err
		}
	}
	report.Total = rowIndex

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	if err := d.saveFailures(report); err != nil {
		logger.Log.Warn("could not save failed records", "error", err)
	}
	report.Duration = d.now().Sub(start)
	logger.Log.Info("import finished", "run_id", report.RunID, "imported", report.Imported, "failed", report.Failed())
	return report, nil
}

type sourceRow struct {
	row  int
	data []string
}

// processBatch inserts one batch of rows. Only errors that end the whole
// import are returned; row failures are added to report.
func (d *DataImporter) processBatch(ctx context.Context, tx *sql.Tx, stmt *sql.Stmt, batch []sourceRow, report *Report) error {
	for _, r := range batch {
		values, ierr := d.transformRecord(r.data)
		if ierr != nil {
			report.Failures = append(report.Failures, RowFailure{Row: r.row, Err: ierr, Data: r.data})
			continue
		}
		ierr, err := d.insertRow(ctx, tx, stmt, values)
		if err != nil {
			return err
		}
		if ierr != nil {
			report.Failures = append(report.Failures, RowFailure{Row: r.row, Err: ierr, Data: r.data})
			continue
		}
		report.Imported++
	}
	return nil
}

// insertRow executes one insert behind a savepoint. The first result is a
// row-level failure; the second is a transaction-level error.
func (d *DataImporter) insertRow(ctx context.Context, tx *sql.Tx, stmt *sql.Stmt, values []any) (*ImportError, error) {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return nil, fmt.Errorf("error creating savepoint: %w", err)
	}
	if _, err := stmt.ExecContext(ctx, values...); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			return nil, fmt.Errorf("error rolling back row: %w", rbErr)
		}
		ierr := newImportError(CodeInsertFailed, "%v", err)
		ierr.Context = map[string]string{"values": fmt.Sprintf("%v", values)}
		return ierr, nil
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return nil, fmt.Errorf("error releasing savepoint: %w", err)
	}
	return nil, nil
}

func (d *DataImporter) prepareInsertStatement(ctx context.Context, tx *sql.Tx) (*sql.Stmt, error) {
	placeholders := make([]string, len(models.StoreColumns))
	for i := range placeholders {
		placeholders[i] = d.target.Placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.target.Table(),
		models.JoinColumns(models.StoreColumns),
		strings.Join(placeholders, ", "))
	return tx.PrepareContext(ctx, query)
}

// transformRecord turns one source row into insert arguments in
// StoreColumns order. Blank cells become NULL.
func (d *DataImporter) transformRecord(record []string) ([]any, *ImportError) {
	if len(record) != len(d.headers) {
		return nil, newImportError(CodeFieldCount, "expected %d fields, got %d", len(d.headers), len(record))
	}
	c := d.mapping.Candidate(record)
	if strings.TrimSpace(c.Get(models.ColumnName)) == "" {
		return nil, newImportError(CodeEmptyName, "name is empty")
	}
	return c.Args(), nil
}

type chunkResult struct {
	failures []RowFailure
}

// Analyze validates every row without writing anything. Rows that cannot be
// parsed are recorded as READ_FAILED; the rest are split into WorkerCount
// chunks that are checked concurrently.
func (d *DataImporter) Analyze(ctx context.Context) (*Report, error) {
	start := d.now()
	report := d.newReport()
	report.DryRun = true

	file, reader, err := d.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	report.Mapping = d.mapping

	var (
		rows     []sourceRow
		rowIndex int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowIndex++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("error reading row %d: %w", rowIndex, err)
			}
			report.Failures = append(report.Failures, RowFailure{
				Row: rowIndex,
				Err: newImportError(CodeReadFailed, "%v", err),
			})
			continue
		}
		rows = append(rows, sourceRow{row: rowIndex, data: record})
	}
	report.Total = rowIndex

	workerCount := d.config.WorkerCount
	rowsPerWorker := (len(rows) + workerCount - 1) / workerCount

	results := make(chan chunkResult, workerCount)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		lo := i * rowsPerWorker
		if lo >= len(rows) {
			break
		}
		hi := min(lo+rowsPerWorker, len(rows))

		wg.Add(1)
		go func(chunk []sourceRow) {
			defer wg.Done()
			results <- d.processChunk(ctx, chunk)
		}(rows[lo:hi])
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		report.Failures = append(report.Failures, res.failures...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Row < report.Failures[j].Row
	})
	report.Imported = report.Total - report.Failed()
	report.Duration = d.now().Sub(start)
	logger.Log.Info("dry run finished", "run_id", report.RunID, "rows", report.Total, "failed", report.Failed())
	return report, nil
}

func (d *DataImporter) processChunk(ctx context.Context, rows []sourceRow) chunkResult {
	var res chunkResult
	for _, r := range rows {
		if ctx.Err() != nil {
			return res
		}
		if _, ierr := d.transformRecord(r.data); ierr != nil {
			res.failures = append(res.failures, RowFailure{Row: r.row, Err: ierr, Data: r.data})
		}
	}
	return res
}

// saveFailures writes the rejected rows plus an Error column to
// FailedDir/failed_records_<timestamp>.csv.
func (d *DataImporter) saveFailures(report *Report) error {
	var rows []RowFailure
	for _, f := range report.Failures {
		if f.Data != nil {
			rows = append(rows, f)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(d.config.FailedDir, 0o755); err != nil {
		return fmt.Errorf("error creating %s directory: %w", d.config.FailedDir, err)
	}
	name := fmt.Sprintf("failed_records_%s.csv", d.now().Format(failedFileLayout))
	path := filepath.Join(d.config.FailedDir, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating failed records file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append(append([]string{}, d.headers...), failedErrorHeader)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing headers: %w", err)
	}
	for _, f := range rows {
		record := append(append([]string{}, f.Data...), f.Err.Error())
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	report.FailedFile = path
	logger.Log.Info("failed records saved", "path", path, "rows", len(rows))
	return nil
}

// IsImportError reports whether err carries the given code.
func IsImportError(err error, code string) bool {
	var ierr *ImportError
	return errors.As(err, &ierr) && ierr.Code == code
}
