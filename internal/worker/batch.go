package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

var errNotRun = errors.New("batch stopped before query ran")

// Lookuper runs a single query through search and extraction
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*model.Report, error)
}

// QueryJob represents one query in a batch
type QueryJob struct {
	Index    int
	Query    string
	Lookuper Lookuper
}

// Execute executes the lookup
func (j *QueryJob) Execute(ctx context.Context) Result {
	report, err := j.Lookuper.Lookup(ctx, j.Query)
	if err != nil {
		return &QueryResult{Index: j.Index, Query: j.Query, Error: err}
	}
	return &QueryResult{Index: j.Index, Query: j.Query, Report: report}
}

// QueryResult represents the outcome of a query job
type QueryResult struct {
	Index  int
	Query  string
	Report *model.Report
	Error  error
}

// GetError returns the error from the lookup
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor looks up multiple queries concurrently
type BatchProcessor struct {
	lookuper    Lookuper
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(lookuper Lookuper, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		lookuper:    lookuper,
		concurrency: concurrency,
	}
}

// ProcessQueries looks up every query and returns results in input order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, query := range queries {
		pool.Submit(&QueryJob{
			Index:    i,
			Query:    query,
			Lookuper: b.lookuper,
		})
	}

	results := pool.Wait()

	out := make([]*QueryResult, 0, len(queries))
	done := make(map[int]bool, len(results))
	for _, result := range results {
		qr := result.(*QueryResult)
		done[qr.Index] = true
		out = append(out, qr)
	}

	// Jobs dropped after cancellation still get a result
	for i, query := range queries {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = errNotRun
		}
		out = append(out, &QueryResult{Index: i, Query: query, Error: fmt.Errorf("not run: %w", err)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}

// ProcessFile reads queries from a file and looks them up concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file (one per line)
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
