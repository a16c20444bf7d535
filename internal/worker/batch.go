package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kodhane/mevra/internal/model"
)

// Searcher runs one document search; implemented by the hybrid coordinator.
type Searcher interface {
	Search(ctx context.Context, query string, filters model.Filters, page, perPage int) (*model.SearchPage, error)
}

// SearchJob searches a single query.
type SearchJob struct {
	Query    string
	Filters  model.Filters
	PerPage  int
	Searcher Searcher
}

// Execute implements Job.
func (j *SearchJob) Execute(ctx context.Context) Result {
	page, err := j.Searcher.Search(ctx, j.Query, j.Filters, 1, j.PerPage)
	return &SearchJobResult{Query: j.Query, Page: page, Error: err}
}

// SearchJobResult is the outcome of one batch query.
type SearchJobResult struct {
	Query string
	Page  *model.SearchPage
	Error error
}

// GetError implements Result.
func (r *SearchJobResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many queries concurrently against one searcher.
type BatchProcessor struct {
	searcher    Searcher
	concurrency int
	perPage     int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(searcher Searcher, concurrency, perPage int) *BatchProcessor {
	if perPage <= 0 {
		perPage = 10
	}
	return &BatchProcessor{
		searcher:    searcher,
		concurrency: concurrency,
		perPage:     perPage,
	}
}

// ProcessQueries runs the queries through the pool and returns all results.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string, filters model.Filters) []*SearchJobResult {
	if len(queries) == 0 {
		return []*SearchJobResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, query := range queries {
		pool.Submit(&SearchJob{
			Query:    query,
			Filters:  filters,
			PerPage:  b.perPage,
			Searcher: b.searcher,
		})
	}

	results := pool.Wait()
	out := make([]*SearchJobResult, len(results))
	for i, result := range results {
		out[i] = result.(*SearchJobResult)
	}
	return out
}

// ProcessFile reads queries from a file (one per line, # comments skipped,
// duplicates dropped) and runs them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, filters model.Filters) ([]*SearchJobResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return b.ProcessQueries(ctx, queries, filters), nil
}

// ReadQueriesFromFile reads one query per line.
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
