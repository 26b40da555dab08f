package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/hospitality-cli/internal/dataset"
	"github.com/sells-group/hospitality-cli/pkg/serper"
)

// fakeResearch implements ResearchClient with a per-query function, a call
// counter, and capture of the last prompt pair.
type fakeResearch struct {
	fn         func(query string) (string, error)
	calls      int
	lastSystem string
	lastQuery  string
}

func (f *fakeResearch) Research(_ context.Context, system, query string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastQuery = query
	if f.fn == nil {
		return stubResearchAnswer, nil
	}
	return f.fn(query)
}

// fakeSearch implements serper.Client with a fixed response or error, or a
// per-query function when fn is set.
type fakeSearch struct {
	resp  *serper.SearchResponse
	err   error
	fn    func(query string) (*serper.SearchResponse, error)
	calls int
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) (*serper.SearchResponse, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(query)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// snippetsResponse builds a search response carrying the given snippet
// texts as organic results.
func snippetsResponse(snippets ...string) *serper.SearchResponse {
	resp := &serper.SearchResponse{}
	for i, s := range snippets {
		resp.Organic = append(resp.Organic, serper.OrganicResult{
			Title:    "Result",
			Snippet:  s,
			Position: i + 1,
		})
	}
	return resp
}

// writeDataset writes CSV content into a temp dir and returns input and
// output paths for a table load.
func writeDataset(t *testing.T, content string) (inputPath, outputPath string) {
	t.Helper()
	dir := t.TempDir()
	inputPath = filepath.Join(dir, "restaurants.csv")
	outputPath = filepath.Join(dir, "restaurants_enriched.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(content), 0o644))
	return inputPath, outputPath
}

// loadDataset loads a table with default column names.
func loadDataset(t *testing.T, inputPath, outputPath string) *dataset.Table {
	t.Helper()
	table, err := dataset.Load(inputPath, outputPath, dataset.DefaultColumns(), "")
	require.NoError(t, err)
	return table
}
