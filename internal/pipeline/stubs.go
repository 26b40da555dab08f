package pipeline

import (
	"context"
	"strings"

	"github.com/sells-group/hospitality-cli/pkg/serper"
)

// Compile-time interface checks.
var (
	_ ResearchClient = (*StubResearchClient)(nil)
	_ serper.Client  = (*StubSearchClient)(nil)
)

// StubResearchClient implements ResearchClient with canned answers for
// fully offline runs.
type StubResearchClient struct{}

// Research implements ResearchClient.
func (s *StubResearchClient) Research(_ context.Context, _ string, query string) (string, error) {
	// Verification synthesis prompts embed search snippets; everything else
	// is a primary research query.
	if strings.Contains(query, "Based on these search results") {
		return stubVerificationAnswer, nil
	}
	return stubResearchAnswer, nil
}

// StubSearchClient implements serper.Client with canned results.
type StubSearchClient struct{}

// Search implements serper.Client.
func (s *StubSearchClient) Search(_ context.Context, query string, _ int) (*serper.SearchResponse, error) {
	return &serper.SearchResponse{
		Organic: []serper.OrganicResult{
			{
				Title:    "The 38 Essential Restaurants Right Now",
				Link:     "https://www.example.com/maps/essential-restaurants",
				Snippet:  "A neighborhood spot with a seasonal menu and a short, well-chosen wine list. Reservations recommended on weekends.",
				Position: 1,
			},
			{
				Title:    "About Us",
				Link:     "https://www.example.com/about",
				Snippet:  "Family-run since 2012. We source from local farms and bake everything in house.",
				Position: 2,
			},
			{
				Title:    "Health Inspection Results",
				Link:     "https://www.example.gov/inspections",
				Snippet:  "Most recent inspection grade: A. No critical violations recorded.",
				Position: 3,
			},
		},
	}, nil
}

// --- Canned Content ---

const stubResearchAnswer = `Group Name: Independent
Total Locations: 1`

const stubVerificationAnswer = `Group Name: Independent
Total Locations: 1`
