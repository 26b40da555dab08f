package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hospitality-cli/internal/model"
	"github.com/sells-group/hospitality-cli/pkg/serper"
)

func newTestVerifier(t *testing.T, search serper.Client, synthesis ResearchClient) *Verifier {
	t.Helper()
	v, err := NewVerifier(search, synthesis, DefaultKeywords(), 0)
	require.NoError(t, err)
	return v
}

func TestVerify_NoSearchClient(t *testing.T) {
	v := newTestVerifier(t, nil, nil)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Equal(t, "Independent", group)
	assert.Equal(t, "1", locations)
}

func TestVerify_NilVerifier(t *testing.T) {
	var v *Verifier

	group, locations := v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Equal(t, "Independent", group)
	assert.Equal(t, "1", locations)
}

func TestVerify_SearchErrorConfirmsIndependence(t *testing.T) {
	synthesis := &fakeResearch{}
	v := newTestVerifier(t, &fakeSearch{err: eris.New("serper: unexpected status 503")}, synthesis)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Equal(t, "Independent", group)
	assert.Equal(t, "1", locations)
	assert.Zero(t, synthesis.calls)
}

func TestVerify_NoSnippetsConfirmsIndependence(t *testing.T) {
	synthesis := &fakeResearch{}
	v := newTestVerifier(t, &fakeSearch{resp: &serper.SearchResponse{}}, synthesis)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Equal(t, "Independent", group)
	assert.Equal(t, "1", locations)
	assert.Zero(t, synthesis.calls)
}

func TestVerify_SynthesisFindsGroup(t *testing.T) {
	search := &fakeSearch{resp: snippetsResponse(
		"Torrisi Bar & Grill is owned by Torrisi Restaurant Group.",
	)}
	synthesis := &fakeResearch{fn: func(string) (string, error) {
		return "Group Name: Torrisi Restaurant Group\nTotal Locations: Unknown", nil
	}}
	v := newTestVerifier(t, search, synthesis)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Torrisi Bar & Grill"})

	assert.Equal(t, "Torrisi Restaurant Group", group)
	assert.Equal(t, "Unknown", locations)
	assert.Equal(t, 1, search.calls)
	assert.Equal(t, 1, synthesis.calls)
	assert.Contains(t, synthesis.lastQuery, `"Torrisi Bar & Grill" restaurant`)
	assert.Contains(t, synthesis.lastQuery, "owned by Torrisi Restaurant Group")
}

func TestVerify_SynthesisIndependentPinsLocations(t *testing.T) {
	search := &fakeSearch{resp: snippetsResponse("A quiet chef-owned bistro.")}
	synthesis := &fakeResearch{fn: func(string) (string, error) {
		return "Group Name: Independent\nTotal Locations: 3", nil
	}}
	v := newTestVerifier(t, search, synthesis)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Equal(t, "Independent", group)
	assert.Equal(t, "1", locations)
}

func TestVerify_SynthesisSeesTopFiveSnippets(t *testing.T) {
	var snippets []string
	for i := 1; i <= 7; i++ {
		snippets = append(snippets, fmt.Sprintf("snippet marker %d", i))
	}
	search := &fakeSearch{resp: snippetsResponse(snippets...)}
	synthesis := &fakeResearch{}
	v := newTestVerifier(t, search, synthesis)

	v.Verify(context.Background(), model.Record{Name: "Quince"})

	assert.Contains(t, synthesis.lastQuery, "snippet marker 5")
	assert.NotContains(t, synthesis.lastQuery, "snippet marker 6")
}

func TestVerify_SynthesisErrorFallsBackToHeuristic(t *testing.T) {
	search := &fakeSearch{resp: snippetsResponse(
		"Torrisi Bar & Grill is owned by Torrisi Restaurant Group and has locations across Manhattan.",
	)}
	synthesis := &fakeResearch{fn: func(string) (string, error) {
		return "", eris.New("backend unavailable")
	}}
	v := newTestVerifier(t, search, synthesis)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Torrisi Bar & Grill"})

	assert.Equal(t, "Torrisi Restaurant Group", group)
	assert.Equal(t, "Unknown", locations)
}

func TestVerify_HeuristicOutcomes(t *testing.T) {
	tests := []struct {
		name          string
		restaurant    string
		snippet       string
		wantGroup     string
		wantLocations string
	}{
		{
			name:          "lead_verb_extraction",
			restaurant:    "Torrisi Bar & Grill",
			snippet:       "Torrisi Bar & Grill is owned by Torrisi Restaurant Group and books out weeks ahead.",
			wantGroup:     "Torrisi Restaurant Group",
			wantLocations: "Unknown",
		},
		{
			name:          "tail_verb_extraction",
			restaurant:    "Carbone",
			snippet:       "Major Food Group operates Carbone, Dirty French, and Sadelle's.",
			wantGroup:     "Major Food Group",
			wantLocations: "Unknown",
		},
		{
			name:          "keyword_without_extractable_name",
			restaurant:    "Torrisi Bar & Grill",
			snippet:       "Torrisi Bar & Grill is part of a well-known restaurant family in New York.",
			wantGroup:     "Part of Restaurant Group (verify manually)",
			wantLocations: "Unknown",
		},
		{
			name:          "keyword_but_restaurant_name_absent",
			restaurant:    "Quince",
			snippet:       "The city's largest hospitality group announced three new openings this fall.",
			wantGroup:     "Part of Restaurant Group (verify manually)",
			wantLocations: "Unknown",
		},
		{
			name:          "no_ownership_keywords",
			restaurant:    "Quince",
			snippet:       "Quince is a cozy neighborhood trattoria with handmade pasta and natural wine.",
			wantGroup:     "Independent",
			wantLocations: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No synthesis backend, so the local heuristic decides.
			v := newTestVerifier(t, &fakeSearch{resp: snippetsResponse(tt.snippet)}, nil)

			group, locations := v.Verify(context.Background(), model.Record{Name: tt.restaurant})

			assert.Equal(t, tt.wantGroup, group)
			assert.Equal(t, tt.wantLocations, locations)
		})
	}
}

func TestVerify_KnowledgeGraphFeedsHeuristic(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{
		KnowledgeGraph: &serper.KnowledgeGraph{
			Title:       "Maialino",
			Type:        "Restaurant",
			Description: "Roman-style trattoria from a New York hospitality group.",
		},
	}}
	v := newTestVerifier(t, search, nil)

	group, locations := v.Verify(context.Background(), model.Record{Name: "Maialino"})

	assert.Equal(t, "Part of Restaurant Group (verify manually)", group)
	assert.Equal(t, "Unknown", locations)
}

func TestCollectSnippets(t *testing.T) {
	resp := &serper.SearchResponse{}
	for i := 1; i <= 10; i++ {
		resp.Organic = append(resp.Organic, serper.OrganicResult{
			Title:    fmt.Sprintf("Title %d", i),
			Snippet:  fmt.Sprintf("snippet %d", i),
			Position: i,
		})
	}
	resp.KnowledgeGraph = &serper.KnowledgeGraph{Title: "Panel", Description: "summary text"}

	snippets := collectSnippets(resp)

	require.Len(t, snippets, 9) // 8 organic + knowledge panel
	assert.Equal(t, "Title 1 snippet 1", snippets[0])
	assert.Equal(t, "Title 8 snippet 8", snippets[7])
	assert.Equal(t, "Panel  summary text", snippets[8])
}

func TestCollectSnippets_SkipsEmptyResults(t *testing.T) {
	resp := &serper.SearchResponse{
		Organic: []serper.OrganicResult{
			{Title: "", Snippet: ""},
			{Title: "Only result", Snippet: "with text"},
		},
	}

	snippets := collectSnippets(resp)

	require.Len(t, snippets, 1)
	assert.Equal(t, "Only result with text", snippets[0])
}

func TestBuildSearchQuery(t *testing.T) {
	rec := model.Record{Name: "Maialino", Market: "NYC"}
	assert.Equal(t, `"Maialino" NYC restaurant group owner parent company hospitality`, buildSearchQuery(rec))

	rec = model.Record{Name: "Quince"}
	assert.Equal(t, `"Quince" restaurant group owner parent company hospitality`, buildSearchQuery(rec))
}
