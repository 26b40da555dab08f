package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/hospitality-cli/internal/model"
	"github.com/sells-group/hospitality-cli/pkg/anthropic"
	"github.com/sells-group/hospitality-cli/pkg/perplexity"
)

func TestResolve_NoClient(t *testing.T) {
	r := NewResolver(nil, time.Minute)

	group, locations := r.Resolve(context.Background(), model.Record{Name: "Maialino"})

	assert.Equal(t, "ERROR: No API key", group)
	assert.Empty(t, locations)
}

func TestResolve_Success(t *testing.T) {
	backend := &fakeResearch{fn: func(string) (string, error) {
		return "Group Name: Union Square Hospitality Group\nTotal Locations: 25", nil
	}}
	r := NewResolver(backend, time.Minute)

	rec := model.Record{Name: "Maialino", Market: "NYC", Domain: "maialinonyc.com"}
	group, locations := r.Resolve(context.Background(), rec)

	assert.Equal(t, "Union Square Hospitality Group", group)
	assert.Equal(t, "25", locations)
	assert.Equal(t, 1, backend.calls)

	assert.Contains(t, backend.lastQuery, `Search for information about "Maialino" restaurant in NYC (website: maialinonyc.com).`)
	assert.Contains(t, backend.lastQuery, "Respond in this exact format:")
	assert.Contains(t, backend.lastQuery, "Group Name: [")
	assert.Contains(t, backend.lastQuery, "Total Locations: [")
	assert.Equal(t, researchSystem, backend.lastSystem)
}

func TestResolve_OmitsEmptyClauses(t *testing.T) {
	backend := &fakeResearch{}
	r := NewResolver(backend, time.Minute)

	r.Resolve(context.Background(), model.Record{Name: "Quince"})

	assert.Contains(t, backend.lastQuery, `Search for information about "Quince" restaurant.`)
	assert.NotContains(t, backend.lastQuery, "(website:")
}

func TestResolve_StatusErrorSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "anthropic_status",
			err:  &anthropic.APIError{StatusCode: 529, Body: "overloaded"},
			want: "ERROR: 529",
		},
		{
			name: "wrapped_perplexity_status",
			err:  eris.Wrap(&perplexity.APIError{StatusCode: 429, Body: "rate limited"}, "perplexity: chat completion"),
			want: "ERROR: 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeResearch{fn: func(string) (string, error) { return "", tt.err }}
			r := NewResolver(backend, time.Minute)

			group, locations := r.Resolve(context.Background(), model.Record{Name: "Maialino"})

			assert.Equal(t, tt.want, group)
			assert.Empty(t, locations)
		})
	}
}

func TestResolve_TransportErrorSentinel(t *testing.T) {
	backend := &fakeResearch{fn: func(string) (string, error) {
		return "", eris.New("connection refused")
	}}
	r := NewResolver(backend, time.Minute)

	group, locations := r.Resolve(context.Background(), model.Record{Name: "Maialino"})

	assert.Equal(t, "ERROR: connection refused", group)
	assert.Empty(t, locations)
}

func TestResolve_TrimsAnswerBeforeParsing(t *testing.T) {
	backend := &fakeResearch{fn: func(string) (string, error) {
		return "\n\n  Group Name: Alinea Group\nTotal Locations: 4\n\n", nil
	}}
	r := NewResolver(backend, time.Minute)

	group, locations := r.Resolve(context.Background(), model.Record{Name: "Alinea"})

	assert.Equal(t, "Alinea Group", group)
	assert.Equal(t, "4", locations)
}
