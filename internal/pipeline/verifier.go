package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/model"
	"github.com/sells-group/hospitality-cli/pkg/serper"
)

const (
	// searchResultCap is the result-count cap sent with each search.
	searchResultCap = 10
	// maxOrganicSnippets bounds how many organic results feed verification.
	maxOrganicSnippets = 8
	// synthesisSnippets is how many snippets the synthesis prompt sees.
	synthesisSnippets = 5
)

const verifyQuery = `Based on these search results about "%s" restaurant:

%s

Does any of this indicate the restaurant is part of a larger restaurant or hospitality group?

Respond in this exact format:
Group Name: [exact group name, or "Independent" if standalone]
Total Locations: [number, or "1" if independent, or "Unknown"]`

// Verifier re-checks restaurants the primary pass called independent, to
// catch missed group affiliations. Every failure path confirms independence:
// verification is best-effort and must never abort the batch.
type Verifier struct {
	search    serper.Client
	synthesis ResearchClient
	keywords  Keywords
	leadRe    *regexp.Regexp
	tailRe    *regexp.Regexp
	delay     time.Duration
}

// NewVerifier builds a verifier over a search client and an optional
// synthesis backend. With a nil synthesis backend the local keyword
// heuristic decides every case. delay paces the synthesis call behind the
// search call.
func NewVerifier(search serper.Client, synthesis ResearchClient, kw Keywords, delay time.Duration) (*Verifier, error) {
	lead, tail, err := compilePatterns(kw)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		search:    search,
		synthesis: synthesis,
		keywords:  kw,
		leadRe:    lead,
		tailRe:    tail,
		delay:     delay,
	}, nil
}

// Verify searches the web for ownership signals about one restaurant and
// returns the (group, locations) pair to store. Callers invoke it only for
// records the primary pass resolved as independent.
func (v *Verifier) Verify(ctx context.Context, rec model.Record) (group, locations string) {
	if v == nil || v.search == nil {
		return model.GroupIndependent, "1"
	}

	log := zap.L().With(
		zap.String("restaurant", rec.Name),
		zap.String("phase", "verify"),
	)

	resp, err := v.search.Search(ctx, buildSearchQuery(rec), searchResultCap)
	if err != nil {
		log.Warn("search failed, trusting primary result", zap.Error(err))
		return model.GroupIndependent, "1"
	}

	snippets := collectSnippets(resp)
	if len(snippets) == 0 {
		log.Debug("no search snippets returned")
		return model.GroupIndependent, "1"
	}

	if v.synthesis != nil {
		sleepCtx(ctx, v.delay)
		g, l, synthErr := v.synthesize(ctx, rec.Name, snippets)
		if synthErr == nil {
			log.Debug("synthesis verdict", zap.String("group", g))
			return normalizeIndependent(g, l)
		}
		log.Warn("synthesis failed, using local heuristic", zap.Error(synthErr))
	}

	group, locations = v.heuristic(rec.Name, snippets)
	log.Debug("heuristic verdict", zap.String("group", group))
	return group, locations
}

// buildSearchQuery combines the quoted restaurant name, its market, and
// ownership keywords into a single web-search query.
func buildSearchQuery(rec model.Record) string {
	parts := []string{`"` + rec.Name + `"`}
	if rec.Market != "" {
		parts = append(parts, rec.Market)
	}
	parts = append(parts, "restaurant group owner parent company hospitality")
	return strings.Join(parts, " ")
}

// collectSnippets flattens a search response into text snippets: up to
// maxOrganicSnippets title+snippet pairs plus any knowledge-panel summary.
func collectSnippets(resp *serper.SearchResponse) []string {
	var snippets []string
	for _, r := range resp.Organic {
		if len(snippets) == maxOrganicSnippets {
			break
		}
		if s := strings.TrimSpace(r.Title + " " + r.Snippet); s != "" {
			snippets = append(snippets, s)
		}
	}
	if kg := resp.KnowledgeGraph; kg != nil {
		if s := strings.TrimSpace(strings.Join([]string{kg.Title, kg.Type, kg.Description}, " ")); s != "" {
			snippets = append(snippets, s)
		}
	}
	return snippets
}

// synthesize asks the research backend whether the snippets indicate group
// ownership.
func (v *Verifier) synthesize(ctx context.Context, name string, snippets []string) (group, locations string, err error) {
	if len(snippets) > synthesisSnippets {
		snippets = snippets[:synthesisSnippets]
	}
	query := fmt.Sprintf(verifyQuery, name, strings.Join(snippets, "\n"))
	text, err := v.synthesis.Research(ctx, researchSystem, query)
	if err != nil {
		return "", "", err
	}
	group, locations = ParseVerification(strings.TrimSpace(text))
	return group, locations, nil
}

// heuristic scans snippet text for ownership keywords and extracts a group
// name when one sits next to an ownership verb. Keyword hit without an
// extractable name escalates to the manual-review sentinel.
func (v *Verifier) heuristic(name string, snippets []string) (group, locations string) {
	text := strings.Join(snippets, " ")
	lower := strings.ToLower(text)

	nameFound := name != "" && strings.Contains(lower, strings.ToLower(name))
	keywordFound := false
	for _, kw := range v.keywords.Ownership {
		if strings.Contains(lower, strings.ToLower(kw)) {
			keywordFound = true
			break
		}
	}
	if !keywordFound {
		return model.GroupIndependent, "1"
	}

	if nameFound {
		if m := v.leadRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), model.Unknown
		}
		if m := v.tailRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), model.Unknown
		}
	}
	return model.GroupManualReview, model.Unknown
}

// normalizeIndependent pins the location count to "1" whenever verification
// lands on independence.
func normalizeIndependent(group, locations string) (string, string) {
	if group == model.GroupIndependent {
		return group, "1"
	}
	return group, locations
}

// compilePatterns builds the two extraction regexes: an ownership verb
// followed by a capitalized company phrase, and a capitalized company phrase
// followed by an ownership verb. The phrase must end in a company-type
// suffix.
func compilePatterns(kw Keywords) (lead, tail *regexp.Regexp, err error) {
	phrase := `((?:[A-Z][A-Za-z'&.-]*\s+)*(?:` + alternation(kw.Suffixes) + `))`

	lead, err = regexp.Compile(`(?:` + alternation(kw.LeadVerbs) + `)\s+` + phrase + `\b`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: compile lead pattern")
	}
	tail, err = regexp.Compile(phrase + `\s+(?:` + alternation(kw.TailVerbs) + `)\b`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: compile tail pattern")
	}
	return lead, tail, nil
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
