package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/model"
	"github.com/sells-group/hospitality-cli/pkg/anthropic"
	"github.com/sells-group/hospitality-cli/pkg/perplexity"
)

const researchSystem = `You are a restaurant industry researcher. Answer using the exact format requested, with no extra commentary.`

const researchQuery = `Search for information about "%s" restaurant%s%s.

Please determine:
1. Is this restaurant part of a larger hospitality/restaurant group or management company?
2. If yes, what is the exact name of the parent company or restaurant group?
3. Approximately how many total restaurant locations does this group operate?

Respond in this exact format:
Group Name: [exact name of parent company/group, or "Independent" if it's a standalone restaurant]
Total Locations: [number, or "1" if independent, or "Unknown" if you can't find this info]

Be concise and only provide the requested information.`

// Resolver issues the primary group-ownership query for one restaurant.
// Failures never propagate as errors; they come back as ERROR sentinels in
// the group field so the batch keeps moving.
type Resolver struct {
	client  ResearchClient
	timeout time.Duration
}

// NewResolver builds a resolver on the given backend. A nil client models
// the missing-credential state: every Resolve call returns the no-key
// sentinel without touching the network.
func NewResolver(client ResearchClient, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Resolver{client: client, timeout: timeout}
}

// Resolve researches one restaurant and returns its (group, locations) pair.
func (r *Resolver) Resolve(ctx context.Context, rec model.Record) (group, locations string) {
	if r.client == nil {
		return model.ErrorPrefix + " No API key", ""
	}

	log := zap.L().With(
		zap.String("restaurant", rec.Name),
		zap.String("phase", "research"),
	)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.client.Research(ctx, researchSystem, buildQuery(rec))
	if err != nil {
		log.Warn("research failed", zap.Error(err))
		return errorSentinel(err), ""
	}

	group, locations = ParsePrimary(strings.TrimSpace(text))
	log.Debug("research answer parsed",
		zap.String("group", group),
		zap.String("locations", locations),
	)
	return group, locations
}

// buildQuery interpolates the record into the research prompt. Empty market
// and domain fields drop their clauses entirely.
func buildQuery(rec model.Record) string {
	location := ""
	if rec.Market != "" {
		location = fmt.Sprintf(" in %s", rec.Market)
	}
	domain := ""
	if rec.Domain != "" {
		domain = fmt.Sprintf(" (website: %s)", rec.Domain)
	}
	return fmt.Sprintf(researchQuery, rec.Name, location, domain)
}

// errorSentinel turns a backend failure into the in-row error marker. HTTP
// status failures keep just the code; anything else keeps the root cause
// message.
func errorSentinel(err error) string {
	var pErr *perplexity.APIError
	if errors.As(err, &pErr) {
		return fmt.Sprintf("%s %d", model.ErrorPrefix, pErr.StatusCode)
	}
	var aErr *anthropic.APIError
	if errors.As(err, &aErr) {
		return fmt.Sprintf("%s %d", model.ErrorPrefix, aErr.StatusCode)
	}
	return model.ErrorPrefix + " " + eris.Cause(err).Error()
}
