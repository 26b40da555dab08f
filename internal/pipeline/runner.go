// Package pipeline implements the enrichment flow: a primary ownership
// research pass per restaurant, optional search-backed verification of
// independent results, and the sequential batch loop that annotates the
// dataset row by row.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hospitality-cli/internal/dataset"
	"github.com/sells-group/hospitality-cli/internal/model"
)

// Runner drives one enrichment pass over a dataset. Rows run strictly
// sequentially and the whole table is persisted after every processed row,
// so an interrupted run loses at most one row of work.
type Runner struct {
	table    *dataset.Table
	resolver *Resolver
	verifier *Verifier
	rowDelay time.Duration
	limit    int
	log      *zap.Logger
}

// NewRunner wires a batch over the loaded table. verifier is nil when no
// search credential is configured; limit <= 0 processes every row.
func NewRunner(table *dataset.Table, resolver *Resolver, verifier *Verifier, rowDelay time.Duration, limit int) *Runner {
	return &Runner{
		table:    table,
		resolver: resolver,
		verifier: verifier,
		rowDelay: rowDelay,
		limit:    limit,
		log:      zap.L().With(zap.String("run_id", uuid.NewString())),
	}
}

// Run processes the table and returns the end-of-run summary. The only
// fatal error is a persistence failure; backend failures degrade to row
// annotations and the loop keeps moving. Cancelling ctx stops the batch at
// the next row boundary without annotating partial work.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	total := r.table.Len()
	r.log.Info("starting enrichment batch",
		zap.Int("restaurants", total),
		zap.String("output", r.table.Path()),
		zap.Bool("verification", r.verifier != nil),
	)

	processed := 0
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			r.log.Warn("batch interrupted", zap.Int("row", i+1), zap.Int("total", total))
			break
		}

		rec := r.table.Record(i)
		rowLog := r.log.With(
			zap.Int("row", i+1),
			zap.Int("total", total),
			zap.String("restaurant", rec.Name),
		)

		if rec.Resolved(r.verifier != nil) {
			rowLog.Info("skipping (already processed)")
			continue
		}
		if rec.Name == "" {
			rowLog.Warn("skipping row with no restaurant name")
			continue
		}
		if r.limit > 0 && processed >= r.limit {
			r.log.Info("row limit reached", zap.Int("limit", r.limit))
			break
		}

		rowLog.Info("researching")
		group, locations, verified := EnrichRecord(ctx, r.resolver, r.verifier, rec)

		if ctx.Err() != nil {
			rowLog.Warn("batch interrupted mid-row, leaving row unannotated")
			break
		}

		r.table.SetAnnotations(i, group, locations, verified)
		rowLog.Info("row annotated",
			zap.String("group", group),
			zap.String("locations", locations),
			zap.String("verified", verified),
		)
		if err := r.table.Save(); err != nil {
			return Summarize(r.table.Records()), eris.Wrap(err, "pipeline: save table")
		}
		processed++

		if i < total-1 {
			sleepCtx(ctx, r.rowDelay)
		}
	}

	summary := Summarize(r.table.Records())
	r.log.Info("batch complete",
		zap.Int("processed", processed),
		zap.Int("independent", summary.Independent),
		zap.Int("grouped", summary.Grouped),
		zap.Int("errors", summary.Errors),
		zap.Int("verified", summary.Verified),
	)
	return summary, nil
}

// EnrichRecord resolves one restaurant and, when a verifier is available,
// verifies independent outcomes. It returns the annotation triple; verifier
// may be nil.
func EnrichRecord(ctx context.Context, resolver *Resolver, verifier *Verifier, rec model.Record) (group, locations, verified string) {
	group, locations = resolver.Resolve(ctx, rec)

	switch {
	case strings.HasPrefix(group, model.ErrorPrefix):
		// No tag, so a later verification-enabled run retries the row.
	case group == model.GroupIndependent && verifier != nil:
		group, locations = verifier.Verify(ctx, rec)
		if group == model.GroupIndependent {
			verified = model.VerifiedIndependent
		} else {
			verified = model.VerifiedGroupFound
		}
	case group == model.GroupIndependent:
		verified = model.VerifiedNoSerper
	default:
		verified = model.VerifiedGroupIdentified
	}
	return group, locations, verified
}

// sleepCtx blocks for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
