package email

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/logging"
)

// DefaultWorkers bounds how many emails are processed concurrently when the
// configuration does not say otherwise.
const DefaultWorkers = 4

// Pipeline runs the whole email extraction: read files, find dates,
// resolve titles. Emails are independent, so they fan out across a bounded
// worker pool; each email's result lands in its own slot and the slices are
// merged only after every worker finished.
type Pipeline struct {
	resolver  *Resolver
	startYear int
	workers   int
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline. workers <= 0 selects DefaultWorkers.
func NewPipeline(resolver *Resolver, startYear, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		resolver:  resolver,
		startYear: startYear,
		workers:   workers,
		logger:    logging.WithSource(slog.Default(), "email"),
	}
}

// Run processes every .txt file in dir and returns the merged events.
// A failing email contributes zero events without aborting its siblings;
// only reading the directory itself can fail.
func (p *Pipeline) Run(ctx context.Context, dir string) ([]event.Event, error) {
	emails, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, nil
	}

	results := make([][]event.Event, len(emails))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, em := range emails {
		g.Go(func() error {
			dates := ExtractDates(em.Body, p.startYear)
			results[i] = p.resolver.Resolve(ctx, em, dates)
			p.logger.Debug("email processed",
				logging.File(em.Filename),
				logging.Count(len(results[i])),
			)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	var events []event.Event
	for _, evs := range results {
		events = append(events, evs...)
	}

	p.logger.Info("email extraction finished",
		logging.Operation("email.extract"),
		slog.Int("emails", len(emails)),
		logging.Count(len(events)),
	)
	return events, nil
}
