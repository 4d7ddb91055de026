// Package ranker scores the images of a folder against a reference image by
// colour-histogram correlation and keeps the best K.
package ranker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/vitali-fedulov/images4"
	"golang.org/x/sync/errgroup"

	"image-ranker/internal"
	"image-ranker/internal/histogram"
	"image-ranker/internal/imagefile"
	"image-ranker/internal/logging"
	"image-ranker/internal/model"
	"image-ranker/internal/source"
)

type Ranker struct {
	log     *logging.Logger
	workers int
	dupes   bool

	// OnProgress, if set, is called once per candidate from worker
	// goroutines. It must be safe for concurrent use.
	OnProgress func(done, total int)
}

func New(cfg internal.Config, log *logging.Logger) *Ranker {
	return &Ranker{
		log:     log,
		workers: max(cfg.Workers, 1),
		dupes:   cfg.MarkDuplicates,
	}
}

// described is the per-image data the ranking needs.
type described struct {
	desc histogram.Descriptor
	icon images4.IconT
}

// FindTopK returns the k candidates of src most similar to reference, best
// first. Candidates that cannot be decoded are skipped.
func (r *Ranker) FindTopK(ctx context.Context, src source.Source, reference string, k int) ([]model.Match, error) {
	ranking, err := r.Rank(ctx, src, reference, k)
	if err != nil {
		return nil, err
	}
	return ranking.Matches, nil
}

// Rank is FindTopK with the reference and skipped entries reported.
func (r *Ranker) Rank(ctx context.Context, src source.Source, reference string, k int) (model.Ranking, error) {
	name, inFolder := src.Locate(reference)
	ref, err := r.describe(ctx, src, name)
	if err != nil {
		return model.Ranking{}, fmt.Errorf("reference: %w", err)
	}

	entries, err := src.List(ctx)
	if err != nil {
		return model.Ranking{}, err
	}
	if inFolder {
		entries = lo.Without(entries, name)
	}

	return r.rankAgainst(ctx, src, name, ref, entries, k)
}

func (r *Ranker) rankAgainst(ctx context.Context, src source.Source, refName string, ref *described, candidates []string, k int) (model.Ranking, error) {
	r.infof("ranker: scoring %d candidates in %s against %s", len(candidates), src.Folder(), refName)

	type result struct {
		match   model.Match
		skipErr error
	}
	results := make([]result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	var done atomic.Int64

	for i, name := range candidates {
		i, name := i, name
		g.Go(func() error {
			d, err := r.describe(gctx, src, name)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				results[i].skipErr = err
			} else {
				m := model.Match{Name: name, Score: histogram.Correlation(&ref.desc, &d.desc)}
				if r.dupes {
					m.NearDuplicate = imagefile.NearDuplicate(ref.icon, d.icon)
				}
				results[i].match = m
			}
			if r.OnProgress != nil {
				r.OnProgress(int(done.Add(1)), len(candidates))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Ranking{}, err
	}

	ranking := model.Ranking{
		Reference: refName,
		Folder:    src.Folder(),
		Matches:   make([]model.Match, 0, len(candidates)),
	}
	for i, res := range results {
		if res.skipErr != nil {
			r.warnf("ranker: skipping %s: %v", candidates[i], res.skipErr)
			ranking.Skipped = append(ranking.Skipped, model.Skipped{Name: candidates[i], Reason: res.skipErr.Error()})
			continue
		}
		ranking.Matches = append(ranking.Matches, res.match)
	}

	// Stable: equal scores keep listing order.
	sort.SliceStable(ranking.Matches, func(i, j int) bool {
		return ranking.Matches[i].Score > ranking.Matches[j].Score
	})
	ranking.Matches = ranking.Matches[:lo.Clamp(k, 0, len(ranking.Matches))]

	if len(ranking.Matches) == 0 {
		r.warnf("ranker: no comparable candidates in %s", src.Folder())
	}
	return ranking, nil
}

func (r *Ranker) describe(ctx context.Context, src source.Source, name string) (*described, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := imagefile.Decode(name, rc)
	if err != nil {
		return nil, err
	}
	d := &described{desc: histogram.Compute(img)}
	if r.dupes {
		d.icon = imagefile.Icon(img)
	}
	return d, nil
}

func (r *Ranker) infof(format string, args ...any) {
	if r.log != nil {
		r.log.Infof(format, args...)
	}
}

func (r *Ranker) warnf(format string, args ...any) {
	if r.log != nil {
		r.log.Warnf(format, args...)
	}
}
