package ranker

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"image-ranker/internal/model"
	"image-ranker/internal/source"
)

// NewRand returns a generator for the random variant. A zero seed means
// time-seeded.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// FindTopKRandom picks the reference uniformly from the folder listing and
// returns it along with its top k matches. A nil rng is time-seeded.
func (r *Ranker) FindTopKRandom(ctx context.Context, src source.Source, k int, rng *rand.Rand) (string, []model.Match, error) {
	ranking, err := r.RankRandom(ctx, src, k, rng)
	if err != nil {
		return "", nil, err
	}
	return ranking.Reference, ranking.Matches, nil
}

func (r *Ranker) RankRandom(ctx context.Context, src source.Source, k int, rng *rand.Rand) (model.Ranking, error) {
	entries, err := src.List(ctx)
	if err != nil {
		return model.Ranking{}, err
	}
	if len(entries) == 0 {
		return model.Ranking{}, fmt.Errorf("%s: %w", src.Folder(), model.ErrEmptyFolder)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	chosen := entries[randomIndex(rng, len(entries))]
	r.infof("ranker: picked %s at random", chosen)

	ref, err := r.describe(ctx, src, chosen)
	if err != nil {
		return model.Ranking{}, fmt.Errorf("reference: %w", err)
	}

	ranking, err := r.rankAgainst(ctx, src, chosen, ref, lo.Without(entries, chosen), k)
	if err != nil {
		return model.Ranking{}, err
	}
	ranking.Random = true
	return ranking, nil
}

func randomIndex(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}
