package matching

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ScorePool scores self against every candidate in parallel. The result is
// aligned with pool. Only context errors are returned.
func (e *Engine) ScorePool(ctx context.Context, self *UserProfile, pool []UserProfile) ([]RankedMatch, error) {
	self = orEmpty(self)
	now := e.now()
	out := make([]RankedMatch, len(pool))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Workers, 1))

	for i := range pool {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := e.calculate(self, &pool[i], now)
			breakdown := result.Breakdown
			out[i] = RankedMatch{
				User:       pool[i],
				Score:      result.TotalScore,
				Reasons:    result.Reasons,
				Compatible: result.Compatible,
				Breakdown:  &breakdown,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RankCompatible keeps the compatible candidates, highest score first.
// Candidates with self's id are skipped.
func (e *Engine) RankCompatible(ctx context.Context, self *UserProfile, pool []UserProfile) ([]RankedMatch, error) {
	self = orEmpty(self)
	candidates := lo.Reject(pool, func(p UserProfile, _ int) bool {
		return p.ID == self.ID
	})

	scored, err := e.ScorePool(ctx, self, candidates)
	if err != nil {
		return nil, err
	}

	ranked := lo.Filter(scored, func(m RankedMatch, _ int) bool {
		return m.Compatible
	})
	sortByScore(ranked)
	return ranked, nil
}
