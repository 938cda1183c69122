// Package recommend orchestrates location ranking for a business category:
// weighted area scoring, per-candidate catchment resolution, competitive and
// complementary density counting, and composite ranking.
package recommend

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/refdata"
	"github.com/sells-group/siteselect/internal/score"
)

// ErrDataUnavailable reports that the reference dataset has no areas to rank.
var ErrDataUnavailable = eris.New("recommend: reference dataset unavailable")

// Options tunes the ranking pipeline.
type Options struct {
	// TopAreas is how many highest-scoring areas enter catchment analysis.
	TopAreas int
	// TopRecommendations is how many ranked areas the Recommendations field
	// carries; the full cohort stays in AllCandidates.
	TopRecommendations int
	// Parallelism bounds concurrent catchment resolutions.
	Parallelism int
}

// DefaultOptions mirror the production pipeline: ten candidates, three
// recommendations, four concurrent provider calls.
func DefaultOptions() Options {
	return Options{TopAreas: 10, TopRecommendations: 3, Parallelism: 4}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TopAreas <= 0 {
		o.TopAreas = def.TopAreas
	}
	if o.TopRecommendations <= 0 {
		o.TopRecommendations = def.TopRecommendations
	}
	if o.Parallelism <= 0 {
		o.Parallelism = def.Parallelism
	}
	return o
}

// Result is the full ranking response.
type Result struct {
	SuperCategory   catalog.Category   `json:"super_category"`
	Complementary   []catalog.Category `json:"complementary_categories"`
	RadiusKM        float64            `json:"isochrone_radius_km"`
	Recommendations []score.Ranked     `json:"recommendations"`
	AllCandidates   []score.Ranked     `json:"all_top_10"`
}

// Ranker runs the ranking pipeline against a reference-data source and a
// catchment resolver.
type Ranker struct {
	cat      *catalog.Catalog
	src      refdata.Source
	resolver *catchment.Resolver
	opts     Options
}

// NewRanker wires a Ranker.
func NewRanker(cat *catalog.Catalog, src refdata.Source, resolver *catchment.Resolver, opts Options) *Ranker {
	return &Ranker{cat: cat, src: src, resolver: resolver, opts: opts.withDefaults()}
}

// Rank scores every area for the category, resolves a catchment around each of
// the top candidates, counts competitors and complementary businesses inside
// it, and returns the composite ranking. Output is deterministic for a given
// dataset, category, and radius.
func (r *Ranker) Rank(ctx context.Context, category catalog.Category, radiusKM float64) (*Result, error) {
	areas, err := r.src.Areas(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: load areas")
	}
	if len(areas) == 0 {
		return nil, ErrDataUnavailable
	}

	top := score.TopAreas(score.AreaScores(areas, r.cat, category), r.opts.TopAreas)
	complementary := r.cat.Complementary(category)

	// Each candidate writes its own slot, so bounded parallelism does not
	// disturb ordering.
	candidates := make([]*score.Candidate, len(top))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)

	for i, sa := range top {
		g.Go(func() error {
			// A zero centroid means the area was never geocoded; skip it
			// rather than rank a catchment around null island.
			if sa.Area.Lat == 0 && sa.Area.Lng == 0 {
				return nil
			}

			region := r.resolver.Resolve(gctx, sa.Area.Lat, sa.Area.Lng, radiusKM)

			competitors, err := r.src.CountByCategory(gctx, region, []catalog.Category{category})
			if err != nil {
				return eris.Wrapf(err, "recommend: count competitors in %s", sa.Name)
			}
			complements, err := r.src.CountByCategory(gctx, region, complementary)
			if err != nil {
				return eris.Wrapf(err, "recommend: count complementary in %s", sa.Name)
			}

			candidates[i] = &score.Candidate{
				Area:          sa.Area,
				AreaScore:     sa.Score,
				Competitors:   competitors,
				Complementary: complements,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cohort := make([]score.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			cohort = append(cohort, *c)
		}
	}
	if len(cohort) == 0 {
		return nil, ErrDataUnavailable
	}

	ranked := score.Rank(cohort)
	topN := r.opts.TopRecommendations
	if topN > len(ranked) {
		topN = len(ranked)
	}

	zap.L().Info("recommend: ranked areas",
		zap.String("category", string(category)),
		zap.Float64("radius_km", radiusKM),
		zap.Int("candidates", len(ranked)),
	)

	return &Result{
		SuperCategory:   category,
		Complementary:   complementary,
		RadiusKM:        radiusKM,
		Recommendations: ranked[:topN],
		AllCandidates:   ranked,
	}, nil
}
