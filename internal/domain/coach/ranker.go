package coach

import (
	"sort"

	"github.com/grcup/apexcoach/internal/domain/model"
)

// Ranker defaults.
const (
	defaultMaxOpportunities = 3
	defaultMinCorners       = 3
)

// Ranker selects a driver's best coaching opportunities.
type Ranker struct {
	maxOpportunities int
	minCorners       int
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithMaxOpportunities caps the number of opportunities returned per driver.
func WithMaxOpportunities(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.maxOpportunities = n
		}
	}
}

// WithMinCorners sets the minimum comparable corners required before any
// opportunity is reported.
func WithMinCorners(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.minCorners = n
		}
	}
}

// NewRanker creates a Ranker with defaults.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		maxOpportunities: defaultMaxOpportunities,
		minCorners:       defaultMinCorners,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank builds the opportunity list for one driver. predictedGain maps corner
// number to the model's estimated achievable gain; corners without a
// prediction fall back to the observed time lost. Returns nil when the
// driver has fewer comparable corners than the configured minimum.
// The result holds at most maxOpportunities entries, sorted by predicted
// gain descending.
func (r *Ranker) Rank(comparisons []model.CornerComparison, predictedGain map[int]float64) []model.Opportunity {
	if len(comparisons) < r.minCorners {
		return nil
	}

	opportunities := make([]model.Opportunity, 0, len(comparisons))
	for _, c := range comparisons {
		gain, ok := predictedGain[c.Corner]
		if !ok {
			gain = c.TimeLost
		}
		if gain < 0 {
			gain = 0
		}
		opportunities = append(opportunities, model.Opportunity{
			Prediction: model.Prediction{
				Track:         c.Track,
				Corner:        c.Corner,
				Driver:        c.Driver,
				PredictedGain: gain,
			},
			TimeLost: c.TimeLost,
			Issue:    Diagnose(c),
			Advice:   Advise(c),
		})
	}

	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].PredictedGain != opportunities[j].PredictedGain {
			return opportunities[i].PredictedGain > opportunities[j].PredictedGain
		}
		if opportunities[i].TimeLost != opportunities[j].TimeLost {
			return opportunities[i].TimeLost > opportunities[j].TimeLost
		}
		return opportunities[i].Corner < opportunities[j].Corner
	})

	if len(opportunities) > r.maxOpportunities {
		opportunities = opportunities[:r.maxOpportunities]
	}
	return opportunities
}
