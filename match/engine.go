package match

import (
	"runtime"
	"sort"
	"sync"
)

// Options tunes one matching invocation. The zero value means default
// weights, return everything, exclusions omitted.
type Options struct {
	// Weights overrides the default table; must validate to sum 100.
	Weights Weights
	// TopN truncates the ranked list when positive; 0 returns all.
	TopN int
	// IncludeExcluded reports hard-filtered candidates with their reasons.
	IncludeExcluded bool
	// Parallelism bounds the candidate fan-out; 0 picks GOMAXPROCS.
	Parallelism int
}

// MatchResult is one ranked candidate with its score breakdown.
type MatchResult struct {
	CandidateID string                       `json:"candidate_id"`
	Score       int                          `json:"score"`
	Rank        int                          `json:"rank"`
	Breakdown   map[Dimension]DimensionScore `json:"breakdown"`
}

// Exclusion is a candidate removed by a hard filter (or the degenerate
// no-applicable-dimensions case), reported but never ranked.
type Exclusion struct {
	CandidateID string          `json:"candidate_id"`
	Reason      ExclusionReason `json:"reason"`
}

// CandidateError is a candidate whose profile failed validation. It aborts
// matching for that candidate only and is reported alongside the scored
// results so the caller can decide whether to show a partial set.
type CandidateError struct {
	CandidateID string `json:"candidate_id"`
	Err         error  `json:"-"`
}

// Outcome is the full result of one invocation.
type Outcome struct {
	Results  []MatchResult    `json:"results"`
	Excluded []Exclusion      `json:"excluded,omitempty"`
	Failed   []CandidateError `json:"failed,omitempty"`
}

// evaluation is the per-candidate Pending -> {Excluded | Scored} outcome.
type evaluation struct {
	id        string
	excluded  bool
	reason    ExclusionReason
	score     int
	breakdown map[Dimension]DimensionScore
	err       error
}

// Match evaluates every candidate in the pool against the seeker and returns
// the ranked, deterministic result list. The seeker and candidates may be raw
// profiles; normalization happens here. A bad seeker or weight table fails
// the whole call; a bad candidate only drops that candidate into Failed.
//
// Matching is a pure function of its inputs: identical inputs produce
// identical output ordering and scores regardless of pool order or the
// degree of parallelism.
func Match(seeker Profile, pool []Profile, opts Options) (*Outcome, error) {
	weights := opts.Weights
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	norm, err := Normalize(seeker)
	if err != nil {
		return nil, err
	}

	evals := evaluatePool(&norm, pool, weights, opts.Parallelism)

	outcome := &Outcome{}
	for _, ev := range evals {
		switch {
		case ev.err != nil:
			outcome.Failed = append(outcome.Failed, CandidateError{CandidateID: ev.id, Err: ev.err})
		case ev.excluded:
			if opts.IncludeExcluded {
				outcome.Excluded = append(outcome.Excluded, Exclusion{CandidateID: ev.id, Reason: ev.reason})
			}
		default:
			outcome.Results = append(outcome.Results, MatchResult{
				CandidateID: ev.id,
				Score:       ev.score,
				Breakdown:   ev.breakdown,
			})
		}
	}

	rank(outcome, opts.TopN)
	return outcome, nil
}

// evaluatePool fans the per-candidate work out over a bounded worker pool.
// Results land in a slice indexed by pool position, so collection order never
// depends on scheduling.
func evaluatePool(seeker *Profile, pool []Profile, weights Weights, parallelism int) []evaluation {
	evals := make([]evaluation, len(pool))
	if len(pool) == 0 {
		return evals
	}

	workers := parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pool) {
		workers = len(pool)
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				evals[i] = evaluateOne(seeker, pool[i], weights)
			}
		}()
	}
	for i := range pool {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return evals
}

func evaluateOne(seeker *Profile, candidate Profile, weights Weights) evaluation {
	norm, err := Normalize(candidate)
	if err != nil {
		return evaluation{id: candidate.ID, err: err}
	}
	if excluded, reason := hardFilter(seeker, &norm); excluded {
		return evaluation{id: norm.ID, excluded: true, reason: reason}
	}
	breakdown := scoreAll(seeker, &norm)
	overall, ok := weights.aggregate(breakdown)
	if !ok {
		// Cannot happen while budget is always applicable, but the
		// degenerate case is still a reportable outcome, not a panic.
		return evaluation{id: norm.ID, excluded: true, reason: ExcludedNoApplicableDims}
	}
	return evaluation{id: norm.ID, score: overall, breakdown: breakdown}
}

// rank orders scored results by score descending with candidate id ascending
// as the tie-break, assigns 1-based ranks, and truncates to topN when
// positive. Excluded entries are sorted by id for stable reporting.
func rank(outcome *Outcome, topN int) {
	sort.Slice(outcome.Results, func(i, j int) bool {
		if outcome.Results[i].Score != outcome.Results[j].Score {
			return outcome.Results[i].Score > outcome.Results[j].Score
		}
		return outcome.Results[i].CandidateID < outcome.Results[j].CandidateID
	})
	if topN > 0 && len(outcome.Results) > topN {
		outcome.Results = outcome.Results[:topN]
	}
	for i := range outcome.Results {
		outcome.Results[i].Rank = i + 1
	}

	sort.Slice(outcome.Excluded, func(i, j int) bool {
		return outcome.Excluded[i].CandidateID < outcome.Excluded[j].CandidateID
	})
	sort.Slice(outcome.Failed, func(i, j int) bool {
		return outcome.Failed[i].CandidateID < outcome.Failed[j].CandidateID
	})
}
