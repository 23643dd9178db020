package engine

import (
	"math/rand"
	"sort"
)

// RankedCandidate is a candidate together with its composite score against
// the requesting user. Handlers expose the score on the detailed endpoint;
// the plain ranking contract returns candidates only.
type RankedCandidate struct {
	Candidate
	Score float64
}

// Rank orders the pool for the current user: ineligible candidates (self,
// excluded IDs, missing or incomplete profiles) are dropped, the rest are
// scored against the current profile and sorted best-first. Ties keep their
// input order so results are reproducible.
//
// When the current user has no complete profile there is nothing to score
// against, so the whole pool is returned in a random order instead of
// failing. The rng is required for that fallback and must be non-nil.
func Rank(current Candidate, pool []Candidate, excluded IDSet, rng *rand.Rand) []Candidate {
	if current.Profile == nil || !current.Profile.Complete {
		shuffled := make([]Candidate, len(pool))
		copy(shuffled, pool)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled
	}

	scored := RankScored(current, pool, excluded)
	out := make([]Candidate, len(scored))
	for i, rc := range scored {
		out[i] = rc.Candidate
	}
	return out
}

// RankScored is Rank without the no-profile fallback: it filters, scores and
// sorts, returning the scores alongside the candidates. An incomplete current
// profile yields an empty result because scores are undefined for it.
func RankScored(current Candidate, pool []Candidate, excluded IDSet) []RankedCandidate {
	if current.Profile == nil || !current.Profile.Complete {
		return []RankedCandidate{}
	}

	scored := make([]RankedCandidate, 0, len(pool))
	for _, c := range pool {
		if c.UserID == current.UserID {
			continue
		}
		if excluded.Contains(c.UserID) {
			continue
		}
		if c.Profile == nil || !c.Profile.Complete {
			continue
		}
		scored = append(scored, RankedCandidate{
			Candidate: c,
			Score:     Score(current.Profile, c.Profile),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
