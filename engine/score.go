package engine

import "strings"

// Fixed factor weights. They sum to 1.0, so the composite needs no further
// normalization: a sub-score that cannot be computed contributes 0 instead of
// shrinking the denominator. Missing data lowers the score on purpose.
const (
	weightInterests = 0.30
	weightTraits    = 0.25
	weightLocation  = 0.20
	weightEducation = 0.15
	weightCareer    = 0.10
)

// Score computes the composite similarity of two profiles in [0, 1].
// Deterministic and symmetric; empty fields and lists are valid inputs and
// simply contribute nothing.
func Score(a, b *Profile) float64 {
	if a == nil || b == nil {
		return 0
	}
	return weightInterests*jaccard(a.Interests, b.Interests) +
		weightTraits*jaccard(a.Traits, b.Traits) +
		weightLocation*locationScore(a, b) +
		weightEducation*fieldMatchMean(
			[2]string{a.Degree, b.Degree},
			[2]string{a.School, b.School},
			[2]string{a.Major, b.Major},
		) +
		weightCareer*fieldMatchMean(
			[2]string{a.Position, b.Position},
			[2]string{a.Company, b.Company},
		)
}

// norm is the single normalization used for every comparison: lower-case plus
// trimmed surrounding whitespace. No stemming, no locale collation.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// jaccard computes |A∩B| / |A∪B| over normalized tags. Either list being
// empty (or containing only blank tags) yields 0.
func jaccard(a, b []string) float64 {
	setA := tagSet(a)
	setB := tagSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tagSet(tags []string) map[string]struct{} {
	s := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if n := norm(tag); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// locationScore: 1.0 when city and district both present and equal, 0.8 when
// only the city matches, 0 otherwise. An empty city on either side means no
// location signal at all.
func locationScore(a, b *Profile) float64 {
	cityA, cityB := norm(a.City), norm(b.City)
	if cityA == "" || cityB == "" || cityA != cityB {
		return 0
	}
	distA, distB := norm(a.District), norm(b.District)
	if distA != "" && distA == distB {
		return 1.0
	}
	return 0.8
}

// fieldMatchMean averages an exact-match indicator over the field pairs where
// both sides have a value. 0 when no pair is comparable.
func fieldMatchMean(pairs ...[2]string) float64 {
	comparable, matched := 0, 0
	for _, pair := range pairs {
		left, right := norm(pair[0]), norm(pair[1])
		if left == "" || right == "" {
			continue
		}
		comparable++
		if left == right {
			matched++
		}
	}
	if comparable == 0 {
		return 0
	}
	return float64(matched) / float64(comparable)
}
