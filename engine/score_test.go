package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProfile() *Profile {
	return &Profile{
		City:       "Tallinn",
		District:   "Kalamaja",
		Position:   "Backend Developer",
		Company:    "Acme",
		Degree:     "BSc",
		School:     "TalTech",
		Major:      "Computer Science",
		Interests:  []string{"Music", "Sports", "Reading"},
		Traits:     []string{"curious", "patient"},
		AboutMe:    "hello",
		LookingFor: "study buddies",
		Complete:   true,
	}
}

func TestScoreSelfSimilarity(t *testing.T) {
	p := fullProfile()
	assert.InDelta(t, 1.0, Score(p, p), 1e-9)
}

func TestScoreSelfSimilarityWithMissingFields(t *testing.T) {
	// Missing data is penalized, not skipped: a profile with no career info
	// cannot reach 1.0 even against itself.
	p := fullProfile()
	p.Position = ""
	p.Company = ""
	got := Score(p, p)
	assert.Less(t, got, 1.0)
	assert.InDelta(t, 0.90, got, 1e-9) // everything but the 0.10 career weight
}

func TestScoreSymmetry(t *testing.T) {
	a := fullProfile()
	b := &Profile{
		City:      "Tallinn",
		District:  "Mustamäe",
		Position:  "designer",
		Degree:    "BSc",
		School:    "Tartu",
		Interests: []string{"music", "gaming"},
		Traits:    []string{"Patient"},
		Complete:  true,
	}
	assert.Equal(t, Score(a, b), Score(b, a))
}

func TestScoreRange(t *testing.T) {
	profiles := []*Profile{
		fullProfile(),
		{},
		{Interests: []string{"x"}},
		{City: "Oslo"},
		nil,
	}
	for _, a := range profiles {
		for _, b := range profiles {
			got := Score(a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestScoreInterestsJaccard(t *testing.T) {
	a := &Profile{Interests: []string{"Music", "Sports", "Reading"}}
	b := &Profile{Interests: []string{" music ", "SPORTS", "Gaming"}}
	// |{music,sports}| / |{music,sports,reading,gaming}| = 2/4, weight 0.30
	assert.InDelta(t, 0.30*0.5, Score(a, b), 1e-9)
}

func TestScoreEmptyInterestListContributesZero(t *testing.T) {
	a := &Profile{Interests: []string{"music"}}
	b := &Profile{}
	assert.Equal(t, 0.0, Score(a, b))
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name string
		a, b Profile
		want float64
	}{
		{"city and district match", Profile{City: "Tallinn", District: "Kalamaja"}, Profile{City: "tallinn", District: " kalamaja "}, 1.0},
		{"city only", Profile{City: "Tallinn", District: "Kalamaja"}, Profile{City: "Tallinn", District: "Mustamäe"}, 0.8},
		{"district missing on one side", Profile{City: "Tallinn", District: "Kalamaja"}, Profile{City: "Tallinn"}, 0.8},
		{"different city", Profile{City: "Tallinn"}, Profile{City: "Tartu"}, 0},
		{"empty city", Profile{District: "Kalamaja"}, Profile{City: "Tallinn", District: "Kalamaja"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, weightLocation*tt.want, Score(&tt.a, &tt.b), 1e-9)
		})
	}
}

func TestScoreEducationMeanOverComparableFields(t *testing.T) {
	// Degree matches, school differs, major only set on one side: mean over
	// the two comparable fields = 0.5.
	a := &Profile{Degree: "BSc", School: "TalTech", Major: "CS"}
	b := &Profile{Degree: "bsc", School: "Tartu"}
	assert.InDelta(t, weightEducation*0.5, Score(a, b), 1e-9)
}

func TestScoreCareerNoComparableFields(t *testing.T) {
	a := &Profile{Position: "Engineer"}
	b := &Profile{Company: "Acme"}
	assert.Equal(t, 0.0, Score(a, b))
}

func TestScoreWeightsSumToOne(t *testing.T) {
	require.InDelta(t, 1.0, weightInterests+weightTraits+weightLocation+weightEducation+weightCareer, 1e-9)
}
