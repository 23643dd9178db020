package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMutualMatch(t *testing.T) {
	t.Run("both directions approved", func(t *testing.T) {
		assert.True(t, IsMutualMatch(NewIDSet(2), 2, NewIDSet(1), 1))
	})

	t.Run("one direction only", func(t *testing.T) {
		assert.False(t, IsMutualMatch(NewIDSet(2), 2, NewIDSet(), 1))
		assert.False(t, IsMutualMatch(NewIDSet(), 2, NewIDSet(1), 1))
	})

	t.Run("no approvals", func(t *testing.T) {
		assert.False(t, IsMutualMatch(NewIDSet(), 2, NewIDSet(), 1))
	})

	t.Run("approvals of other users do not count", func(t *testing.T) {
		assert.False(t, IsMutualMatch(NewIDSet(3, 4), 2, NewIDSet(1), 1))
	})
}

func TestFindMutualMatchesPreservesOrder(t *testing.T) {
	admirers := []Candidate{{UserID: 5}, {UserID: 9}, {UserID: 3}, {UserID: 7}}

	matched := FindMutualMatches(admirers, NewIDSet(3, 5))

	require.Len(t, matched, 2)
	assert.Equal(t, 5, matched[0].UserID)
	assert.Equal(t, 3, matched[1].UserID)
}

func TestFindMutualMatchesEmpty(t *testing.T) {
	assert.Empty(t, FindMutualMatches(nil, NewIDSet(1)))
	assert.Empty(t, FindMutualMatches([]Candidate{{UserID: 2}}, NewIDSet()))
}

func TestExclusionSetUnionsFullHistory(t *testing.T) {
	now := time.Now()
	history := []Interaction{
		{ActorID: 1, TargetID: 2, Action: ActionReject, CreatedAt: now.Add(-3 * time.Hour)},
		{ActorID: 1, TargetID: 3, Action: ActionApprove, CreatedAt: now.Add(-2 * time.Hour)},
		{ActorID: 1, TargetID: 4, Action: ActionView, CreatedAt: now.Add(-1 * time.Hour)},
		// A later VIEW of an earlier REJECT target must not un-exclude it.
		{ActorID: 1, TargetID: 2, Action: ActionView, CreatedAt: now},
	}

	excluded := ExclusionSet(history)

	assert.True(t, excluded.Contains(2))
	assert.True(t, excluded.Contains(3))
	assert.False(t, excluded.Contains(4))
	assert.Len(t, excluded, 2)
}

func TestApprovedSet(t *testing.T) {
	history := []Interaction{
		{ActorID: 1, TargetID: 2, Action: ActionApprove},
		{ActorID: 1, TargetID: 2, Action: ActionApprove}, // duplicates collapse
		{ActorID: 1, TargetID: 3, Action: ActionReject},
		{ActorID: 1, TargetID: 4, Action: ActionView},
	}

	approved := ApprovedSet(history)

	assert.Equal(t, NewIDSet(2), approved)
}

func TestMutualMatchFromHistories(t *testing.T) {
	// Two users who both recorded an APPROVE of each other.
	historyA := []Interaction{{ActorID: 1, TargetID: 2, Action: ActionApprove}}
	historyB := []Interaction{{ActorID: 2, TargetID: 1, Action: ActionApprove}}

	assert.True(t, IsMutualMatch(ApprovedSet(historyA), 2, ApprovedSet(historyB), 1))

	// Only one direction exists.
	assert.False(t, IsMutualMatch(ApprovedSet(historyA), 2, ApprovedSet(nil), 1))
}
